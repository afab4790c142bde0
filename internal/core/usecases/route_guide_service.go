package usecases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/ports"
	"github.com/samirrijal/routeguide/internal/pkg/metrics"
	"github.com/samirrijal/routeguide/internal/pkg/telemetry"
)

// listFeaturesBuffer bounds how far a range scan may run ahead of its consumer.
const listFeaturesBuffer = 4

// RouteGuideService implements the four route guide calls on top of the
// feature catalog and the shared note hub.
type RouteGuideService struct {
	catalog   *FeatureCatalog
	hub       *NoteHub
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewRouteGuideService creates a new RouteGuideService. publisher may be nil.
func NewRouteGuideService(catalog *FeatureCatalog, hub *NoteHub, publisher ports.EventPublisher) *RouteGuideService {
	return &RouteGuideService{
		catalog:   catalog,
		hub:       hub,
		publisher: publisher,
		now:       time.Now,
	}
}

// Catalog returns the feature catalog the service reads from.
func (s *RouteGuideService) Catalog() *FeatureCatalog { return s.catalog }

// GetFeature returns the feature at p. When nothing is there the zero
// Feature is returned together with false.
func (s *RouteGuideService) GetFeature(ctx context.Context, p domain.Point) (domain.Feature, bool) {
	_, span := telemetry.Tracer().Start(ctx, "RouteGuide.GetFeature", trace.WithAttributes(
		telemetry.AttrLatitude.Int(int(p.Latitude)),
		telemetry.AttrLongitude.Int(int(p.Longitude)),
	))
	defer span.End()

	f, ok := s.catalog.LookupExact(p)
	span.SetAttributes(telemetry.AttrFeatureFound.Bool(ok))
	return f, ok
}

// ListFeatures streams every cataloged feature inside rect, in catalog order.
//
// Features are produced by a goroutine bound to ctx into a channel of
// capacity listFeaturesBuffer; once it is full the producer waits for the
// consumer. The channel is closed when the scan completes or ctx is done.
func (s *RouteGuideService) ListFeatures(ctx context.Context, rect domain.Rectangle) <-chan domain.Feature {
	ctx, span := telemetry.Tracer().Start(ctx, "RouteGuide.ListFeatures")
	out := make(chan domain.Feature, listFeaturesBuffer)

	go func() {
		defer close(out)
		defer span.End()

		sent := 0
		for f := range s.catalog.InRange(rect) {
			select {
			case out <- f:
				sent++
				metrics.FeaturesStreamed.Inc()
			case <-ctx.Done():
				span.SetStatus(codes.Error, ctx.Err().Error())
				return
			}
		}
		span.SetAttributes(telemetry.AttrFeaturesSent.Int(sent))
	}()

	return out
}

// RecordRoute consumes a stream of points and summarises it.
//
// Points are processed in arrival order. An error from the stream aborts the
// recording and is returned as-is; no partial summary is produced.
func (s *RouteGuideService) RecordRoute(ctx context.Context, stream ports.PointStream) (domain.RouteSummary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "RouteGuide.RecordRoute")
	defer span.End()

	start := s.now()

	var (
		summary  domain.RouteSummary
		previous domain.Point
	)
	for {
		p, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return domain.RouteSummary{}, err
		}

		summary.FeatureCount += int32(s.catalog.MatchCount(p))
		if summary.PointCount > 0 {
			summary.Distance += domain.Distance(previous, p)
		}
		summary.PointCount++
		previous = p
	}

	summary.ElapsedTime = int32(s.now().Sub(start) / time.Second)

	span.SetAttributes(
		telemetry.AttrPointCount.Int(int(summary.PointCount)),
		telemetry.AttrFeatureCount.Int(int(summary.FeatureCount)),
		telemetry.AttrDistanceMeters.Int(int(summary.Distance)),
	)
	metrics.RoutesRecorded.Inc()

	if s.publisher != nil {
		route := domain.RecordedRoute{Summary: summary, FinishedAt: s.now().UTC()}
		if err := s.publisher.PublishRecordedRoute(ctx, route); err != nil {
			slog.WarnContext(ctx, "publish recorded route failed", "error", err)
		}
	}

	return summary, nil
}

// RouteChat runs one chat session. Every inbound note is recorded in the hub
// and the full list of notes at its location is sent back, in order, before
// the next inbound note is read. The session ends cleanly when the client
// stops sending or the call is cancelled.
func (s *RouteGuideService) RouteChat(ctx context.Context, stream ports.NoteStream) error {
	ctx, span := telemetry.Tracer().Start(ctx, "RouteGuide.RouteChat")
	defer span.End()

	received := 0
	defer func() { span.SetAttributes(telemetry.AttrNotesReceived.Int(received)) }()

	for {
		note, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// The client went away; the session ends quietly.
			if ctx.Err() != nil {
				return nil
			}
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if note.Location == nil {
			span.SetStatus(codes.Error, domain.ErrMissingLocation.Error())
			return domain.ErrMissingLocation
		}
		received++

		notes := s.hub.RecordAndReplay(*note.Location, note)
		metrics.NotesRecorded.Inc()

		if s.publisher != nil {
			if err := s.publisher.PublishNote(ctx, note); err != nil {
				slog.WarnContext(ctx, "publish note failed", "error", err)
			}
		}

		for _, n := range notes {
			// A cancelled session ends quietly without further output.
			if ctx.Err() != nil {
				return nil
			}
			if err := stream.Send(n); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// NotesAt returns the notes recorded at location so far.
func (s *RouteGuideService) NotesAt(location domain.Point) []domain.RouteNote {
	return s.hub.NotesAt(location)
}
