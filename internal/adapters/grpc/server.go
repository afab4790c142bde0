package grpcadapter

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	pb "github.com/samirrijal/routeguide/internal/adapters/grpc/routeguidepb"
	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/usecases"
	"github.com/samirrijal/routeguide/internal/pkg/metrics"
)

// Server adapts RouteGuideService to the routeguide.RouteGuide gRPC API.
type Server struct {
	svc *usecases.RouteGuideService
}

var _ RouteGuideServer = (*Server)(nil)

// NewServer creates a new Server.
func NewServer(svc *usecases.RouteGuideService) *Server {
	return &Server{svc: svc}
}

// NewGRPCServer builds a grpc.Server with the routeguide codec, logging,
// metrics and panic recovery, and registers the route guide and the standard
// health service on it.
func NewGRPCServer(svc *usecases.RouteGuideService, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(RecoveryUnaryInterceptor(), LoggingUnaryInterceptor()),
		grpc.ChainStreamInterceptor(RecoveryStreamInterceptor(), LoggingStreamInterceptor()),
	}
	s := grpc.NewServer(append(base, opts...)...)

	RegisterRouteGuideServer(s, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s
}

// GetFeature returns the feature at the requested point, or a feature with
// an empty name and no location when there is none.
func (s *Server) GetFeature(ctx context.Context, point *pb.Point) (*pb.Feature, error) {
	f, ok := s.svc.GetFeature(ctx, pointFromPB(point))
	if !ok {
		return &pb.Feature{}, nil
	}
	return featureToPB(f), nil
}

// ListFeatures streams the features inside rect.
func (s *Server) ListFeatures(rect *pb.Rectangle, stream ListFeaturesServer) error {
	if rect.GetLo() == nil || rect.GetHi() == nil {
		return toStatus(domain.ErrInvalidRectangle)
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	r := domain.Rectangle{Lo: pointFromPB(rect.GetLo()), Hi: pointFromPB(rect.GetHi())}
	for f := range s.svc.ListFeatures(ctx, r) {
		if err := stream.Send(featureToPB(f)); err != nil {
			return err
		}
	}
	return toStatus(ctx.Err())
}

// RecordRoute summarises the points streamed by the client.
func (s *Server) RecordRoute(stream RecordRouteServer) error {
	summary, err := s.svc.RecordRoute(stream.Context(), pointStream{stream})
	if err != nil {
		return toStatus(err)
	}
	return stream.SendAndClose(summaryToPB(summary))
}

// RouteChat runs a chat session over stream.
func (s *Server) RouteChat(stream RouteChatServer) error {
	sessions := metrics.ActiveChatSessions.WithLabelValues("grpc")
	sessions.Inc()
	defer sessions.Dec()

	err := toStatus(s.svc.RouteChat(stream.Context(), noteStream{stream}))
	if status.Code(err) == codes.Canceled {
		return nil
	}
	return err
}

// pointStream exposes a RecordRoute stream as ports.PointStream.
type pointStream struct {
	stream RecordRouteServer
}

func (p pointStream) Recv() (domain.Point, error) {
	m, err := p.stream.Recv()
	if err != nil {
		return domain.Point{}, err
	}
	return pointFromPB(m), nil
}

// noteStream exposes a RouteChat stream as ports.NoteStream.
type noteStream struct {
	stream RouteChatServer
}

func (n noteStream) Recv() (domain.RouteNote, error) {
	m, err := n.stream.Recv()
	if err != nil {
		return domain.RouteNote{}, err
	}
	return noteFromPB(m), nil
}

func (n noteStream) Send(note domain.RouteNote) error {
	return n.stream.Send(noteToPB(note))
}
