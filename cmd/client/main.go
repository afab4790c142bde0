package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcadapter "github.com/samirrijal/routeguide/internal/adapters/grpc"
	pb "github.com/samirrijal/routeguide/internal/adapters/grpc/routeguidepb"
	"github.com/samirrijal/routeguide/internal/pkg/logging"
)

type Options struct {
	Addr     string        `short:"a" long:"addr" description:"Server address" default:"localhost:10000" env:"ROUTEGUIDE_ADDR"`
	Points   int           `short:"n" long:"points" description:"Points in the random route (random when 0)" default:"0"`
	Timeout  time.Duration `short:"t" long:"timeout" description:"Deadline for each call" default:"10s"`
	LogLevel string        `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logging.Setup(opts.LogLevel, "text")

	conn, err := grpc.NewClient(opts.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		slog.Error("dial failed", "addr", opts.Addr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	client := grpcadapter.NewRouteGuideClient(conn)
	c := &runner{client: client, timeout: opts.Timeout}

	steps := []func() error{
		func() error { return c.printFeature(&pb.Point{Latitude: 409146138, Longitude: -746188906}) },
		func() error { return c.printFeature(&pb.Point{}) },
		func() error {
			return c.printFeatures(&pb.Rectangle{
				Lo: &pb.Point{Latitude: 400000000, Longitude: -750000000},
				Hi: &pb.Point{Latitude: 420000000, Longitude: -730000000},
			})
		},
		func() error { return c.runRecordRoute(opts.Points) },
		c.runRouteChat,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			slog.Error("call failed", "error", err)
			os.Exit(1)
		}
	}
}

type runner struct {
	client  *grpcadapter.RouteGuideClient
	timeout time.Duration
}

func (r *runner) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// printFeature gets the feature at point.
func (r *runner) printFeature(point *pb.Point) error {
	ctx, cancel := r.context()
	defer cancel()

	f, err := r.client.GetFeature(ctx, point)
	if err != nil {
		return fmt.Errorf("GetFeature: %w", err)
	}
	if f.GetName() == "" {
		fmt.Printf("No feature found at %s\n", formatPoint(point))
		return nil
	}
	fmt.Printf("Feature %q at %s\n", f.GetName(), formatPoint(f.GetLocation()))
	return nil
}

// printFeatures lists every feature inside rect.
func (r *runner) printFeatures(rect *pb.Rectangle) error {
	fmt.Printf("Looking for features within %s - %s\n", formatPoint(rect.GetLo()), formatPoint(rect.GetHi()))

	ctx, cancel := r.context()
	defer cancel()

	stream, err := r.client.ListFeatures(ctx, rect)
	if err != nil {
		return fmt.Errorf("ListFeatures: %w", err)
	}
	for {
		f, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ListFeatures: %w", err)
		}
		fmt.Printf("Feature %q at %s\n", f.GetName(), formatPoint(f.GetLocation()))
	}
}

// runRecordRoute sends a sequence of random points.
func (r *runner) runRecordRoute(count int) error {
	if count <= 0 {
		count = rand.IntN(100) + 2
	}
	fmt.Printf("Traversing %d points\n", count)

	ctx, cancel := r.context()
	defer cancel()

	stream, err := r.client.RecordRoute(ctx)
	if err != nil {
		return fmt.Errorf("RecordRoute: %w", err)
	}
	for i := 0; i < count; i++ {
		if err := stream.Send(randomPoint()); err != nil {
			return fmt.Errorf("RecordRoute send: %w", err)
		}
	}
	summary, err := stream.CloseAndRecv()
	if err != nil {
		return fmt.Errorf("RecordRoute: %w", err)
	}
	fmt.Printf("Route summary: %d points, %d features, %d meters, %d seconds\n",
		summary.PointCount, summary.FeatureCount, summary.Distance, summary.ElapsedTime)
	return nil
}

// runRouteChat sends notes at three locations while printing every reply.
func (r *runner) runRouteChat() error {
	notes := []*pb.RouteNote{
		{Location: &pb.Point{Latitude: 0, Longitude: 1}, Message: "First message"},
		{Location: &pb.Point{Latitude: 0, Longitude: 2}, Message: "Second message"},
		{Location: &pb.Point{Latitude: 0, Longitude: 3}, Message: "Third message"},
		{Location: &pb.Point{Latitude: 0, Longitude: 1}, Message: "Fourth message"},
		{Location: &pb.Point{Latitude: 0, Longitude: 2}, Message: "Fifth message"},
		{Location: &pb.Point{Latitude: 0, Longitude: 3}, Message: "Sixth message"},
	}

	ctx, cancel := r.context()
	defer cancel()

	stream, err := r.client.RouteChat(ctx)
	if err != nil {
		return fmt.Errorf("RouteChat: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		for {
			in, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				done <- nil
				return
			}
			if err != nil {
				done <- fmt.Errorf("RouteChat receive: %w", err)
				return
			}
			fmt.Printf("Got message %q at %s\n", in.GetMessage(), formatPoint(in.GetLocation()))
		}
	}()

	for _, n := range notes {
		if err := stream.Send(n); err != nil {
			return fmt.Errorf("RouteChat send: %w", err)
		}
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("RouteChat close: %w", err)
	}
	return <-done
}

func randomPoint() *pb.Point {
	return &pb.Point{
		Latitude:  int32((rand.IntN(180) - 90) * 1e7),
		Longitude: int32((rand.IntN(360) - 180) * 1e7),
	}
}

func formatPoint(p *pb.Point) string {
	return fmt.Sprintf("(%.7f, %.7f)", float64(p.GetLatitude())/1e7, float64(p.GetLongitude())/1e7)
}
