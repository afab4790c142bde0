package grpcadapter

import (
	"context"

	"google.golang.org/grpc"

	pb "github.com/samirrijal/routeguide/internal/adapters/grpc/routeguidepb"
)

// RouteGuideClient is the client API for the routeguide.RouteGuide service.
type RouteGuideClient struct {
	cc grpc.ClientConnInterface
}

// NewRouteGuideClient creates a client that speaks over cc.
func NewRouteGuideClient(cc grpc.ClientConnInterface) *RouteGuideClient {
	return &RouteGuideClient{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(pb.Codec{})}, opts...)
}

// GetFeature returns the feature at point, or a feature with an empty name.
func (c *RouteGuideClient) GetFeature(ctx context.Context, point *pb.Point, opts ...grpc.CallOption) (*pb.Feature, error) {
	out := new(pb.Feature)
	if err := c.cc.Invoke(ctx, methodGetFeature, point, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFeatures opens a stream of the features inside rect.
func (c *RouteGuideClient) ListFeatures(ctx context.Context, rect *pb.Rectangle, opts ...grpc.CallOption) (ListFeaturesClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], methodListFeatures, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &listFeaturesClient{stream}
	if err := x.ClientStream.SendMsg(rect); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ListFeaturesClient is the client side of a ListFeatures stream.
type ListFeaturesClient interface {
	Recv() (*pb.Feature, error)
	grpc.ClientStream
}

type listFeaturesClient struct {
	grpc.ClientStream
}

func (x *listFeaturesClient) Recv() (*pb.Feature, error) {
	m := new(pb.Feature)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRoute opens a client stream of points.
func (c *RouteGuideClient) RecordRoute(ctx context.Context, opts ...grpc.CallOption) (RecordRouteClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[1], methodRecordRoute, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &recordRouteClient{stream}, nil
}

// RecordRouteClient is the client side of a RecordRoute stream.
type RecordRouteClient interface {
	Send(*pb.Point) error
	CloseAndRecv() (*pb.RouteSummary, error)
	grpc.ClientStream
}

type recordRouteClient struct {
	grpc.ClientStream
}

func (x *recordRouteClient) Send(m *pb.Point) error {
	return x.ClientStream.SendMsg(m)
}

func (x *recordRouteClient) CloseAndRecv() (*pb.RouteSummary, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(pb.RouteSummary)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RouteChat opens a bidirectional note stream.
func (c *RouteGuideClient) RouteChat(ctx context.Context, opts ...grpc.CallOption) (RouteChatClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[2], methodRouteChat, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &routeChatClient{stream}, nil
}

// RouteChatClient is the client side of a RouteChat stream.
type RouteChatClient interface {
	Send(*pb.RouteNote) error
	Recv() (*pb.RouteNote, error)
	grpc.ClientStream
}

type routeChatClient struct {
	grpc.ClientStream
}

func (x *routeChatClient) Send(m *pb.RouteNote) error {
	return x.ClientStream.SendMsg(m)
}

func (x *routeChatClient) Recv() (*pb.RouteNote, error) {
	m := new(pb.RouteNote)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
