package grpcadapter

import (
	"context"

	"google.golang.org/grpc"

	pb "github.com/samirrijal/routeguide/internal/adapters/grpc/routeguidepb"
)

// ServiceName is the fully-qualified routeguide service name.
const ServiceName = "routeguide.RouteGuide"

const (
	methodGetFeature   = "/" + ServiceName + "/GetFeature"
	methodListFeatures = "/" + ServiceName + "/ListFeatures"
	methodRecordRoute  = "/" + ServiceName + "/RecordRoute"
	methodRouteChat    = "/" + ServiceName + "/RouteChat"
)

// RouteGuideServer is the server API for the routeguide.RouteGuide service.
type RouteGuideServer interface {
	// GetFeature obtains the feature at a given position.
	GetFeature(ctx context.Context, point *pb.Point) (*pb.Feature, error)
	// ListFeatures streams the features available within a rectangle.
	ListFeatures(rect *pb.Rectangle, stream ListFeaturesServer) error
	// RecordRoute accepts a stream of points and replies with a summary.
	RecordRoute(stream RecordRouteServer) error
	// RouteChat exchanges route notes with the caller.
	RouteChat(stream RouteChatServer) error
}

// RegisterRouteGuideServer registers srv on s.
func RegisterRouteGuideServer(s grpc.ServiceRegistrar, srv RouteGuideServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the routeguide.RouteGuide service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RouteGuideServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFeature",
			Handler:    getFeatureHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ListFeatures",
			Handler:       listFeaturesHandler,
			ServerStreams: true,
		},
		{
			StreamName:    "RecordRoute",
			Handler:       recordRouteHandler,
			ClientStreams: true,
		},
		{
			StreamName:    "RouteChat",
			Handler:       routeChatHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "route_guide.proto",
}

func getFeatureHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(pb.Point)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteGuideServer).GetFeature(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetFeature}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RouteGuideServer).GetFeature(ctx, req.(*pb.Point))
	}
	return interceptor(ctx, in, info, handler)
}

func listFeaturesHandler(srv any, stream grpc.ServerStream) error {
	in := new(pb.Rectangle)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RouteGuideServer).ListFeatures(in, &listFeaturesServer{stream})
}

// ListFeaturesServer is the server side of a ListFeatures stream.
type ListFeaturesServer interface {
	Send(*pb.Feature) error
	grpc.ServerStream
}

type listFeaturesServer struct {
	grpc.ServerStream
}

func (x *listFeaturesServer) Send(m *pb.Feature) error {
	return x.ServerStream.SendMsg(m)
}

func recordRouteHandler(srv any, stream grpc.ServerStream) error {
	return srv.(RouteGuideServer).RecordRoute(&recordRouteServer{stream})
}

// RecordRouteServer is the server side of a RecordRoute stream.
type RecordRouteServer interface {
	SendAndClose(*pb.RouteSummary) error
	Recv() (*pb.Point, error)
	grpc.ServerStream
}

type recordRouteServer struct {
	grpc.ServerStream
}

func (x *recordRouteServer) SendAndClose(m *pb.RouteSummary) error {
	return x.ServerStream.SendMsg(m)
}

func (x *recordRouteServer) Recv() (*pb.Point, error) {
	m := new(pb.Point)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func routeChatHandler(srv any, stream grpc.ServerStream) error {
	return srv.(RouteGuideServer).RouteChat(&routeChatServer{stream})
}

// RouteChatServer is the server side of a RouteChat stream.
type RouteChatServer interface {
	Send(*pb.RouteNote) error
	Recv() (*pb.RouteNote, error)
	grpc.ServerStream
}

type routeChatServer struct {
	grpc.ServerStream
}

func (x *routeChatServer) Send(m *pb.RouteNote) error {
	return x.ServerStream.SendMsg(m)
}

func (x *routeChatServer) Recv() (*pb.RouteNote, error) {
	m := new(pb.RouteNote)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
