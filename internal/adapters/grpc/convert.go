package grpcadapter

import (
	pb "github.com/samirrijal/routeguide/internal/adapters/grpc/routeguidepb"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

func pointFromPB(p *pb.Point) domain.Point {
	return domain.Point{Latitude: p.GetLatitude(), Longitude: p.GetLongitude()}
}

func optionalPointFromPB(p *pb.Point) *domain.Point {
	if p == nil {
		return nil
	}
	dp := pointFromPB(p)
	return &dp
}

func pointToPB(p *domain.Point) *pb.Point {
	if p == nil {
		return nil
	}
	return &pb.Point{Latitude: p.Latitude, Longitude: p.Longitude}
}

func featureToPB(f domain.Feature) *pb.Feature {
	return &pb.Feature{Name: f.Name, Location: pointToPB(f.Location)}
}

func noteFromPB(n *pb.RouteNote) domain.RouteNote {
	return domain.RouteNote{
		Location: optionalPointFromPB(n.GetLocation()),
		Message:  n.GetMessage(),
	}
}

func noteToPB(n domain.RouteNote) *pb.RouteNote {
	return &pb.RouteNote{Location: pointToPB(n.Location), Message: n.Message}
}

func summaryToPB(s domain.RouteSummary) *pb.RouteSummary {
	return &pb.RouteSummary{
		PointCount:   s.PointCount,
		FeatureCount: s.FeatureCount,
		Distance:     s.Distance,
		ElapsedTime:  s.ElapsedTime,
	}
}
