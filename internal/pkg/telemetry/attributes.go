package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys used for instrumentation.
const (
	// Call shape
	AttrRPCMethod = attribute.Key("routeguide.rpc.method")

	// Geometry
	AttrLatitude  = attribute.Key("routeguide.point.latitude")
	AttrLongitude = attribute.Key("routeguide.point.longitude")

	// Results
	AttrFeatureFound   = attribute.Key("routeguide.feature.found")
	AttrFeaturesSent   = attribute.Key("routeguide.features.sent")
	AttrPointCount     = attribute.Key("routeguide.route.point_count")
	AttrFeatureCount   = attribute.Key("routeguide.route.feature_count")
	AttrDistanceMeters = attribute.Key("routeguide.route.distance_m")
	AttrNotesReceived  = attribute.Key("routeguide.chat.notes_received")
)
