// Package routeguidepb holds the wire messages of the routeguide.RouteGuide
// service. The field numbers match route_guide.proto so any standard route
// guide client or server can interoperate with these types.
package routeguidepb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every routeguide wire message.
type Message interface {
	MarshalWire(b []byte) []byte
	UnmarshalWire(b []byte) error
}

// Point is a latitude-longitude pair in degrees multiplied by 10**7.
type Point struct {
	Latitude  int32
	Longitude int32
}

func (m *Point) GetLatitude() int32 {
	if m == nil {
		return 0
	}
	return m.Latitude
}

func (m *Point) GetLongitude() int32 {
	if m == nil {
		return 0
	}
	return m.Longitude
}

func (m *Point) MarshalWire(b []byte) []byte {
	b = appendInt32(b, 1, m.Latitude)
	b = appendInt32(b, 2, m.Longitude)
	return b
}

func (m *Point) UnmarshalWire(b []byte) error {
	*m = Point{}
	return m.mergeWire(b)
}

func (m *Point) mergeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt32(b, &m.Latitude)
		case num == 2 && typ == protowire.VarintType:
			return consumeInt32(b, &m.Longitude)
		}
		return skipField(num, typ, b)
	})
}

// Rectangle is a latitude-longitude box given by two opposite corners.
type Rectangle struct {
	Lo *Point
	Hi *Point
}

func (m *Rectangle) GetLo() *Point {
	if m == nil {
		return nil
	}
	return m.Lo
}

func (m *Rectangle) GetHi() *Point {
	if m == nil {
		return nil
	}
	return m.Hi
}

func (m *Rectangle) MarshalWire(b []byte) []byte {
	b = appendMessage(b, 1, m.Lo)
	b = appendMessage(b, 2, m.Hi)
	return b
}

func (m *Rectangle) UnmarshalWire(b []byte) error {
	*m = Rectangle{}
	return m.mergeWire(b)
}

func (m *Rectangle) mergeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeMessage(b, &m.Lo)
		case num == 2 && typ == protowire.BytesType:
			return consumeMessage(b, &m.Hi)
		}
		return skipField(num, typ, b)
	})
}

// Feature names something at a given point. An empty name means nothing
// is known there.
type Feature struct {
	Name     string
	Location *Point
}

func (m *Feature) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (m *Feature) GetLocation() *Point {
	if m == nil {
		return nil
	}
	return m.Location
}

func (m *Feature) MarshalWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendMessage(b, 2, m.Location)
	return b
}

func (m *Feature) UnmarshalWire(b []byte) error {
	*m = Feature{}
	return m.mergeWire(b)
}

func (m *Feature) mergeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.Name)
		case num == 2 && typ == protowire.BytesType:
			return consumeMessage(b, &m.Location)
		}
		return skipField(num, typ, b)
	})
}

// RouteNote is a message sent while at a given point.
type RouteNote struct {
	Location *Point
	Message  string
}

func (m *RouteNote) GetLocation() *Point {
	if m == nil {
		return nil
	}
	return m.Location
}

func (m *RouteNote) GetMessage() string {
	if m == nil {
		return ""
	}
	return m.Message
}

func (m *RouteNote) MarshalWire(b []byte) []byte {
	b = appendMessage(b, 1, m.Location)
	b = appendString(b, 2, m.Message)
	return b
}

func (m *RouteNote) UnmarshalWire(b []byte) error {
	*m = RouteNote{}
	return m.mergeWire(b)
}

func (m *RouteNote) mergeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeMessage(b, &m.Location)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}
		return skipField(num, typ, b)
	})
}

// RouteSummary is the reply to RecordRoute.
type RouteSummary struct {
	PointCount   int32
	FeatureCount int32
	Distance     int32
	ElapsedTime  int32
}

func (m *RouteSummary) MarshalWire(b []byte) []byte {
	b = appendInt32(b, 1, m.PointCount)
	b = appendInt32(b, 2, m.FeatureCount)
	b = appendInt32(b, 3, m.Distance)
	b = appendInt32(b, 4, m.ElapsedTime)
	return b
}

func (m *RouteSummary) UnmarshalWire(b []byte) error {
	*m = RouteSummary{}
	return m.mergeWire(b)
}

func (m *RouteSummary) mergeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.VarintType {
			switch num {
			case 1:
				return consumeInt32(b, &m.PointCount)
			case 2:
				return consumeInt32(b, &m.FeatureCount)
			case 3:
				return consumeInt32(b, &m.Distance)
			case 4:
				return consumeInt32(b, &m.ElapsedTime)
			}
		}
		return skipField(num, typ, b)
	})
}

// Proto3 encoding helpers. Scalar zero values are omitted; a non-nil
// sub-message is always written, even when empty, so presence survives.

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, m *Point) []byte {
	if m == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.MarshalWire(nil))
}

func consumeFields(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("routeguidepb: %w", protowire.ParseError(n))
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func consumeInt32(b []byte, dst *int32) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, fmt.Errorf("routeguidepb: %w", protowire.ParseError(n))
	}
	*dst = int32(v)
	return n, nil
}

func consumeString(b []byte, dst *string) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, fmt.Errorf("routeguidepb: %w", protowire.ParseError(n))
	}
	*dst = string(v)
	return n, nil
}

// consumeMessage decodes an embedded Point into *dst. A repeated occurrence
// merges into the value already decoded.
func consumeMessage(b []byte, dst **Point) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, fmt.Errorf("routeguidepb: %w", protowire.ParseError(n))
	}
	if *dst == nil {
		*dst = new(Point)
	}
	if err := (*dst).mergeWire(v); err != nil {
		return 0, err
	}
	return n, nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("routeguidepb: %w", protowire.ParseError(n))
	}
	return n, nil
}
