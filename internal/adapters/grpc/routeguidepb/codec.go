package routeguidepb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Codec is a gRPC codec that encodes routeguide messages with the protobuf
// wire format. Generated protobuf messages (health checks, reflection) are
// delegated to the proto runtime, so the codec can be forced on a whole
// server. It registers under the name "proto" and is therefore
// indistinguishable on the wire from the default gRPC codec.
type Codec struct{}

// Name implements encoding.Codec.
func (Codec) Name() string { return "proto" }

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		return m.MarshalWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("routeguidepb: cannot marshal %T", v)
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case Message:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("routeguidepb: cannot unmarshal into %T", v)
}
