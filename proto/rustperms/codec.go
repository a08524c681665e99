package rustperms

import (
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype this package registers with grpc-go's
// encoding registry (see google.golang.org/grpc/encoding.RegisterCodec).
// Dialing with grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName))
// and serving with grpc.ForceServerCodec(Codec{}) makes every message on
// the master/replica surface travel as msgpack instead of protobuf wire
// format, the same codec this repo's delta and snapshot blobs already use
// (pkg/rustperms/delta, pkg/rustperms/manager).
const codecName = "msgpack"

// Codec implements google.golang.org/grpc/encoding.Codec (formerly
// grpc.Codec) over vmihailenco/msgpack/v5, so the message structs in this
// package don't need to satisfy proto.Message.
type Codec struct{}

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Name implements encoding.Codec.
func (Codec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
