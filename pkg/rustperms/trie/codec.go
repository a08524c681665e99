package trie

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustperms/rustperms/pkg/rustperms/path"
)

// wireRecord is the on-wire shape of a single rule: Node's fields are
// unexported, so snapshots round-trip through the same (path, enabled) pairs
// GetRecords/Set already use rather than the tree shape itself.
type wireRecord struct {
	Path    []string `msgpack:"path"`
	Enabled bool     `msgpack:"enabled"`
}

var (
	_ msgpack.CustomEncoder = (*Node)(nil)
	_ msgpack.CustomDecoder = (*Node)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (n *Node) EncodeMsgpack(enc *msgpack.Encoder) error {
	records := n.GetRecords()

	wire := make([]wireRecord, len(records))
	for i, r := range records {
		wire[i] = wireRecord{Path: []string(r.Path), Enabled: r.Enabled}
	}

	return enc.Encode(wire)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (n *Node) DecodeMsgpack(dec *msgpack.Decoder) error {
	var wire []wireRecord
	if err := dec.Decode(&wire); err != nil {
		return err
	}

	*n = Node{}
	for _, r := range wire {
		n.Set(path.Path(r.Path), r.Enabled)
	}

	return nil
}
