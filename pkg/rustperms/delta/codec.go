package delta

import (
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// wireVersion is the codec's format tag. Bumping it lets a future change to
// the wire shape reject or branch on older payloads instead of
// misinterpreting them.
const wireVersion = 1

// wireRule is the wire shape of a trie.Record: Path formatted as a dotted
// string rather than a slice, matching how paths travel everywhere else in
// the wire protocol (see pathtemplate and the gRPC CheckPerm request).
type wireRule struct {
	Path    string `msgpack:"path"`
	Enabled bool   `msgpack:"enabled"`
}

type wireOp struct {
	Kind Kind `msgpack:"kind"`

	UserUID  string `msgpack:"user_uid,omitempty"`
	GroupUID string `msgpack:"group_uid,omitempty"`
	Weight   int32  `msgpack:"weight,omitempty"`

	Rules     []wireRule `msgpack:"rules,omitempty"`
	Paths     []string   `msgpack:"paths,omitempty"`
	GroupUIDs []string   `msgpack:"group_uids,omitempty"`
	UserUIDs  []string   `msgpack:"user_uids,omitempty"`
}

type wireDelta struct {
	Ops []wireOp `msgpack:"ops"`
}

// Encode serializes a delta to an opaque, versioned, base64url string. This
// is the shape carried by WriteChanges requests and the event stream.
func Encode(d *Delta) (string, error) {
	wire := wireDelta{Ops: make([]wireOp, len(d.Ops))}
	for i, op := range d.Ops {
		wire.Ops[i] = toWireOp(op)
	}

	payload, err := msgpack.Marshal(wire)
	if err != nil {
		return "", rperrors.ValidateInternalError(err, "delta")
	}

	buf := make([]byte, 1+len(payload))
	buf[0] = wireVersion
	copy(buf[1:], payload)

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf), nil
}

// Decode parses a string produced by Encode back into a Delta.
func Decode(s string) (*Delta, error) {
	buf, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return nil, rperrors.ErrCodecMalformed
	}

	if len(buf) == 0 {
		return nil, rperrors.ErrCodecMalformed
	}

	if buf[0] != wireVersion {
		return nil, rperrors.ErrCodecUnsupportedVersion
	}

	var wire wireDelta
	if err := msgpack.Unmarshal(buf[1:], &wire); err != nil {
		return nil, rperrors.ErrCodecMalformed
	}

	d := &Delta{Ops: make([]Op, len(wire.Ops))}
	for i, w := range wire.Ops {
		op, err := fromWireOp(w)
		if err != nil {
			return nil, err
		}

		d.Ops[i] = op
	}

	return d, nil
}

func toWireOp(op Op) wireOp {
	w := wireOp{
		Kind:      op.Kind,
		UserUID:   op.UserUID,
		GroupUID:  op.GroupUID,
		Weight:    op.Weight,
		Paths:     op.Paths,
		GroupUIDs: op.GroupUIDs,
		UserUIDs:  op.UserUIDs,
	}

	if len(op.Rules) > 0 {
		w.Rules = make([]wireRule, len(op.Rules))
		for i, r := range op.Rules {
			w.Rules[i] = wireRule{Path: r.Path.Format(), Enabled: r.Enabled}
		}
	}

	return w
}

func fromWireOp(w wireOp) (Op, error) {
	op := Op{
		Kind:      w.Kind,
		UserUID:   w.UserUID,
		GroupUID:  w.GroupUID,
		Weight:    w.Weight,
		Paths:     w.Paths,
		GroupUIDs: w.GroupUIDs,
		UserUIDs:  w.UserUIDs,
	}

	if len(w.Rules) > 0 {
		op.Rules = make([]trie.Record, len(w.Rules))

		for i, r := range w.Rules {
			p, err := path.Parse(r.Path)
			if err != nil {
				return Op{}, err
			}

			op.Rules[i] = trie.Record{Path: p, Enabled: r.Enabled}
		}
	}

	return op, nil
}
