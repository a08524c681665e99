package delta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := delta.New()
	d.PushMany(
		delta.NewUserCreate("alice"),
		delta.NewGroupCreate("g1", 3),
		delta.NewGroupAddUsers("g1", []string{"alice"}),
		delta.NewUserUpdatePerms("alice", []trie.Record{{Path: path.MustParse("calls.*"), Enabled: true}}),
	)

	s, err := delta.Encode(d)
	require.NoError(t, err)
	assert.NotEmpty(t, s)

	restored, err := delta.Decode(s)
	require.NoError(t, err)
	require.Len(t, restored.Ops, len(d.Ops))

	for i := range d.Ops {
		assert.Equal(t, d.Ops[i].Kind, restored.Ops[i].Kind)
	}

	assert.True(t, restored.Ops[3].Rules[0].Path.Equal(path.MustParse("calls.*")))
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := delta.Decode("not-valid-base64url!!")
	assert.ErrorIs(t, err, rperrors.ErrCodecMalformed)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	s, err := delta.Encode(delta.New())
	require.NoError(t, err)

	// A well-formed payload decodes, a lone version byte of 2 ("Ag" in
	// unpadded base64url) is rejected as an unknown version, and an empty
	// string fails closed as malformed.
	_, derr := delta.Decode(s)
	require.NoError(t, derr)

	_, err = delta.Decode("Ag")
	assert.ErrorIs(t, err, rperrors.ErrCodecUnsupportedVersion)

	_, err = delta.Decode("")
	assert.ErrorIs(t, err, rperrors.ErrCodecMalformed)
}
