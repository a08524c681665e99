package manager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/manager"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/resolver"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

func TestApplyThenCheck(t *testing.T) {
	m := manager.New()

	d := delta.New()
	d.PushMany(
		delta.NewUserCreate("alice"),
		delta.NewUserUpdatePerms("alice", []trie.Record{{Path: path.MustParse("calls.start"), Enabled: true}}),
	)
	m.Apply(d)

	res, ok := m.Check("alice", path.MustParse("calls.start"))
	require.True(t, ok)
	assert.True(t, res.Enabled)
	assert.Equal(t, resolver.Exact, res.Match)
}

func TestFromDeltaBuildsEquivalentManager(t *testing.T) {
	d := delta.New()
	d.PushMany(
		delta.NewGroupCreate("g1", 2),
		delta.NewUserCreate("alice"),
		delta.NewGroupAddUsers("g1", []string{"alice"}),
		delta.NewGroupUpdatePerms("g1", []trie.Record{{Path: path.MustParse("calls.*"), Enabled: true}}),
	)

	m := manager.FromDelta(d)

	assert.True(t, m.HasUser("alice"))
	assert.True(t, m.HasGroup("g1"))

	res, ok := m.Check("alice", path.MustParse("calls.start"))
	require.True(t, ok)
	assert.True(t, res.Enabled)
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := delta.New()
	d.PushMany(
		delta.NewGroupCreate("g1", 4),
		delta.NewUserCreate("alice"),
		delta.NewGroupAddUsers("g1", []string{"alice"}),
		delta.NewGroupAddParentGroups("g1", []string{"root"}),
		delta.NewGroupUpdatePerms("g1", []trie.Record{{Path: path.MustParse("calls.start"), Enabled: true}}),
	)

	m := manager.FromDelta(d)

	usersBlob, groupsBlob, err := m.GetSnapshot()
	require.NoError(t, err)

	restored, err := manager.FromSnapshot(usersBlob, groupsBlob)
	require.NoError(t, err)

	assert.True(t, restored.HasUser("alice"))
	assert.True(t, restored.HasGroup("g1"))

	res, ok := restored.Check("alice", path.MustParse("calls.start"))
	require.True(t, ok)
	assert.True(t, res.Enabled)
}
