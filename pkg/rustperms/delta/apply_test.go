package delta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

func newMaps() (map[string]*entity.User, map[string]*entity.Group) {
	return make(map[string]*entity.User), make(map[string]*entity.Group)
}

func TestUserCreateIsIdempotent(t *testing.T) {
	users, groups := newMaps()

	assert.True(t, delta.Apply(users, groups, delta.NewUserCreate("alice")))
	assert.False(t, delta.Apply(users, groups, delta.NewUserCreate("alice")))
	assert.Len(t, users, 1)
}

func TestUserRemoveDetachesFromGroups(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewUserCreate("alice"))
	delta.Apply(users, groups, delta.NewGroupCreate("g1", 0))
	delta.Apply(users, groups, delta.NewGroupAddUsers("g1", []string{"alice"}))

	assert.True(t, groups["g1"].HasMember("alice"))

	assert.True(t, delta.Apply(users, groups, delta.NewUserRemove("alice")))
	assert.False(t, groups["g1"].HasMember("alice"))
	assert.False(t, delta.Apply(users, groups, delta.NewUserRemove("alice")))
}

func TestUserUpdateAndRemovePerms(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewUserCreate("alice"))

	rules := []trie.Record{{Path: path.MustParse("calls.start"), Enabled: true}}
	assert.True(t, delta.Apply(users, groups, delta.NewUserUpdatePerms("alice", rules)))

	v, ok := users["alice"].Permissions.Get(path.MustParse("calls.start"))
	assert.True(t, ok)
	assert.True(t, v)

	assert.True(t, delta.Apply(users, groups, delta.NewUserRemovePerms("alice", []string{"calls.start"})))
	_, ok = users["alice"].Permissions.Get(path.MustParse("calls.start"))
	assert.False(t, ok)
}

func TestGroupRemoveDetachesMembersChildrenParents(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewUserCreate("alice"))
	delta.Apply(users, groups, delta.NewGroupCreate("parent", 0))
	delta.Apply(users, groups, delta.NewGroupCreate("mid", 0))
	delta.Apply(users, groups, delta.NewGroupCreate("child", 0))
	delta.Apply(users, groups, delta.NewGroupAddUsers("mid", []string{"alice"}))
	delta.Apply(users, groups, delta.NewGroupAddParentGroups("mid", []string{"parent"}))
	delta.Apply(users, groups, delta.NewGroupAddParentGroups("child", []string{"mid"}))

	assert.True(t, groups["parent"].Children.Has("mid"))
	assert.True(t, groups["mid"].Parents.Has("parent"))
	assert.True(t, groups["mid"].Children.Has("child"))

	assert.True(t, delta.Apply(users, groups, delta.NewGroupRemove("mid")))

	assert.False(t, users["alice"].HasGroup("mid"))
	assert.False(t, groups["parent"].Children.Has("mid"))
	assert.False(t, groups["child"].Parents.Has("mid"))
	_, ok := groups["mid"]
	assert.False(t, ok)
}

func TestGroupAddParentGroupsSkipsMissingParentButRecordsEdge(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewGroupCreate("child", 0))

	assert.True(t, delta.Apply(users, groups, delta.NewGroupAddParentGroups("child", []string{"ghost"})))
	assert.True(t, groups["child"].HasParent("ghost"))
}

func TestGroupAddUsersSkipsUnknownUsers(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewGroupCreate("g1", 0))
	delta.Apply(users, groups, delta.NewUserCreate("alice"))

	assert.True(t, delta.Apply(users, groups, delta.NewGroupAddUsers("g1", []string{"alice", "ghost"})))
	assert.True(t, groups["g1"].HasMember("alice"))
	assert.False(t, groups["g1"].HasMember("ghost"))
}

func TestGroupAddParentGroupsNoOpWhenGroupAbsent(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewGroupCreate("parent", 0))

	assert.False(t, delta.Apply(users, groups, delta.NewGroupAddParentGroups("ghost", []string{"parent"})))
	assert.False(t, groups["parent"].Children.Has("ghost"))
}

func TestGroupRemoveUsersNoOpWhenGroupAbsent(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewUserCreate("alice"))
	delta.Apply(users, groups, delta.NewGroupCreate("g1", 0))
	delta.Apply(users, groups, delta.NewGroupAddUsers("g1", []string{"alice"}))

	assert.False(t, delta.Apply(users, groups, delta.NewGroupRemoveUsers("ghost", []string{"alice"})))
	assert.True(t, users["alice"].HasGroup("g1"))
}

func TestGroupWeightUpdate(t *testing.T) {
	users, groups := newMaps()
	delta.Apply(users, groups, delta.NewGroupCreate("g1", 1))

	assert.True(t, delta.Apply(users, groups, delta.NewGroupUpdate("g1", 5)))
	assert.Equal(t, int32(5), groups["g1"].Weight)

	assert.False(t, delta.Apply(users, groups, delta.NewGroupUpdate("ghost", 5)))
}
