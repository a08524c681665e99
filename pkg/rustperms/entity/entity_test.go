package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
)

func TestStringSet(t *testing.T) {
	s := entity.NewStringSet()
	assert.False(t, s.Has("a"))

	s.Add("a")
	assert.True(t, s.Has("a"))
	assert.Equal(t, []string{"a"}, s.Slice())

	s.Remove("a")
	assert.False(t, s.Has("a"))
}

func TestStringSetClone(t *testing.T) {
	s := entity.NewStringSet()
	s.Add("a")

	clone := s.Clone()
	clone.Add("b")

	assert.True(t, clone.Has("b"))
	assert.False(t, s.Has("b"), "mutating the clone must not alias the original")
}

func TestNewUser(t *testing.T) {
	u := entity.NewUser("alice")
	assert.Equal(t, "alice", u.UserUID)
	assert.False(t, u.HasGroup("g1"))

	u.AddGroup("g1")
	assert.True(t, u.HasGroup("g1"))

	u.RemoveGroup("g1")
	assert.False(t, u.HasGroup("g1"))

	u.Permissions.Set(path.MustParse("a.b"), true)
	v, ok := u.Permissions.Get(path.MustParse("a.b"))
	assert.True(t, ok)
	assert.True(t, v)
}

func TestNewGroup(t *testing.T) {
	g := entity.NewGroup("g1", 10)
	assert.Equal(t, "g1", g.GroupUID)
	assert.Equal(t, int32(10), g.Weight)

	g.AddMember("alice")
	assert.True(t, g.HasMember("alice"))
	g.RemoveMember("alice")
	assert.False(t, g.HasMember("alice"))

	g.AddParent("root")
	assert.True(t, g.HasParent("root"))
	g.RemoveParent("root")
	assert.False(t, g.HasParent("root"))

	g.AddChild("leaf")
	assert.True(t, g.Children.Has("leaf"))
	g.RemoveChild("leaf")
	assert.False(t, g.Children.Has("leaf"))

	g.SetWeight(20)
	assert.Equal(t, int32(20), g.Weight)
}
