// Package entity implements the engine's in-memory entity model (component
// C2): User and Group records carrying membership, inheritance edges, and a
// permission trie each. These types expose only primitive mutations; the
// externally observable operations are composed on top of them by
// pkg/rustperms/delta.
package entity

import "github.com/rustperms/rustperms/pkg/rustperms/trie"

// StringSet is a set of string keys (user_uid or group_uid), used for
// membership and inheritance edges.
type StringSet map[string]struct{}

// NewStringSet returns an empty StringSet.
func NewStringSet() StringSet {
	return make(StringSet)
}

// Add inserts key into the set.
func (s StringSet) Add(key string) {
	s[key] = struct{}{}
}

// Remove deletes key from the set.
func (s StringSet) Remove(key string) {
	delete(s, key)
}

// Has reports whether key is a member of the set.
func (s StringSet) Has(key string) bool {
	_, ok := s[key]

	return ok
}

// Slice returns the set's members in no particular order.
func (s StringSet) Slice() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}

	return out
}

// Clone returns a shallow copy of the set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}

	return out
}

// User is identified by a stable UserUID. It carries the set of groups it
// directly belongs to and a trie of rules set directly on it.
type User struct {
	UserUID     string
	Groups      StringSet
	Permissions *trie.Node
}

// NewUser returns an empty user named uid.
func NewUser(uid string) *User {
	return &User{
		UserUID:     uid,
		Groups:      NewStringSet(),
		Permissions: trie.New(),
	}
}

// AddGroup records that the user belongs to group. Primitive mutation; the
// algebra is responsible for the corresponding member edge on the group.
func (u *User) AddGroup(group string) { u.Groups.Add(group) }

// RemoveGroup drops the user's membership in group.
func (u *User) RemoveGroup(group string) { u.Groups.Remove(group) }

// HasGroup reports whether the user directly belongs to group.
func (u *User) HasGroup(group string) bool { return u.Groups.Has(group) }

// Group is identified by a stable GroupUID. It carries a weight used to
// break conflicting-rule ties, a membership set, parent/child inheritance
// edges (children are the derived inverse of parents), and a trie of rules.
type Group struct {
	GroupUID    string
	Weight      int32
	Members     StringSet
	Parents     StringSet
	Children    StringSet
	Permissions *trie.Node
}

// NewGroup returns an empty group named uid with the given weight.
func NewGroup(uid string, weight int32) *Group {
	return &Group{
		GroupUID:    uid,
		Weight:      weight,
		Members:     NewStringSet(),
		Parents:     NewStringSet(),
		Children:    NewStringSet(),
		Permissions: trie.New(),
	}
}

// AddMember records member as belonging to the group.
func (g *Group) AddMember(member string) { g.Members.Add(member) }

// RemoveMember drops member from the group.
func (g *Group) RemoveMember(member string) { g.Members.Remove(member) }

// HasMember reports whether member directly belongs to the group.
func (g *Group) HasMember(member string) bool { return g.Members.Has(member) }

// AddParent records parent as a group this group inherits rules from.
func (g *Group) AddParent(parent string) { g.Parents.Add(parent) }

// RemoveParent drops parent from the group's inheritance set.
func (g *Group) RemoveParent(parent string) { g.Parents.Remove(parent) }

// HasParent reports whether the group directly inherits from parent.
func (g *Group) HasParent(parent string) bool { return g.Parents.Has(parent) }

// AddChild records child as a group that inherits from this one. Children
// are the derived inverse of Parents, maintained eagerly by the algebra.
func (g *Group) AddChild(child string) { g.Children.Add(child) }

// RemoveChild drops child from the group's back-edge set.
func (g *Group) RemoveChild(child string) { g.Children.Remove(child) }

// SetWeight overwrites the group's weight.
func (g *Group) SetWeight(weight int32) { g.Weight = weight }
