// Package delta implements the engine's closed mutation algebra (component
// C3): the thirteen operations that can be applied to a manager's users and
// groups maps, plus their wire encoding. Every write path in the system
// (master, replicas, the durable reflector) funnels through these same
// operations so a replayed delta always has the same effect.
package delta

import "github.com/rustperms/rustperms/pkg/rustperms/trie"

// Kind identifies one of the thirteen closed algebra operations.
type Kind int

const (
	UserCreate Kind = iota
	UserRemove
	UserUpdatePerms
	UserRemovePerms

	GroupCreate
	GroupUpdate
	GroupRemove
	GroupUpdatePerms
	GroupRemovePerms
	GroupAddParentGroups
	GroupRemoveParentGroups
	GroupAddUsers
	GroupRemoveUsers
)

// Op is a single mutation. Only the fields relevant to Kind are populated;
// the rest are left zero, standing in for a per-variant payload without a
// sum type.
type Op struct {
	Kind Kind

	UserUID  string
	GroupUID string
	Weight   int32

	Rules     []trie.Record // UpdatePerms
	Paths     []string      // RemovePerms, addressed by formatted path
	GroupUIDs []string      // AddParentGroups, RemoveParentGroups
	UserUIDs  []string      // AddUsers, RemoveUsers
}

// Delta is an ordered sequence of operations, applied left to right.
type Delta struct {
	Ops []Op
}

// New returns an empty delta.
func New() *Delta {
	return &Delta{}
}

// Push appends op to the delta.
func (d *Delta) Push(op Op) {
	d.Ops = append(d.Ops, op)
}

// PushMany appends every op in ops, in order.
func (d *Delta) PushMany(ops ...Op) {
	d.Ops = append(d.Ops, ops...)
}

// NewUserCreate builds a UserCreate operation.
func NewUserCreate(userUID string) Op {
	return Op{Kind: UserCreate, UserUID: userUID}
}

// NewUserRemove builds a UserRemove operation.
func NewUserRemove(userUID string) Op {
	return Op{Kind: UserRemove, UserUID: userUID}
}

// NewUserUpdatePerms builds a UserUpdatePerms operation.
func NewUserUpdatePerms(userUID string, rules []trie.Record) Op {
	return Op{Kind: UserUpdatePerms, UserUID: userUID, Rules: rules}
}

// NewUserRemovePerms builds a UserRemovePerms operation.
func NewUserRemovePerms(userUID string, paths []string) Op {
	return Op{Kind: UserRemovePerms, UserUID: userUID, Paths: paths}
}

// NewGroupCreate builds a GroupCreate operation.
func NewGroupCreate(groupUID string, weight int32) Op {
	return Op{Kind: GroupCreate, GroupUID: groupUID, Weight: weight}
}

// NewGroupUpdate builds a GroupUpdate operation.
func NewGroupUpdate(groupUID string, weight int32) Op {
	return Op{Kind: GroupUpdate, GroupUID: groupUID, Weight: weight}
}

// NewGroupRemove builds a GroupRemove operation.
func NewGroupRemove(groupUID string) Op {
	return Op{Kind: GroupRemove, GroupUID: groupUID}
}

// NewGroupUpdatePerms builds a GroupUpdatePerms operation.
func NewGroupUpdatePerms(groupUID string, rules []trie.Record) Op {
	return Op{Kind: GroupUpdatePerms, GroupUID: groupUID, Rules: rules}
}

// NewGroupRemovePerms builds a GroupRemovePerms operation.
func NewGroupRemovePerms(groupUID string, paths []string) Op {
	return Op{Kind: GroupRemovePerms, GroupUID: groupUID, Paths: paths}
}

// NewGroupAddParentGroups builds a GroupAddParentGroups operation.
func NewGroupAddParentGroups(groupUID string, parents []string) Op {
	return Op{Kind: GroupAddParentGroups, GroupUID: groupUID, GroupUIDs: parents}
}

// NewGroupRemoveParentGroups builds a GroupRemoveParentGroups operation.
func NewGroupRemoveParentGroups(groupUID string, parents []string) Op {
	return Op{Kind: GroupRemoveParentGroups, GroupUID: groupUID, GroupUIDs: parents}
}

// NewGroupAddUsers builds a GroupAddUsers operation.
func NewGroupAddUsers(groupUID string, users []string) Op {
	return Op{Kind: GroupAddUsers, GroupUID: groupUID, UserUIDs: users}
}

// NewGroupRemoveUsers builds a GroupRemoveUsers operation.
func NewGroupRemoveUsers(groupUID string, users []string) Op {
	return Op{Kind: GroupRemoveUsers, GroupUID: groupUID, UserUIDs: users}
}
