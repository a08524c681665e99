// Package shard implements the sharded-group helper: a way to spread a
// single very large group's membership and rule churn across N backing
// groups (shards) while callers keep addressing one logical group UID.
//
// Everything here composes ordinary delta operations; the engine has no
// sharding primitive. The end state (the base group's Children set holding
// every shard, each shard's Parents set holding the base group) is reached
// with one GroupAddParentGroups(shard, [group]) per shard, since applying
// that op already sets the child edge on the named parent as a side effect
// (see delta.Apply).
package shard

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// GroupShard returns the UID of shard n of group.
func GroupShard(group string, n int) string {
	return group + "." + strconv.Itoa(n)
}

// GroupToShards returns the UIDs of all shards of group, excluding the base
// group itself.
func GroupToShards(group string, shards int) []string {
	ids := make([]string, shards)
	for i := 0; i < shards; i++ {
		ids[i] = GroupShard(group, i)
	}

	return ids
}

// GroupToSharded returns every shard UID plus the base group UID, base
// last.
func GroupToSharded(group string, shards int) []string {
	ids := GroupToShards(group, shards)

	return append(ids, group)
}

// KeyToShardSuffix deterministically maps an arbitrary string key (a user
// UID, typically) to one of shards shard indices. xxhash is a
// non-cryptographic 64-bit hash chosen purely for uniform, stable
// bucketing, not for collision resistance.
func KeyToShardSuffix(key string, shards int) int {
	h := xxhash.Sum64String(key)

	return int(h % uint64(shards)) //nolint:gosec
}

// Create returns the delta operations that bring a fresh sharded group into
// existence: one GroupCreate per shard and for the base group, then one
// GroupAddParentGroups per shard wiring it under the base.
func Create(group string, weight int32, shards int) []delta.Op {
	ops := make([]delta.Op, 0, 2*shards+1)

	shardIDs := GroupToShards(group, shards)
	for _, id := range shardIDs {
		ops = append(ops, delta.NewGroupCreate(id, weight))
	}

	ops = append(ops, delta.NewGroupCreate(group, weight))

	for _, id := range shardIDs {
		ops = append(ops, delta.NewGroupAddParentGroups(id, []string{group}))
	}

	return ops
}

// Remove returns the delta operations that remove every shard and the base
// group.
func Remove(group string, shards int) []delta.Op {
	ids := GroupToSharded(group, shards)

	ops := make([]delta.Op, len(ids))
	for i, id := range ids {
		ops[i] = delta.NewGroupRemove(id)
	}

	return ops
}

// Update returns the delta operations that set weight on every shard and
// the base group.
func Update(group string, shards int, weight int32) []delta.Op {
	ids := GroupToSharded(group, shards)

	ops := make([]delta.Op, len(ids))
	for i, id := range ids {
		ops[i] = delta.NewGroupUpdate(id, weight)
	}

	return ops
}

// KeyedPath pairs a permission path with the key used to pick its shard
// (typically the user UID the rule is scoped to).
type KeyedPath struct {
	Key  string
	Path string
}

// KeyedRule pairs a permission rule with the key used to pick its shard.
type KeyedRule struct {
	Key  string
	Rule trie.Record
}

// RemovePerms groups perms by shard (via KeyToShardSuffix on each entry's
// key) and returns one GroupRemovePerms operation per non-empty shard.
func RemovePerms(group string, shards int, perms []KeyedPath) []delta.Op {
	byShard := make(map[int][]string)
	for _, kp := range perms {
		s := KeyToShardSuffix(kp.Key, shards)
		byShard[s] = append(byShard[s], kp.Path)
	}

	ops := make([]delta.Op, 0, len(byShard))
	for s, paths := range byShard {
		ops = append(ops, delta.NewGroupRemovePerms(GroupShard(group, s), paths))
	}

	return ops
}

// UpdatePerms groups rules by shard (via KeyToShardSuffix on each entry's
// key) and returns one GroupUpdatePerms operation per non-empty shard.
func UpdatePerms(group string, shards int, rules []KeyedRule) []delta.Op {
	byShard := make(map[int][]trie.Record)
	for _, kr := range rules {
		s := KeyToShardSuffix(kr.Key, shards)
		byShard[s] = append(byShard[s], kr.Rule)
	}

	ops := make([]delta.Op, 0, len(byShard))
	for s, rules := range byShard {
		ops = append(ops, delta.NewGroupUpdatePerms(GroupShard(group, s), rules))
	}

	return ops
}
