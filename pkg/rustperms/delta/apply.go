package delta

import (
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// Apply applies a single operation against the users and groups maps,
// returning whether the operation's precondition held and it was applied.
// A false return is not an error: per the algebra's contract, reapplying an
// operation whose precondition no longer holds (creating an already-existing
// entity, removing an absent one, ...) is a no-op, which is what makes
// at-least-once delivery safe.
func Apply(users map[string]*entity.User, groups map[string]*entity.Group, op Op) bool {
	switch op.Kind {
	case UserCreate:
		if _, ok := users[op.UserUID]; ok {
			return false
		}

		users[op.UserUID] = entity.NewUser(op.UserUID)

		return true

	case UserRemove:
		user, ok := users[op.UserUID]
		if !ok {
			return false
		}

		delete(users, op.UserUID)

		for g := range user.Groups {
			if group, ok := groups[g]; ok {
				group.RemoveMember(op.UserUID)
			}
		}

		return true

	case UserUpdatePerms:
		user, ok := users[op.UserUID]
		if !ok {
			return false
		}

		setRules(user.Permissions, op.Rules)

		return true

	case UserRemovePerms:
		user, ok := users[op.UserUID]
		if !ok {
			return false
		}

		removePaths(user.Permissions, op.Paths)

		return true

	case GroupCreate:
		if _, ok := groups[op.GroupUID]; ok {
			return false
		}

		groups[op.GroupUID] = entity.NewGroup(op.GroupUID, op.Weight)

		return true

	case GroupUpdate:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		group.SetWeight(op.Weight)

		return true

	case GroupRemove:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		delete(groups, op.GroupUID)

		for u := range group.Members {
			if user, ok := users[u]; ok {
				user.RemoveGroup(op.GroupUID)
			}
		}

		for gc := range group.Children {
			if child, ok := groups[gc]; ok {
				child.RemoveParent(op.GroupUID)
			}
		}

		for gp := range group.Parents {
			if parent, ok := groups[gp]; ok {
				parent.RemoveChild(op.GroupUID)
			}
		}

		return true

	case GroupUpdatePerms:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		setRules(group.Permissions, op.Rules)

		return true

	case GroupRemovePerms:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		removePaths(group.Permissions, op.Paths)

		return true

	case GroupAddParentGroups:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		for _, gp := range op.GroupUIDs {
			if parent, ok := groups[gp]; ok {
				parent.AddChild(op.GroupUID)
			}
		}

		for _, gp := range op.GroupUIDs {
			group.AddParent(gp)
		}

		return true

	case GroupRemoveParentGroups:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		for _, gp := range op.GroupUIDs {
			if parent, ok := groups[gp]; ok {
				parent.RemoveChild(op.GroupUID)
			}
		}

		for _, gp := range op.GroupUIDs {
			group.RemoveParent(gp)
		}

		return true

	case GroupAddUsers:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		for _, u := range op.UserUIDs {
			user, ok := users[u]
			if !ok {
				continue
			}

			group.AddMember(u)
			user.AddGroup(op.GroupUID)
		}

		return true

	case GroupRemoveUsers:
		group, ok := groups[op.GroupUID]
		if !ok {
			return false
		}

		for _, u := range op.UserUIDs {
			if user, ok := users[u]; ok {
				user.RemoveGroup(op.GroupUID)
			}
		}

		for _, u := range op.UserUIDs {
			group.RemoveMember(u)
		}

		return true

	default:
		return false
	}
}

func setRules(node *trie.Node, rules []trie.Record) {
	for _, r := range rules {
		node.Set(r.Path, r.Enabled)
	}
}

func removePaths(node *trie.Node, paths []string) {
	for _, p := range paths {
		parsed, err := path.Parse(p)
		if err != nil {
			continue
		}

		node.Remove(parsed)
	}
}
