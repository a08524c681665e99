// Package resolver implements the read path: given a user
// and a permission path, decide whether the permission is enabled by
// consulting the user's own trie first, then the transitive closure of the
// groups it belongs to.
//
// The weight/tie-break rules below and the user-trie-first short circuit
// are deliberate design contracts, not incidental behavior: specific rules
// beat general ones, and a tie between an allow and a deny resolves to
// deny.
package resolver

import (
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
)

// MatchType distinguishes where a resolved answer came from, for
// diagnostics.
type MatchType int

const (
	// Exact is returned when the answer came from the user's own trie.
	Exact MatchType = iota
	// FromGroup is returned when the answer came from a group the user
	// directly belongs to.
	FromGroup
	// FromAncestor is returned when the answer came from a group reached
	// only through the ancestor closure.
	FromAncestor
)

// Result is the outcome of a successful Check.
type Result struct {
	Enabled bool
	Match   MatchType
}

type hit struct {
	enabled bool
	weight  int32
	direct  bool
}

// Check resolves permission for userUID against p. The second return value
// reports whether any rule matched at all; false means "no opinion" and
// callers should fall back to their own unset policy.
func Check(users map[string]*entity.User, groups map[string]*entity.Group, userUID string, p path.Path) (Result, bool) {
	if user, ok := users[userUID]; ok {
		if enabled, ok := user.Permissions.Get(p); ok {
			return Result{Enabled: enabled, Match: Exact}, true
		}

		return checkGroups(groups, user.Groups.Slice(), p)
	}

	return Result{}, false
}

func checkGroups(groups map[string]*entity.Group, direct []string, p path.Path) (Result, bool) {
	directSet := make(map[string]struct{}, len(direct))
	for _, gid := range direct {
		directSet[gid] = struct{}{}
	}

	var hits []hit

	for _, gid := range ancestorClosure(groups, direct) {
		group, ok := groups[gid]
		if !ok {
			continue
		}

		if enabled, ok := group.Permissions.Get(p); ok {
			_, isDirect := directSet[gid]
			hits = append(hits, hit{enabled: enabled, weight: group.Weight, direct: isDirect})
		}
	}

	if len(hits) == 0 {
		return Result{}, false
	}

	winner := resolveHits(hits)

	matchKind := FromAncestor
	if winner.direct {
		matchKind = FromGroup
	}

	return Result{Enabled: winner.enabled, Match: matchKind}, true
}

// resolveHits partitions hits by enabled/disabled, takes the max weight of
// each non-empty partition, and breaks a tie between partitions by denying.
// Within a partition, a direct-group hit is preferred over an ancestor hit
// of the same weight so Match reports the nearest origin. hits must be
// non-empty.
func resolveHits(hits []hit) hit {
	var (
		haveAllow, haveDeny bool
		bestAllow, bestDeny hit
	)

	for _, h := range hits {
		if h.enabled {
			if !haveAllow || h.weight > bestAllow.weight || (h.weight == bestAllow.weight && h.direct && !bestAllow.direct) {
				bestAllow = h
			}

			haveAllow = true
		} else {
			if !haveDeny || h.weight > bestDeny.weight || (h.weight == bestDeny.weight && h.direct && !bestDeny.direct) {
				bestDeny = h
			}

			haveDeny = true
		}
	}

	switch {
	case haveAllow && haveDeny:
		if bestDeny.weight >= bestAllow.weight {
			return bestDeny
		}

		return bestAllow
	case haveAllow:
		return bestAllow
	default:
		return bestDeny
	}
}

// ancestorClosure returns the deduplicated set of group UIDs reachable from
// start by following Parents edges, including start itself. BFS with a
// visited set makes this safe against inheritance cycles.
func ancestorClosure(groups map[string]*entity.Group, start []string) []string {
	visited := make(map[string]struct{}, len(start))
	queue := make([]string, 0, len(start))

	for _, gid := range start {
		if _, ok := visited[gid]; ok {
			continue
		}

		visited[gid] = struct{}{}
		queue = append(queue, gid)
	}

	order := make([]string, 0, len(start))

	for i := 0; i < len(queue); i++ {
		gid := queue[i]
		order = append(order, gid)

		group, ok := groups[gid]
		if !ok {
			continue
		}

		for parent := range group.Parents {
			if _, ok := visited[parent]; ok {
				continue
			}

			visited[parent] = struct{}{}
			queue = append(queue, parent)
		}
	}

	return order
}
