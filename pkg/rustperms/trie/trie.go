// Package trie implements the permission rule trie:
// a rooted tree keyed by permission-path parts where each node carries an
// optional enabled bit and a child map. Lookup fans out over an exact match,
// then a "?" (single-part) wildcard, then a "*" (one-or-more-part) wildcard,
// in that tie-break order, and short-circuits on the first concrete hit.
// The tie-break order is a tested contract of the engine, not an
// implementation detail.
package trie

import "github.com/rustperms/rustperms/pkg/rustperms/path"

// Record is one stored rule, as returned by GetRecords.
type Record struct {
	Path    path.Path
	Enabled bool
}

// Node is a single node of a PermissionTrie. The zero value is an empty,
// usable trie.
type Node struct {
	children map[path.Part]*Node
	enabled  *bool
	hasValue bool
}

// New returns an empty trie node.
func New() *Node {
	return &Node{}
}

func (n *Node) child(part path.Part) *Node {
	if n.children == nil {
		return nil
	}

	return n.children[part]
}

func (n *Node) childOrCreate(part path.Part) *Node {
	if n.children == nil {
		n.children = make(map[path.Part]*Node)
	}

	c, ok := n.children[part]
	if !ok {
		c = New()
		n.children[part] = c
	}

	return c
}

// Set walks p, creating missing children, and sets the terminal node's
// enabled bit.
func (n *Node) Set(p path.Path, enabled bool) {
	current := n
	for _, part := range p {
		current = current.childOrCreate(part)
	}

	current.enabled = &enabled
	current.hasValue = true
}

// Remove walks to the terminal node named by p, clears its enabled bit, and
// prunes any ancestor left with no value and no children.
func (n *Node) Remove(p path.Path) {
	removeRec(n, p)
}

// removeRec returns true when node should be pruned from its parent.
func removeRec(node *Node, p path.Path) bool {
	if len(p) == 0 {
		node.enabled = nil
		node.hasValue = false

		return len(node.children) == 0
	}

	part, rest := p[0], p[1:]

	child := node.child(part)
	if child == nil {
		return false
	}

	if removeRec(child, rest) {
		delete(node.children, part)
	}

	return len(node.children) == 0 && !node.hasValue
}

// Get looks up p against the trie, fanning out at each node in tie-break
// order: exact match, then "?" (consumes exactly one part), then "*"
// (consumes one or more parts, tried at increasing consumption lengths).
// The first fan-out to yield a concrete answer wins; ok is false if nothing
// matched.
func (n *Node) Get(p path.Path) (enabled bool, ok bool) {
	return getRec(n, p)
}

func getRec(node *Node, p path.Path) (bool, bool) {
	if len(p) == 0 {
		if node.hasValue {
			return *node.enabled, true
		}

		return false, false
	}

	current, rest := p[0], p[1:]

	if child := node.child(current); child != nil {
		if v, ok := getRec(child, rest); ok {
			return v, true
		}
	}

	if child := node.child(path.WildcardOne); child != nil {
		if v, ok := getRec(child, rest); ok {
			return v, true
		}
	}

	if child := node.child(path.WildcardAny); child != nil {
		// "*" consumes one or more parts: try consuming 1, 2, ... len(p)
		// parts of [current, rest...] before giving up.
		remaining := p
		for len(remaining) > 0 {
			remaining = remaining[1:]
			if v, ok := getRec(child, remaining); ok {
				return v, true
			}
		}
	}

	return false, false
}

// GetRecords enumerates every stored rule in the trie as (path, enabled)
// pairs, in no particular order.
func (n *Node) GetRecords() []Record {
	return getRecordsRec(n, nil)
}

func getRecordsRec(node *Node, prefix path.Path) []Record {
	var records []Record

	if node.hasValue {
		records = append(records, Record{Path: prefix.Clone(), Enabled: *node.enabled})
	}

	for part, child := range node.children {
		records = append(records, getRecordsRec(child, append(prefix.Clone(), part))...)
	}

	return records
}

// Merge overlays other onto n: every rule set in other wins over the
// corresponding rule in n (right-biased merge).
func (n *Node) Merge(other *Node) {
	if other == nil {
		return
	}

	if other.hasValue {
		n.enabled = other.enabled
		n.hasValue = true
	}

	for part, otherChild := range other.children {
		n.childOrCreate(part).Merge(otherChild)
	}
}

// Equal reports whether two tries hold the same set of rules, ignoring
// internal shape (pruned vs. un-pruned empty nodes are never observable
// since every mutation prunes them).
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.hasValue != other.hasValue {
		return false
	}

	if n.hasValue && *n.enabled != *other.enabled {
		return false
	}

	if len(n.children) != len(other.children) {
		return false
	}

	for part, child := range n.children {
		oc, ok := other.children[part]
		if !ok || !child.Equal(oc) {
			return false
		}
	}

	return true
}
