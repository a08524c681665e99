package trie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

func get(t *testing.T, n *trie.Node, s string) (bool, bool) {
	t.Helper()

	return n.Get(path.MustParse(s))
}

func TestPermPath(t *testing.T) {
	assert.Equal(t, path.Path{"a", "b", "c"}, path.MustParse("a.b.c"))
	assert.Equal(t, path.Path{"a", "b", "c", "d"}, path.MustParse("a.b.c.d"))
	assert.Equal(t, path.Path{"a", "b", "c", "d", "e"}, path.MustParse("a.b.c.d.e"))
}

func TestPermPathFormat(t *testing.T) {
	assert.Equal(t, "a.b.c", path.MustParse("a.b.c").Format())
	assert.Equal(t, "a.b.c.d", path.MustParse("a.b.c.d").Format())
	assert.Equal(t, "a.b.c.d.e", path.MustParse("a.b.c.d.e").Format())
}

func TestSet(t *testing.T) {
	tree := trie.New()
	p1 := path.MustParse("a.b.c")

	tree.Set(p1, true)
	v, ok := tree.Get(p1)
	assert.True(t, ok)
	assert.True(t, v)

	tree.Set(p1, false)
	v, ok = tree.Get(p1)
	assert.True(t, ok)
	assert.False(t, v)
}

func TestRemove(t *testing.T) {
	tree := trie.New()
	p1 := path.MustParse("a.b.c")

	tree.Set(p1, true)
	tree.Remove(p1)

	_, ok := tree.Get(p1)
	assert.False(t, ok)
}

func TestAnyAtBeginning(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("?.b.c"), true)

	v, ok := get(t, tree, "a.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.a.b.c")
	assert.False(t, ok)
}

func TestAnyInMiddle(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.?.c"), true)

	v, ok := get(t, tree, "a.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.b.b.c")
	assert.False(t, ok)
}

func TestAnyAtEnd(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.b.?"), true)

	v, ok := get(t, tree, "a.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.b.c.d")
	assert.False(t, ok)
}

func TestWildcardRoot(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("*"), true)

	for _, s := range []string{"x", "x.y", "x.y.z"} {
		v, ok := get(t, tree, s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
}

func TestWildcardAtBeginning(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("*.b.c"), true)

	v, ok := get(t, tree, "a.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = get(t, tree, "x.y.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "b.c")
	assert.False(t, ok)
}

func TestWildcardInMiddle(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.*.d"), true)

	v, ok := get(t, tree, "a.b.c.d")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = get(t, tree, "a.b.d")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.d")
	assert.False(t, ok)
}

func TestWildcardAtEnd(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.b.*"), true)

	v, ok := get(t, tree, "a.b.c")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = get(t, tree, "a.b.c.d")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.b")
	assert.False(t, ok)
}

func TestWildcards(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.*.c.?.e"), true)

	v, ok := get(t, tree, "a.x.y.c.z.e")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = get(t, tree, "a.x.c.z.e")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = get(t, tree, "a.c.z.e")
	assert.False(t, ok)

	_, ok = get(t, tree, "a.x.y.c.z.q.e")
	assert.False(t, ok)
}

func TestExactBeatsWildcards(t *testing.T) {
	tree := trie.New()
	tree.Set(path.MustParse("a.b"), true)
	tree.Set(path.MustParse("a.?"), false)

	v, ok := get(t, tree, "a.b")
	assert.True(t, ok)
	assert.True(t, v)
}

func TestMergeTrees(t *testing.T) {
	base := trie.New()
	other := trie.New()

	base.Set(path.MustParse("a.b.c"), true)
	other.Set(path.MustParse("a.b.c"), false)
	other.Set(path.MustParse("a.x"), true)

	base.Merge(other)

	v, ok := get(t, base, "a.b.c")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = get(t, base, "a.x")
	assert.True(t, ok)
	assert.True(t, v)
}

func TestMergeNestedWildcards(t *testing.T) {
	base := trie.New()
	other := trie.New()

	base.Set(path.MustParse("a.*.c"), true)
	other.Set(path.MustParse("a.*.c"), false)

	base.Merge(other)

	v, ok := get(t, base, "a.b.c")
	assert.True(t, ok)
	assert.False(t, v)
}

func TestSnapshotRoundTrip(t *testing.T) {
	base := trie.New()
	base.Set(path.MustParse("a.b.c"), true)
	base.Set(path.MustParse("a.*.d"), false)

	restored := trie.New()
	for _, r := range base.GetRecords() {
		restored.Set(r.Path, r.Enabled)
	}

	assert.True(t, base.Equal(restored))
}
