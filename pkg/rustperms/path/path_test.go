package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustperms/rustperms/pkg/rustperms/path"
)

func TestParse(t *testing.T) {
	p, err := path.Parse("store.upload.id")
	require.NoError(t, err)
	assert.Equal(t, path.Path{"store", "upload", "id"}, p)
}

func TestParseSinglePart(t *testing.T) {
	p, err := path.Parse("calls")
	require.NoError(t, err)
	assert.Equal(t, path.Path{"calls"}, p)
}

func TestParseRejectsEmptyString(t *testing.T) {
	_, err := path.Parse("")
	assert.Error(t, err)
}

func TestParseRejectsEmptyPart(t *testing.T) {
	_, err := path.Parse("a..b")
	assert.Error(t, err)
}

func TestParseRejectsBraces(t *testing.T) {
	_, err := path.Parse("a.{id}.c")
	assert.Error(t, err)
}

func TestMustParsePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		path.MustParse("")
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "a.b.c", path.MustParse("a.b.c").Format())
}

func TestEqual(t *testing.T) {
	assert.True(t, path.MustParse("a.b.c").Equal(path.MustParse("a.b.c")))
	assert.False(t, path.MustParse("a.b.c").Equal(path.MustParse("a.b")))
	assert.False(t, path.MustParse("a.b.c").Equal(path.MustParse("a.b.d")))
}

func TestClone(t *testing.T) {
	p := path.MustParse("a.b.c")
	clone := p.Clone()
	assert.True(t, p.Equal(clone))

	clone[0] = "z"
	assert.Equal(t, "a", p[0], "mutating the clone must not alias the original")
}
