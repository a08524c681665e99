package pathtemplate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustperms/rustperms/pkg/rustperms/pathtemplate"
)

func TestNewRejectsWildcards(t *testing.T) {
	_, err := pathtemplate.New("calls.*")
	assert.Error(t, err)

	_, err = pathtemplate.New("calls.?")
	assert.Error(t, err)
}

func TestCompleteNoPattern(t *testing.T) {
	tmpl, err := pathtemplate.New("calls.start")
	require.NoError(t, err)

	got, ok := tmpl.Complete(nil, "")
	assert.True(t, ok)
	assert.Equal(t, "calls.start", got)
}

func TestCompleteSubstitutesVars(t *testing.T) {
	tmpl, err := pathtemplate.New("account.{id}.edit")
	require.NoError(t, err)

	got, ok := tmpl.Complete(map[string]string{"id": "42"}, "")
	assert.True(t, ok)
	assert.Equal(t, "account.42.edit", got)
}

func TestCompleteSubstitutesFromAccess(t *testing.T) {
	tmpl, err := pathtemplate.New("account.{from_access}.edit")
	require.NoError(t, err)

	got, ok := tmpl.Complete(nil, "alice")
	assert.True(t, ok)
	assert.Equal(t, "account.alice.edit", got)
}

func TestCompleteFailsClosedWhenUnresolved(t *testing.T) {
	tmpl, err := pathtemplate.New("account.{id}.edit")
	require.NoError(t, err)

	_, ok := tmpl.Complete(nil, "")
	assert.False(t, ok)
}

func TestCompleteGuestFromAccessLeftUnresolved(t *testing.T) {
	tmpl, err := pathtemplate.New("account.{from_access}.edit")
	require.NoError(t, err)

	_, ok := tmpl.Complete(nil, "")
	assert.False(t, ok)
}
