package replicalag_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustperms/rustperms/pkg/rustperms/replicalag"
)

// A nil *Registry is the configuration this package documents for
// environments that don't run Redis. Neither method should touch the
// underlying connection hub or panic, so callers never need to branch on
// whether lag reporting is configured.
func TestNilRegistryIsSafe(t *testing.T) {
	var reg *replicalag.Registry

	reg.SetSequence(context.Background(), "replica-1", 42)

	seq, ok := reg.GetSequence(context.Background(), "replica-1")
	assert.False(t, ok)
	assert.Zero(t, seq)
}
