package audit_test

import (
	"context"
	"testing"

	"github.com/rustperms/rustperms/pkg/rustperms/audit"
)

// A nil *Trail is the configuration this package documents for environments
// that don't run Mongo: the audit trail is supplemental, never load
// bearing. Record must be a no-op rather than a nil-pointer panic so call
// sites never need to branch on whether the trail is configured.
func TestRecordOnNilTrailIsNoop(t *testing.T) {
	var trail *audit.Trail

	trail.Record(context.Background(), 1, "deadbeef", true, "")
}
