// Package audit implements the compliance audit trail: every accepted or
// rejected WriteChanges call is appended, independent of the six relational
// tables, to an immutable Mongo collection -- an append-only log of
// platform operations, wired through the go.mongodb.org/mongo-driver
// connection hub (pkg/mmongo).
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/mmongo"
	"github.com/rustperms/rustperms/pkg/rputil"
)

// CollectionName is the Mongo collection accepted/rejected WriteChanges
// calls are appended to.
const CollectionName = "rustperms_audit"

// Entry is one immutable audit record. AuditID is a UUIDv7 so entries sort
// chronologically by id even when RecordedAt collides.
type Entry struct {
	AuditID         string    `bson:"audit_id"`
	Sequence        uint64    `bson:"sequence"`
	SerializedDelta string    `bson:"serialized_delta"`
	Accepted        bool      `bson:"accepted"`
	Reason          string    `bson:"reason,omitempty"`
	RecordedAt      time.Time `bson:"recorded_at"`
}

// Trail appends Entry records to Mongo. A nil *Trail (no Mongo configured)
// is valid and silently drops records, so the audit trail can be disabled
// in environments that don't run Mongo without branching at every call
// site.
type Trail struct {
	conn   *mmongo.MongoConnection
	logger mlog.Logger
}

// New returns a Trail backed by conn.
func New(conn *mmongo.MongoConnection, logger mlog.Logger) *Trail {
	return &Trail{conn: conn, logger: logger}
}

func (t *Trail) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := t.conn.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	return db.Database(t.conn.Database).Collection(CollectionName), nil
}

// Record appends one entry. Failures are logged and swallowed: the audit
// trail is a supplemental compliance log, not the source of truth, and
// must never block or fail the write path it's observing -- the same
// availability-over-strict-consistency trade-off the relational reflector
// makes.
func (t *Trail) Record(ctx context.Context, seq uint64, serializedDelta string, accepted bool, reason string) {
	if t == nil {
		return
	}

	coll, err := t.collection(ctx)
	if err != nil {
		t.logger.Errorf("audit: failed to reach mongo, dropping entry for sequence %d: %v", seq, err)
		return
	}

	entry := Entry{
		AuditID:         rputil.GenerateUUIDv7().String(),
		Sequence:        seq,
		SerializedDelta: serializedDelta,
		Accepted:        accepted,
		Reason:          reason,
		RecordedAt:      time.Now().UTC(),
	}

	if _, err := coll.InsertOne(ctx, entry); err != nil {
		t.logger.Errorf("audit: insert failed for sequence %d: %v", seq, err)
	}
}

// EnsureIndexes creates the index the audit collection is queried by
// (sequence, descending, for "most recent writes" lookups). Call once at
// master startup.
func (t *Trail) EnsureIndexes(ctx context.Context) error {
	coll, err := t.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sequence", Value: -1}},
	})

	return err
}
