// Package reflector implements the durable reflector: it
// mirrors accepted deltas onto six relational tables, one transaction per
// delta, applying in-memory first and reflecting only the operations whose
// precondition actually held. Statements go through the dbresolver-backed
// connection hub (pkg/mpostgres); list-shaped operations bind their lists
// as arrays so one round-trip covers any batch size.
package reflector

import (
	"context"
	"fmt"

	"github.com/bxcodec/dbresolver/v2"
	"github.com/lib/pq"

	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// Reflector mirrors deltas onto Postgres. It holds no in-memory state of
// its own; Apply is always called with the manager's maps under the
// caller's write lock.
type Reflector struct {
	DB     dbresolver.DB
	Logger mlog.Logger
}

// New returns a Reflector backed by db.
func New(db dbresolver.DB, logger mlog.Logger) *Reflector {
	return &Reflector{DB: db, Logger: logger}
}

// Apply applies every operation in d against users/groups in memory first;
// only operations whose precondition held (Apply returned true) are also
// reflected onto the database, inside one transaction for the whole delta.
// seq is the publish sequence the caller assigned to this delta; it is
// persisted to the rustperms_sequence counter in the same transaction, so
// a restarted master resumes numbering from its true high-water mark
// rather than reissuing sequences live replicas have already applied.
//
// A failure reflecting a single operation, or committing the transaction,
// is logged and swallowed rather than rolled back or propagated: per the
// documented trade-off, the in-memory manager is allowed to run temporarily
// ahead of the database, favoring read availability. On restart the master
// reloads from the database, re-establishing ground truth; event-stream
// consumers will already have received the in-memory state via the
// broadcast regardless of whether the commit below succeeded.
func (r *Reflector) Apply(ctx context.Context, users map[string]*entity.User, groups map[string]*entity.Group, d *delta.Delta, seq uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.Logger.Errorf("reflector: can't begin transaction: %v", err)

		return rperrors.ErrReflectorTxFailed
	}

	for _, op := range d.Ops {
		if !delta.Apply(users, groups, op) {
			continue
		}

		if err := reflectOp(ctx, tx, op); err != nil {
			r.Logger.Errorf("reflector: can't execute sql for op %v: %v", op.Kind, err)
		}
	}

	// GREATEST keeps the counter monotonic even if a lower-numbered delta
	// commits after a higher-numbered one.
	if _, err := tx.ExecContext(ctx,
		`UPDATE rustperms_sequence SET last_sequence = GREATEST(last_sequence, $1)`,
		int64(seq)); err != nil {
		r.Logger.Errorf("reflector: can't persist sequence %d: %v", seq, err)
	}

	if err := tx.Commit(); err != nil {
		r.Logger.Errorf("reflector: can't commit changes: %v", err)
	}

	return nil
}

func reflectOp(ctx context.Context, tx dbresolver.Tx, op delta.Op) error {
	switch op.Kind {
	case delta.UserCreate:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rustperms_user (user_uid) VALUES ($1) ON CONFLICT (user_uid) DO NOTHING`,
			op.UserUID)

		return err

	case delta.UserRemove:
		_, err := tx.ExecContext(ctx, `DELETE FROM rustperms_user WHERE user_uid = $1`, op.UserUID)

		return err

	case delta.UserUpdatePerms:
		perms, enabled := rulesToColumns(op.Rules)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rustperms_user_permissions (user_uid, permission, enabled)
			SELECT $1, perms.permission, perms.enabled
			FROM UNNEST($2::text[], $3::bool[]) AS perms(permission, enabled)
			ON CONFLICT (user_uid, permission)
			DO UPDATE SET enabled = EXCLUDED.enabled
		`, op.UserUID, pq.Array(perms), pq.Array(enabled))

		return err

	case delta.UserRemovePerms:
		_, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_user_permissions
			USING UNNEST($2::text[]) AS rules(permission)
			WHERE user_uid = $1 AND rustperms_user_permissions.permission = rules.permission
		`, op.UserUID, pq.Array(op.Paths))

		return err

	case delta.GroupCreate:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rustperms_group (group_uid, weight) VALUES ($1, $2)
			ON CONFLICT (group_uid) DO UPDATE SET weight = EXCLUDED.weight
		`, op.GroupUID, op.Weight)

		return err

	case delta.GroupUpdate:
		_, err := tx.ExecContext(ctx, `UPDATE rustperms_group SET weight = $2 WHERE group_uid = $1`,
			op.GroupUID, op.Weight)

		return err

	case delta.GroupRemove:
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_group_relations WHERE group_uid = $1 OR parent_group_uid = $1
		`, op.GroupUID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_user_groups WHERE group_uid = $1
		`, op.GroupUID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM rustperms_group WHERE group_uid = $1`, op.GroupUID)

		return err

	case delta.GroupUpdatePerms:
		perms, enabled := rulesToColumns(op.Rules)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rustperms_group_permissions (group_uid, permission, enabled)
			SELECT $1, perms.permission, perms.enabled
			FROM UNNEST($2::text[], $3::bool[]) AS perms(permission, enabled)
			ON CONFLICT (group_uid, permission)
			DO UPDATE SET enabled = EXCLUDED.enabled
		`, op.GroupUID, pq.Array(perms), pq.Array(enabled))

		return err

	case delta.GroupRemovePerms:
		_, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_group_permissions
			USING UNNEST($2::text[]) AS rules(permission)
			WHERE group_uid = $1 AND rustperms_group_permissions.permission = rules.permission
		`, op.GroupUID, pq.Array(op.Paths))

		return err

	case delta.GroupAddParentGroups:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rustperms_group_relations (group_uid, parent_group_uid)
			SELECT $1, groups.parent FROM UNNEST($2::text[]) AS groups(parent)
			ON CONFLICT (group_uid, parent_group_uid) DO NOTHING
		`, op.GroupUID, pq.Array(op.GroupUIDs))

		return err

	case delta.GroupRemoveParentGroups:
		_, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_group_relations
			USING UNNEST($2::text[]) AS groups(parent)
			WHERE group_uid = $1 AND parent_group_uid = groups.parent
		`, op.GroupUID, pq.Array(op.GroupUIDs))

		return err

	case delta.GroupAddUsers:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rustperms_user_groups (group_uid, user_uid)
			SELECT $1, users.uid FROM UNNEST($2::text[]) AS users(uid)
			ON CONFLICT (group_uid, user_uid) DO NOTHING
		`, op.GroupUID, pq.Array(op.UserUIDs))

		return err

	case delta.GroupRemoveUsers:
		_, err := tx.ExecContext(ctx, `
			DELETE FROM rustperms_user_groups
			USING UNNEST($2::text[]) AS users(uid)
			WHERE group_uid = $1 AND user_uid = users.uid
		`, op.GroupUID, pq.Array(op.UserUIDs))

		return err

	default:
		return fmt.Errorf("reflector: unknown op kind %v", op.Kind)
	}
}

func rulesToColumns(rules []trie.Record) ([]string, []bool) {
	perms := make([]string, len(rules))
	enabled := make([]bool, len(rules))

	for i, r := range rules {
		perms[i] = r.Path.Format()
		enabled[i] = r.Enabled
	}

	return perms, enabled
}
