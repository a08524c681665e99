package reflector

import (
	"context"
	"database/sql"

	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// LoadDelta reconstructs the manager's state from the six tables as a
// single Delta, suitable for manager.FromDelta: users and groups first,
// then the permission and relation tables, with the per-row facts folded
// into one batched operation per owning entity. Entity creation has to
// come first so every later operation's precondition holds during replay.
func (r *Reflector) LoadDelta(ctx context.Context) (*delta.Delta, error) {
	d := delta.New()

	userUIDs, err := queryStrings(ctx, r.DB, `SELECT user_uid FROM rustperms_user`)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_user")
	}

	for _, u := range userUIDs {
		d.Push(delta.NewUserCreate(u))
	}

	groupRows, err := queryGroups(ctx, r.DB)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_group")
	}

	for _, g := range groupRows {
		d.Push(delta.NewGroupCreate(g.uid, g.weight))
	}

	userPerms, err := queryRules(ctx, r.DB, `SELECT user_uid, permission, enabled FROM rustperms_user_permissions`)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_user_permissions")
	}

	for uid, rules := range userPerms {
		d.Push(delta.NewUserUpdatePerms(uid, rules))
	}

	groupPerms, err := queryRules(ctx, r.DB, `SELECT group_uid, permission, enabled FROM rustperms_group_permissions`)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_group_permissions")
	}

	for gid, rules := range groupPerms {
		d.Push(delta.NewGroupUpdatePerms(gid, rules))
	}

	relations, err := queryEdges(ctx, r.DB, `SELECT group_uid, parent_group_uid FROM rustperms_group_relations`)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_group_relations")
	}

	for gid, parents := range relations {
		d.Push(delta.NewGroupAddParentGroups(gid, parents))
	}

	memberships, err := queryEdges(ctx, r.DB, `SELECT group_uid, user_uid FROM rustperms_user_groups`)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_user_groups")
	}

	for gid, members := range memberships {
		d.Push(delta.NewGroupAddUsers(gid, members))
	}

	return d, nil
}

// LoadSequence returns the highest publish sequence ever committed, as
// persisted by Apply. A fresh database reports 0.
func (r *Reflector) LoadSequence(ctx context.Context) (uint64, error) {
	var seq int64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT last_sequence FROM rustperms_sequence`).Scan(&seq); err != nil {
		return 0, rperrors.ValidateInternalError(err, "rustperms_sequence")
	}

	return uint64(seq), nil
}

// dbQuerier is the subset of dbresolver.DB the load queries need.
type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryStrings(ctx context.Context, db dbQuerier, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, rows.Err()
}

type groupRow struct {
	uid    string
	weight int32
}

func queryGroups(ctx context.Context, db dbQuerier) ([]groupRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT group_uid, weight FROM rustperms_group`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []groupRow

	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.uid, &g.weight); err != nil {
			return nil, err
		}

		out = append(out, g)
	}

	return out, rows.Err()
}

func queryRules(ctx context.Context, db dbQuerier, query string) (map[string][]trie.Record, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]trie.Record)

	for rows.Next() {
		var (
			owner, permission string
			enabled           bool
		)

		if err := rows.Scan(&owner, &permission, &enabled); err != nil {
			return nil, err
		}

		p, err := path.Parse(permission)
		if err != nil {
			continue
		}

		out[owner] = append(out[owner], trie.Record{Path: p, Enabled: enabled})
	}

	return out, rows.Err()
}

func queryEdges(ctx context.Context, db dbQuerier, query string) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)

	for rows.Next() {
		var owner, other string
		if err := rows.Scan(&owner, &other); err != nil {
			return nil, err
		}

		out[owner] = append(out[owner], other)
	}

	return out, rows.Err()
}
