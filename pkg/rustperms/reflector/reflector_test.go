//go:build integration

package reflector_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bxcodec/dbresolver/v2"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/reflector"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// setupDB starts a disposable Postgres container and applies the master
// schema migration, returning a plain *sql.DB. Uses the same
// container-per-test idiom as the codebase's other integration tests
// (GenericContainer + wait strategy + t.Cleanup teardown), here via the
// testcontainers-go Postgres module.
func setupDB(t *testing.T) dbresolver.DB {
	t.Helper()

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("rustperms"),
		postgres.WithUsername("rustperms"),
		postgres.WithPassword("rustperms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get postgres connection string")

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "failed to open postgres connection")

	t.Cleanup(func() { sqlDB.Close() })

	applyMigrations(t, ctx, sqlDB)

	// A single node stands in for both roles; the reflector only ever
	// writes through the primary side of the resolver.
	return dbresolver.New(dbresolver.WithPrimaryDBs(sqlDB))
}

func TestReflectorApplyThenLoadDeltaRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := reflector.New(db, &mlog.NoneLogger{})

	users := map[string]*entity.User{}
	groups := map[string]*entity.Group{}

	d := delta.New()
	d.PushMany(
		delta.NewGroupCreate("engineering", 10),
		delta.NewUserCreate("alice"),
		delta.NewGroupAddUsers("engineering", []string{"alice"}),
		delta.NewGroupUpdatePerms("engineering", []trie.Record{
			{Path: path.MustParse("calls.start"), Enabled: true},
		}),
	)

	require.NoError(t, r.Apply(context.Background(), users, groups, d, 1))

	require.Contains(t, users, "alice")
	require.Contains(t, groups, "engineering")
	require.Contains(t, groups["engineering"].Members, "alice")

	reloaded, err := r.LoadDelta(context.Background())
	require.NoError(t, err)

	reloadedUsers := map[string]*entity.User{}
	reloadedGroups := map[string]*entity.Group{}

	for _, op := range reloaded.Ops {
		delta.Apply(reloadedUsers, reloadedGroups, op)
	}

	require.Contains(t, reloadedUsers, "alice")
	require.Contains(t, reloadedGroups, "engineering")
	require.Contains(t, reloadedGroups["engineering"].Members, "alice")
	require.Equal(t, int32(10), reloadedGroups["engineering"].Weight)

	enabled, ok := reloadedGroups["engineering"].Permissions.Get(path.MustParse("calls.start"))
	require.True(t, ok)
	require.True(t, enabled)

	seq, err := r.LoadSequence(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq, "the sequence persisted with the delta must survive a reload")
}

func TestReflectorSequenceSurvivesRestartAtHighWaterMark(t *testing.T) {
	db := setupDB(t)
	r := reflector.New(db, &mlog.NoneLogger{})

	users := map[string]*entity.User{}
	groups := map[string]*entity.Group{}

	seq, err := r.LoadSequence(context.Background())
	require.NoError(t, err)
	require.Zero(t, seq, "a fresh database must report sequence 0")

	first := delta.New()
	first.Push(delta.NewUserCreate("alice"))
	require.NoError(t, r.Apply(context.Background(), users, groups, first, 41))

	second := delta.New()
	second.Push(delta.NewUserCreate("bob"))
	require.NoError(t, r.Apply(context.Background(), users, groups, second, 42))

	seq, err = r.LoadSequence(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), seq,
		"a restarted master must resume from the highest issued sequence, not from any entity count")
}

func TestReflectorGroupRemoveCleansUpEdgeTables(t *testing.T) {
	db := setupDB(t)
	r := reflector.New(db, &mlog.NoneLogger{})

	users := map[string]*entity.User{}
	groups := map[string]*entity.Group{}

	d := delta.New()
	d.PushMany(
		delta.NewGroupCreate("parent", 0),
		delta.NewGroupCreate("child", 0),
		delta.NewUserCreate("alice"),
		delta.NewGroupAddParentGroups("child", []string{"parent"}),
		delta.NewGroupAddUsers("parent", []string{"alice"}),
	)
	require.NoError(t, r.Apply(context.Background(), users, groups, d, 1))

	removal := delta.New()
	removal.Push(delta.NewGroupRemove("parent"))
	require.NoError(t, r.Apply(context.Background(), users, groups, removal, 2))

	var relCount int
	require.NoError(t, db.QueryRow(`
		SELECT count(*) FROM rustperms_group_relations WHERE group_uid = 'parent' OR parent_group_uid = 'parent'
	`).Scan(&relCount))
	require.Equal(t, 0, relCount, "removing a group must not leave orphan rows in rustperms_group_relations")

	var memberCount int
	require.NoError(t, db.QueryRow(`
		SELECT count(*) FROM rustperms_user_groups WHERE group_uid = 'parent'
	`).Scan(&memberCount))
	require.Equal(t, 0, memberCount, "removing a group must not leave orphan rows in rustperms_user_groups")

	reloaded, err := r.LoadDelta(context.Background())
	require.NoError(t, err)

	reloadedUsers := map[string]*entity.User{}
	reloadedGroups := map[string]*entity.Group{}

	for _, op := range reloaded.Ops {
		delta.Apply(reloadedUsers, reloadedGroups, op)
	}

	require.NotContains(t, reloadedGroups, "parent")
	require.False(t, reloadedGroups["child"].HasParent("parent"), "reload must not resurrect a phantom parent edge")
}

func TestReflectorApplySkipsUnmetPreconditionsBothInMemoryAndInDB(t *testing.T) {
	db := setupDB(t)
	r := reflector.New(db, &mlog.NoneLogger{})

	users := map[string]*entity.User{}
	groups := map[string]*entity.Group{}

	d := delta.New()
	d.Push(delta.NewUserRemove("ghost"))

	require.NoError(t, r.Apply(context.Background(), users, groups, d, 1))
	require.Empty(t, users)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM rustperms_user WHERE user_uid = 'ghost'`).Scan(&count))
	require.Equal(t, 0, count)
}
