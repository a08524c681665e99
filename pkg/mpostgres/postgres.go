// Package mpostgres is the connection hub for the relational store behind
// the durable reflector: a primary/replica pair resolved through
// dbresolver, with schema migrations applied against the primary on first
// connect.
package mpostgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/bxcodec/dbresolver/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	// file:// migration source for migrate.NewWithDatabaseInstance.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresConnection holds a singleton dbresolver pool over one primary and
// one read replica.
type PostgresConnection struct {
	ConnectionStringPrimary string
	ConnectionStringReplica string
	PrimaryDBName           string
	ReplicaDBName           string
	// MigrationsPath points at the migrations directory for this binary,
	// e.g. "migrations/master".
	MigrationsPath string

	db dbresolver.DB
}

// Connect opens both sides of the pool, runs pending migrations against
// the primary, and pings the resolved pool.
func (pc *PostgresConnection) Connect() error {
	primary, err := sql.Open("pgx", pc.ConnectionStringPrimary)
	if err != nil {
		return fmt.Errorf("mpostgres: open primary: %w", err)
	}

	replica, err := sql.Open("pgx", pc.ConnectionStringReplica)
	if err != nil {
		return fmt.Errorf("mpostgres: open replica: %w", err)
	}

	if err := pc.migrateUp(primary); err != nil {
		return err
	}

	db := dbresolver.New(
		dbresolver.WithPrimaryDBs(primary),
		dbresolver.WithReplicaDBs(replica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB))

	if err := db.Ping(); err != nil {
		return fmt.Errorf("mpostgres: ping: %w", err)
	}

	pc.db = db

	return nil
}

func (pc *PostgresConnection) migrateUp(primary *sql.DB) error {
	abs, err := filepath.Abs(pc.MigrationsPath)
	if err != nil {
		return fmt.Errorf("mpostgres: resolve migrations path: %w", err)
	}

	src := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	driver, err := postgres.WithInstance(primary, &postgres.Config{
		MultiStatementEnabled: true,
		DatabaseName:          pc.PrimaryDBName,
		SchemaName:            "public",
	})
	if err != nil {
		return fmt.Errorf("mpostgres: migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(src.String(), pc.PrimaryDBName, driver)
	if err != nil {
		return fmt.Errorf("mpostgres: load migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("mpostgres: apply migrations: %w", err)
	}

	return nil
}

// GetDB returns the resolved pool, connecting first if needed.
func (pc *PostgresConnection) GetDB(_ context.Context) (dbresolver.DB, error) {
	if pc.db == nil {
		if err := pc.Connect(); err != nil {
			return nil, err
		}
	}

	return pc.db, nil
}
