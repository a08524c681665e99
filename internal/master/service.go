package master

import (
	"context"
	"sync/atomic"

	"github.com/rustperms/rustperms/pkg/envcfg"
	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/mmongo"
	"github.com/rustperms/rustperms/pkg/mpostgres"
	"github.com/rustperms/rustperms/pkg/mrabbitmq"
	"github.com/rustperms/rustperms/pkg/mredis"
	"github.com/rustperms/rustperms/pkg/mtelemetry"
	"github.com/rustperms/rustperms/pkg/rustperms/audit"
	"github.com/rustperms/rustperms/pkg/rustperms/eventstream"
	"github.com/rustperms/rustperms/pkg/rustperms/manager"
	"github.com/rustperms/rustperms/pkg/rustperms/reflector"
	"github.com/rustperms/rustperms/pkg/rustperms/replicalag"
)

// Service holds every collaborator the master's gRPC handlers need.
type Service struct {
	Config    *Config
	Logger    mlog.Logger
	Telemetry *mtelemetry.Telemetry

	Manager   *manager.Manager
	Reflector *reflector.Reflector
	Audit     *audit.Trail
	Publisher *eventstream.Publisher
	Lag       *replicalag.Registry

	// sequence is the monotonically increasing publish counter embedded in
	// every GetSnapshot reply and every published delta. Seeded at boot
	// from the rustperms_sequence counter the reflector persists with each
	// committed delta, so a restarted master resumes from the highest
	// sequence it ever issued and never reuses one a live replica has
	// already seen.
	sequence atomic.Uint64
}

// InitService loads Config from the environment, connects every backing
// store, rebuilds the in-memory manager from the relational store by
// loading all six tables, and returns a ready-to-serve Service.
func InitService(ctx context.Context, logger mlog.Logger, telemetry *mtelemetry.Telemetry) (*Service, error) {
	cfg := &Config{}
	if err := envcfg.SetConfigFromEnvVars(cfg); err != nil {
		return nil, err
	}

	pg := &mpostgres.PostgresConnection{
		ConnectionStringPrimary: cfg.PrimaryDBSource,
		ConnectionStringReplica: cfg.ReplicaDBSource,
		PrimaryDBName:           cfg.PrimaryDBName,
		ReplicaDBName:           cfg.ReplicaDBName,
		MigrationsPath:          cfg.MigrationsPath,
	}

	db, err := pg.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	refl := reflector.New(db, logger)

	d, err := refl.LoadDelta(ctx)
	if err != nil {
		return nil, err
	}

	mgr := manager.FromDelta(d)

	rabbit := &mrabbitmq.RabbitMQConnection{
		ConnectionStringSource: cfg.RabbitMQSource,
		Logger:                 logger,
	}

	publisher, err := eventstream.NewPublisher(ctx, rabbit, logger)
	if err != nil {
		return nil, err
	}

	var trail *audit.Trail

	if cfg.MongoSource != "" {
		mongoConn := &mmongo.MongoConnection{
			ConnectionStringSource: cfg.MongoSource,
			Database:               cfg.MongoDatabase,
		}

		trail = audit.New(mongoConn, logger)

		if err := trail.EnsureIndexes(ctx); err != nil {
			logger.Errorf("master: failed to ensure audit indexes: %v", err)
		}
	}

	var lag *replicalag.Registry

	if cfg.RedisSource != "" {
		redisConn := &mredis.RedisConnection{
			ConnectionStringSource: cfg.RedisSource,
			Logger:                 logger,
		}

		lag = replicalag.New(redisConn)
	}

	svc := &Service{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Manager:   mgr,
		Reflector: refl,
		Audit:     trail,
		Publisher: publisher,
		Lag:       lag,
	}

	seq, err := refl.LoadSequence(ctx)
	if err != nil {
		return nil, err
	}

	svc.sequence.Store(seq)

	return svc, nil
}

// nextSequence returns the next publish-order sequence number.
func (s *Service) nextSequence() uint64 {
	return s.sequence.Add(1)
}
