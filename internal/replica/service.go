package replica

import (
	"context"
	"sync/atomic"

	"github.com/rustperms/rustperms/pkg/envcfg"
	"github.com/rustperms/rustperms/pkg/mgrpc"
	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/mpostgres"
	"github.com/rustperms/rustperms/pkg/mrabbitmq"
	"github.com/rustperms/rustperms/pkg/mredis"
	"github.com/rustperms/rustperms/pkg/mtelemetry"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/eventstream"
	"github.com/rustperms/rustperms/pkg/rustperms/manager"
	"github.com/rustperms/rustperms/pkg/rustperms/reflector"
	"github.com/rustperms/rustperms/pkg/rustperms/replicalag"
	rppb "github.com/rustperms/rustperms/proto/rustperms"
)

// Service holds every collaborator the replica's gRPC handlers and event
// consumer need. mgr is swapped wholesale at bootstrap and never again;
// after that every delivered delta is applied in place through the manager
// it already points at.
type Service struct {
	Config    *Config
	Logger    mlog.Logger
	Telemetry *mtelemetry.Telemetry

	Rabbit *mrabbitmq.RabbitMQConnection
	Lag    *replicalag.Registry

	mgr atomic.Pointer[manager.Manager]
	// sequence is the replica's own high-water mark: the highest delta
	// sequence it has applied, seeded from the bootstrap snapshot's
	// sequence.
	sequence atomic.Uint64
}

// InitService loads Config from the environment, connects Redis/RabbitMQ,
// and bootstraps the in-memory manager. It does not start serving until
// Bootstrap has returned successfully -- callers must not register the gRPC
// handler before that.
func InitService(ctx context.Context, logger mlog.Logger, telemetry *mtelemetry.Telemetry) (*Service, error) {
	cfg := &Config{}
	if err := envcfg.SetConfigFromEnvVars(cfg); err != nil {
		return nil, err
	}

	rabbit := &mrabbitmq.RabbitMQConnection{
		ConnectionStringSource: cfg.RabbitMQSource,
		Logger:                 logger,
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
		Rabbit:    rabbit,
		Lag:       lag,
	}

	if err := svc.Bootstrap(ctx); err != nil {
		return nil, err
	}

	return svc, nil
}

// Manager returns the replica's current in-memory manager.
func (s *Service) Manager() *manager.Manager {
	return s.mgr.Load()
}

// Sequence returns the highest delta sequence applied so far.
func (s *Service) Sequence() uint64 {
	return s.sequence.Load()
}

// Bootstrap tries a peer replica's GetSnapshot first, then the master's, and only fall back to a
// degraded reconstruction straight from the relational store if neither
// answers. Whichever source wins, its reported sequence becomes this
// replica's starting high-water mark.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.Config.PeerReplicaAddr != "" {
		if mgr, seq, err := s.bootstrapFromReplica(ctx, s.Config.PeerReplicaAddr); err == nil {
			s.mgr.Store(mgr)
			s.sequence.Store(seq)

			return nil
		} else {
			s.Logger.Errorf("replica: bootstrap from peer %s failed, falling back to master: %v", s.Config.PeerReplicaAddr, err)
		}
	}

	if s.Config.MasterAddr != "" {
		if mgr, seq, err := s.bootstrapFromMaster(ctx, s.Config.MasterAddr); err == nil {
			s.mgr.Store(mgr)
			s.sequence.Store(seq)

			return nil
		} else {
			s.Logger.Errorf("replica: bootstrap from master %s failed, falling back to degraded reconstruction: %v", s.Config.MasterAddr, err)
		}
	}

	return s.bootstrapDegraded(ctx)
}

func (s *Service) bootstrapFromReplica(ctx context.Context, addr string) (*manager.Manager, uint64, error) {
	hub := &mgrpc.GRPCConnection{Addr: addr, Logger: s.Logger}

	conn, err := hub.GetClient()
	if err != nil {
		return nil, 0, err
	}
	defer hub.Close()

	client := rppb.NewReplicaHandlerClient(conn)

	resp, err := client.GetSnapshot(ctx, &rppb.GetSnapshotRequest{})
	if err != nil {
		return nil, 0, err
	}

	mgr, err := manager.FromSnapshot(resp.SerializedUsers, resp.SerializedGroups)
	if err != nil {
		return nil, 0, err
	}

	return mgr, resp.Sequence, nil
}

func (s *Service) bootstrapFromMaster(ctx context.Context, addr string) (*manager.Manager, uint64, error) {
	hub := &mgrpc.GRPCConnection{Addr: addr, Logger: s.Logger}

	conn, err := hub.GetClient()
	if err != nil {
		return nil, 0, err
	}
	defer hub.Close()

	client := rppb.NewMasterHandlerClient(conn)

	resp, err := client.GetSnapshot(ctx, &rppb.GetSnapshotRequest{})
	if err != nil {
		return nil, 0, err
	}

	mgr, err := manager.FromSnapshot(resp.SerializedUsers, resp.SerializedGroups)
	if err != nil {
		return nil, 0, err
	}

	return mgr, resp.Sequence, nil
}

// bootstrapDegraded rebuilds the manager straight from the six relational
// tables, the same way the master itself does on restart, and seeds its
// high-water mark from the persisted rustperms_sequence counter (the same
// one internal/master.InitService boots from), so event-stream redelivery
// of already-reflected deltas is filtered correctly.
func (s *Service) bootstrapDegraded(ctx context.Context) error {
	pg := &mpostgres.PostgresConnection{
		ConnectionStringPrimary: s.Config.PrimaryDBSource,
		ConnectionStringReplica: s.Config.ReplicaDBSource,
		PrimaryDBName:           s.Config.PrimaryDBName,
		ReplicaDBName:           s.Config.ReplicaDBName,
		MigrationsPath:          s.Config.MigrationsPath,
	}

	db, err := pg.GetDB(ctx)
	if err != nil {
		return err
	}

	refl := reflector.New(db, s.Logger)

	d, err := refl.LoadDelta(ctx)
	if err != nil {
		return err
	}

	seq, err := refl.LoadSequence(ctx)
	if err != nil {
		return err
	}

	s.mgr.Store(manager.FromDelta(d))
	s.sequence.Store(seq)

	return nil
}

// RunConsumer tails the durable event stream, applying every delta whose
// sequence is strictly greater than what this replica has already applied
// and dropping everything else as stale or duplicate. It
// must only be called after Bootstrap has returned: NewConsumer binds the
// replica's queue at call time, so binding after the snapshot read is what
// keeps the broker from replaying anything older.
func (s *Service) RunConsumer(ctx context.Context) error {
	consumer, err := eventstream.NewConsumer(ctx, s.Rabbit, s.Config.ReplicaID, s.Logger)
	if err != nil {
		return err
	}

	return consumer.Run(ctx, s.applyEnvelope)
}

func (s *Service) applyEnvelope(ctx context.Context, env eventstream.Envelope) error {
	if env.Sequence <= s.sequence.Load() {
		s.Logger.Infof("replica: dropping stale delta sequence %d (have %d)", env.Sequence, s.sequence.Load())

		return nil
	}

	d, err := delta.Decode(env.SerializedDelta)
	if err != nil {
		// A delta that doesn't decode today won't decode on redelivery
		// either; requeuing would spin forever. Drop it and count on the
		// next snapshot bootstrap to converge past it.
		s.Logger.Errorf("replica: undecodable delta sequence %d, dropping: %v", env.Sequence, err)

		return nil
	}

	s.Manager().Apply(d)
	s.sequence.Store(env.Sequence)
	s.Lag.SetSequence(ctx, s.Config.ReplicaID, env.Sequence)

	return nil
}
