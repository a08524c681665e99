// Package replica wires the read-only node: it bootstraps an in-memory
// manager from a snapshot, tails the durable event stream to stay current,
// and serves CheckPerm from that in-memory state exclusively -- it never
// touches Postgres or the event stream on the read path.
//
// Shares internal/master's Config/Service/gRPC-and-HTTP server wrapper
// shape, driven by pkg/envcfg and pkg/applaunch.
package replica

// Config is the replica node's process configuration.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`
	Version  string `env:"VERSION"`

	ReplicaID string `env:"REPLICA_ID"`

	GRPCAddr string `env:"GRPC_ADDR" envDefault:":8091"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8090"`

	// MasterAddr is the master's gRPC address, used for WriteChanges
	// forwarding is out of scope for this node but GetSnapshot bootstrap
	// falls back to it when no peer replica is configured or reachable.
	MasterAddr string `env:"MASTER_ADDR"`

	// PeerReplicaAddr, when set, is tried before MasterAddr for bootstrap:
	// a peer replica is preferred over the master so a fleet-wide restart
	// doesn't thunder against one node.
	PeerReplicaAddr string `env:"PEER_REPLICA_ADDR"`

	// Degraded-reconstruction fallback: load directly from the relational
	// store when neither a peer replica nor the master answers GetSnapshot.
	PrimaryDBSource string `env:"DB_PRIMARY_DSN"`
	ReplicaDBSource string `env:"DB_REPLICA_DSN"`
	PrimaryDBName   string `env:"DB_PRIMARY_NAME"`
	ReplicaDBName   string `env:"DB_REPLICA_NAME"`
	MigrationsPath  string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations/master"`

	RabbitMQSource string `env:"RABBITMQ_DSN"`
	RedisSource    string `env:"REDIS_DSN"`

	// UnsetPolicy is loaded from UNSET_POLICY. CheckPerm does not read it:
	// a request that no rule resolves is answered with the request's own
	// unset_policy.
	UnsetPolicy bool `env:"UNSET_POLICY"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}
