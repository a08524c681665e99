// Package master wires the single logical writer: it accepts WriteChanges
// RPCs, applies them to its in-memory manager, reflects them into Postgres
// under one transaction, records them to the Mongo audit trail, and
// publishes the resulting delta onto the durable event stream.
//
// A Config struct with env tags loaded via pkg/envcfg, a Service struct
// wiring connection hubs into use-case-layer collaborators, and an
// InitService constructor main.go calls.
package master

// Config is the master node's process configuration.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`
	Version  string `env:"VERSION"`

	GRPCAddr string `env:"GRPC_ADDR" envDefault:":8081"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	PrimaryDBSource string `env:"DB_PRIMARY_DSN"`
	ReplicaDBSource string `env:"DB_REPLICA_DSN"`
	PrimaryDBName   string `env:"DB_PRIMARY_NAME"`
	ReplicaDBName   string `env:"DB_REPLICA_NAME"`
	MigrationsPath  string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations/master"`

	RabbitMQSource string `env:"RABBITMQ_DSN"`

	MongoSource   string `env:"MONGO_DSN"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"rustperms"`

	RedisSource string `env:"REDIS_DSN"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}
