package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rustperms/rustperms/internal/master"
	"github.com/rustperms/rustperms/pkg/applaunch"
	"github.com/rustperms/rustperms/pkg/envcfg"
	libhttp "github.com/rustperms/rustperms/pkg/mnet/http"
	"github.com/rustperms/rustperms/pkg/mtelemetry"
	"github.com/rustperms/rustperms/pkg/mzap"
)

func main() {
	envcfg.InitLocalEnvConfig()

	logger := mzap.InitializeLogger()

	cfg := &master.Config{}
	if err := envcfg.SetConfigFromEnvVars(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load master config: %v\n", err)
		os.Exit(1)
	}

	telemetry := &mtelemetry.Telemetry{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
	}

	if cfg.EnableTelemetry {
		telemetry = telemetry.InitializeTelemetry()
	}

	ctx := context.Background()

	svc, err := master.InitService(ctx, logger, telemetry)
	if err != nil {
		logger.Errorf("failed to initialize master service: %v", err)
		os.Exit(1)
	}

	tlMid := libhttp.NewTelemetryMiddleware(telemetry)

	launcher := applaunch.NewLauncher(
		applaunch.WithLogger(logger),
		applaunch.RunApp("grpc", master.NewServerGRPC(cfg, svc,
			libhttp.WithGrpcLogging(libhttp.WithCustomLogger(logger)),
			tlMid.WithTelemetryInterceptor(),
			tlMid.EndTracingSpansInterceptor(),
		)),
		applaunch.RunApp("http", master.NewServerHTTP(cfg, svc)),
	)

	launcher.Run()
}
