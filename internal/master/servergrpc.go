package master

import (
	"net"

	"google.golang.org/grpc"

	"github.com/rustperms/rustperms/pkg/applaunch"
	"github.com/rustperms/rustperms/pkg/mlog"
	rppb "github.com/rustperms/rustperms/proto/rustperms"
)

// ServerGRPC runs the master's MasterHandler gRPC service as an applaunch.App:
// a thin wrapper around a pre-built *grpc.Server listening on one TCP
// address.
type ServerGRPC struct {
	server *grpc.Server
	addr   string
	logger mlog.Logger
}

// NewServerGRPC builds the gRPC server for svc, registering its MasterHandler
// and installing the logging/telemetry interceptor chain.
func NewServerGRPC(cfg *Config, svc *Service, interceptors ...grpc.UnaryServerInterceptor) *ServerGRPC {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors...),
	)

	rppb.RegisterMasterHandlerServer(server, NewHandler(svc))

	return &ServerGRPC{
		server: server,
		addr:   cfg.GRPCAddr,
		logger: svc.Logger,
	}
}

// Run implements applaunch.App.
func (s *ServerGRPC) Run(_ *applaunch.Launcher) error {
	listen, err := net.Listen("tcp4", s.addr)
	if err != nil {
		return err
	}

	s.logger.Infof("master: gRPC server listening on %s", s.addr)

	return s.server.Serve(listen)
}
