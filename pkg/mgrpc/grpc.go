// Package mgrpc is the connection hub for dialing other rustperms nodes
// (master or replica), in the same shape as the other connection structs in
// pkg (PostgresConnection, RabbitMQConnection): a struct holding the target
// plus a lazily established singleton connection.
package mgrpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rustperms/rustperms/pkg/mlog"
)

// GRPCConnection dials one master or replica node. Every connection carries
// the msgpack call option so responses decode with the codec the rustperms
// RPC surface is served with (proto/rustperms/codec.go).
type GRPCConnection struct {
	Addr   string
	Logger mlog.Logger

	conn *grpc.ClientConn
}

// Connect establishes the underlying client connection.
func (c *GRPCConnection) Connect(opts ...grpc.DialOption) error {
	opts = append(opts,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("msgpack")),
	)

	conn, err := grpc.NewClient(c.Addr, opts...)
	if err != nil {
		c.Logger.Errorf("mgrpc: failed to connect to %s: %v", c.Addr, err)

		return err
	}

	c.conn = conn

	return nil
}

// GetClient returns the connection, establishing it first if needed.
func (c *GRPCConnection) GetClient() (*grpc.ClientConn, error) {
	if c.conn == nil {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	return c.conn, nil
}

// Close tears the connection down; GetClient after Close reconnects.
func (c *GRPCConnection) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return err
}
