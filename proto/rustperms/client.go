package rustperms

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DialOption is the call option every dial against a master or replica node
// must carry so responses are decoded with the msgpack codec instead of
// grpc-go's default proto codec.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName))
}

// Dial connects to a master or replica node at addr. Callers needing TLS or
// other transport credentials should dial directly with grpc.NewClient and
// DialOption() instead.
func Dial(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		DialOption(),
	)
}

// ReplicaCheckPermClient adapts a ReplicaHandlerClient to the narrow
// pathtemplate.CheckPermClient interface the permission-path middleware
// depends on, so middleware never needs to import this package's raw
// request/response types.
type ReplicaCheckPermClient struct {
	Client ReplicaHandlerClient
}

// CheckPerm implements pathtemplate.CheckPermClient.
func (c ReplicaCheckPermClient) CheckPerm(ctx context.Context, userUID, permission string, unsetPolicy bool) (bool, error) {
	resp, err := c.Client.CheckPerm(ctx, &CheckPermRequest{
		UserUID:     userUID,
		Permission:  permission,
		UnsetPolicy: unsetPolicy,
	})
	if err != nil {
		return false, err
	}

	return resp.Result, nil
}
