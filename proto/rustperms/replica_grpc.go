// Hand-written in the shape protoc-gen-go-grpc produces from
// rustperms.proto's ReplicaHandler service.
package rustperms

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	ReplicaHandler_CheckPerm_FullMethodName   = "/rustperms.ReplicaHandler/CheckPerm"
	ReplicaHandler_GetSnapshot_FullMethodName = "/rustperms.ReplicaHandler/GetSnapshot"
)

// ReplicaHandlerClient is the client API for ReplicaHandler service.
type ReplicaHandlerClient interface {
	CheckPerm(ctx context.Context, in *CheckPermRequest, opts ...grpc.CallOption) (*CheckPermResponse, error)
	GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error)
}

type replicaHandlerClient struct {
	cc grpc.ClientConnInterface
}

// NewReplicaHandlerClient returns a ReplicaHandlerClient backed by cc, which
// should have been dialed with grpc.WithDefaultCallOptions(grpc.CallContentSubtype("msgpack")).
func NewReplicaHandlerClient(cc grpc.ClientConnInterface) ReplicaHandlerClient {
	return &replicaHandlerClient{cc}
}

func (c *replicaHandlerClient) CheckPerm(ctx context.Context, in *CheckPermRequest, opts ...grpc.CallOption) (*CheckPermResponse, error) {
	out := new(CheckPermResponse)
	if err := c.cc.Invoke(ctx, ReplicaHandler_CheckPerm_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *replicaHandlerClient) GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error) {
	out := new(GetSnapshotResponse)
	if err := c.cc.Invoke(ctx, ReplicaHandler_GetSnapshot_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// ReplicaHandlerServer is the server API for ReplicaHandler service.
// All implementations must embed UnimplementedReplicaHandlerServer for
// forward compatibility.
type ReplicaHandlerServer interface {
	CheckPerm(context.Context, *CheckPermRequest) (*CheckPermResponse, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error)
	mustEmbedUnimplementedReplicaHandlerServer()
}

// UnimplementedReplicaHandlerServer must be embedded to have forward compatible implementations.
type UnimplementedReplicaHandlerServer struct{}

func (UnimplementedReplicaHandlerServer) CheckPerm(context.Context, *CheckPermRequest) (*CheckPermResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckPerm not implemented")
}

func (UnimplementedReplicaHandlerServer) GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSnapshot not implemented")
}

func (UnimplementedReplicaHandlerServer) mustEmbedUnimplementedReplicaHandlerServer() {}

// UnsafeReplicaHandlerServer may be embedded to opt out of forward compatibility for this service.
type UnsafeReplicaHandlerServer interface {
	mustEmbedUnimplementedReplicaHandlerServer()
}

func RegisterReplicaHandlerServer(s grpc.ServiceRegistrar, srv ReplicaHandlerServer) {
	s.RegisterService(&ReplicaHandler_ServiceDesc, srv)
}

func _ReplicaHandler_CheckPerm_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckPermRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ReplicaHandlerServer).CheckPerm(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReplicaHandler_CheckPerm_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplicaHandlerServer).CheckPerm(ctx, req.(*CheckPermRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func _ReplicaHandler_GetSnapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ReplicaHandlerServer).GetSnapshot(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReplicaHandler_GetSnapshot_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplicaHandlerServer).GetSnapshot(ctx, req.(*GetSnapshotRequest))
	}

	return interceptor(ctx, in, info, handler)
}

// ReplicaHandler_ServiceDesc is the grpc.ServiceDesc for ReplicaHandler service.
var ReplicaHandler_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rustperms.ReplicaHandler",
	HandlerType: (*ReplicaHandlerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckPerm", Handler: _ReplicaHandler_CheckPerm_Handler},
		{MethodName: "GetSnapshot", Handler: _ReplicaHandler_GetSnapshot_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/rustperms/rustperms.proto",
}
