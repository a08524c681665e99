// Hand-written in the shape protoc-gen-go-grpc produces from
// rustperms.proto's MasterHandler service, so a later switch to real
// protoc generation is a drop-in replacement.
package rustperms

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	MasterHandler_WriteChanges_FullMethodName = "/rustperms.MasterHandler/WriteChanges"
	MasterHandler_GetSnapshot_FullMethodName  = "/rustperms.MasterHandler/GetSnapshot"
)

// MasterHandlerClient is the client API for MasterHandler service.
type MasterHandlerClient interface {
	WriteChanges(ctx context.Context, in *WriteChangesRequest, opts ...grpc.CallOption) (*WriteChangesResponse, error)
	GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error)
}

type masterHandlerClient struct {
	cc grpc.ClientConnInterface
}

// NewMasterHandlerClient returns a MasterHandlerClient backed by cc, which
// should have been dialed with grpc.WithDefaultCallOptions(grpc.CallContentSubtype("msgpack")).
func NewMasterHandlerClient(cc grpc.ClientConnInterface) MasterHandlerClient {
	return &masterHandlerClient{cc}
}

func (c *masterHandlerClient) WriteChanges(ctx context.Context, in *WriteChangesRequest, opts ...grpc.CallOption) (*WriteChangesResponse, error) {
	out := new(WriteChangesResponse)
	if err := c.cc.Invoke(ctx, MasterHandler_WriteChanges_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *masterHandlerClient) GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error) {
	out := new(GetSnapshotResponse)
	if err := c.cc.Invoke(ctx, MasterHandler_GetSnapshot_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// MasterHandlerServer is the server API for MasterHandler service.
// All implementations must embed UnimplementedMasterHandlerServer for
// forward compatibility.
type MasterHandlerServer interface {
	WriteChanges(context.Context, *WriteChangesRequest) (*WriteChangesResponse, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error)
	mustEmbedUnimplementedMasterHandlerServer()
}

// UnimplementedMasterHandlerServer must be embedded to have forward compatible implementations.
type UnimplementedMasterHandlerServer struct{}

func (UnimplementedMasterHandlerServer) WriteChanges(context.Context, *WriteChangesRequest) (*WriteChangesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method WriteChanges not implemented")
}

func (UnimplementedMasterHandlerServer) GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSnapshot not implemented")
}

func (UnimplementedMasterHandlerServer) mustEmbedUnimplementedMasterHandlerServer() {}

// UnsafeMasterHandlerServer may be embedded to opt out of forward compatibility for this service.
type UnsafeMasterHandlerServer interface {
	mustEmbedUnimplementedMasterHandlerServer()
}

func RegisterMasterHandlerServer(s grpc.ServiceRegistrar, srv MasterHandlerServer) {
	s.RegisterService(&MasterHandler_ServiceDesc, srv)
}

func _MasterHandler_WriteChanges_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WriteChangesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(MasterHandlerServer).WriteChanges(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MasterHandler_WriteChanges_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MasterHandlerServer).WriteChanges(ctx, req.(*WriteChangesRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func _MasterHandler_GetSnapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(MasterHandlerServer).GetSnapshot(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MasterHandler_GetSnapshot_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MasterHandlerServer).GetSnapshot(ctx, req.(*GetSnapshotRequest))
	}

	return interceptor(ctx, in, info, handler)
}

// MasterHandler_ServiceDesc is the grpc.ServiceDesc for MasterHandler service.
var MasterHandler_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rustperms.MasterHandler",
	HandlerType: (*MasterHandlerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "WriteChanges", Handler: _MasterHandler_WriteChanges_Handler},
		{MethodName: "GetSnapshot", Handler: _MasterHandler_GetSnapshot_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/rustperms/rustperms.proto",
}
