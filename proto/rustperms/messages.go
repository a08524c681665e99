// Package rustperms carries the hand-written gRPC stubs for the master and
// replica RPC surface. Other services in this style check in
// protoc-gen-go/protoc-gen-go-grpc output under proto/<service>/, built
// from a .proto source; this package keeps the same .proto-first contract
// (rustperms.proto) and the same generated-code shape for the service
// interfaces (see master_grpc.go / replica_grpc.go), but the message types
// below are plain msgpack-tagged structs carried over a custom grpc codec
// (codec.go) instead of protoc-gen-go output, so the module builds without
// invoking protoc.
package rustperms

// WriteChangesRequest is the master's canonical write RPC payload.
type WriteChangesRequest struct {
	SerializedDelta string `msgpack:"serialized_delta"`
}

// WriteChangesResponse is empty; failure is signalled out-of-band by gRPC status.
type WriteChangesResponse struct{}

// GetSnapshotRequest takes no parameters.
type GetSnapshotRequest struct{}

// GetSnapshotResponse carries the opaque users/groups blobs plus the
// sequence number a bootstrapping replica must use to filter the event
// stream.
type GetSnapshotResponse struct {
	SerializedUsers  string `msgpack:"serialized_users"`
	SerializedGroups string `msgpack:"serialized_groups"`
	Sequence         uint64 `msgpack:"sequence"`
}

// CheckPermRequest is the replica's read RPC payload.
type CheckPermRequest struct {
	UserUID     string `msgpack:"user_uid"`
	Permission  string `msgpack:"permission"`
	UnsetPolicy bool   `msgpack:"unset_policy"`
}

// CheckPermResponse carries the resolved (or unset-policy-defaulted) answer.
type CheckPermResponse struct {
	Result bool `msgpack:"result"`
}
