package replica

import (
	"context"

	"github.com/rustperms/rustperms/pkg/rustperms/path"
	rppb "github.com/rustperms/rustperms/proto/rustperms"
)

// Handler implements rppb.ReplicaHandlerServer.
type Handler struct {
	rppb.UnimplementedReplicaHandlerServer

	Service *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// CheckPerm resolves permission against the in-memory manager only; it
// never falls through to Postgres or the event stream. When no rule
// resolves the question it answers with the request's UnsetPolicy;
// Config.UnsetPolicy is not consulted. pathtemplate.Middleware always
// passes false explicitly, and any other caller may opt into true.
func (h *Handler) CheckPerm(ctx context.Context, req *rppb.CheckPermRequest) (*rppb.CheckPermResponse, error) {
	p, err := path.Parse(req.Permission)
	if err != nil {
		return nil, err
	}

	result, ok := h.Service.Manager().Check(req.UserUID, p)
	if !ok {
		return &rppb.CheckPermResponse{Result: req.UnsetPolicy}, nil
	}

	return &rppb.CheckPermResponse{Result: result.Enabled}, nil
}

// GetSnapshot serves a peer replica's bootstrap request, so a fleet-wide
// restart can fan out snapshot load across replicas instead of thundering
// against the master.
func (h *Handler) GetSnapshot(ctx context.Context, _ *rppb.GetSnapshotRequest) (*rppb.GetSnapshotResponse, error) {
	usersBlob, groupsBlob, err := h.Service.Manager().GetSnapshot()
	if err != nil {
		return nil, err
	}

	return &rppb.GetSnapshotResponse{
		SerializedUsers:  usersBlob,
		SerializedGroups: groupsBlob,
		Sequence:         h.Service.Sequence(),
	}, nil
}
