package master

import (
	"context"

	rppb "github.com/rustperms/rustperms/proto/rustperms"
	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
)

// Handler implements rppb.MasterHandlerServer.
type Handler struct {
	rppb.UnimplementedMasterHandlerServer

	Service *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// WriteChanges is the canonical write path:
//  1. deserialize the delta and assign it the next publish sequence
//  2. apply it to the in-memory manager under its write lock, reflecting
//     each accepted operation -- and the assigned sequence -- onto an open
//     Postgres transaction
//  3. commit; on commit failure, the reflector logs and swallows rather
//     than rolling back -- the only error ApplyReflected returns here is a
//     failure to even begin the transaction, which does reject the write
//     to the caller
//  4. publish the serialized delta to the durable event stream regardless,
//     since by the time a commit failure could be observed the in-memory
//     manager has already accepted the delta. Replicas that received the
//     broadcast for a write whose persistence failed may diverge from the
//     database; this is a deliberate availability trade-off, not a bug.
func (h *Handler) WriteChanges(ctx context.Context, req *rppb.WriteChangesRequest) (*rppb.WriteChangesResponse, error) {
	d, err := delta.Decode(req.SerializedDelta)
	if err != nil {
		h.Service.Audit.Record(ctx, 0, req.SerializedDelta, false, err.Error())
		return nil, err
	}

	// The sequence is assigned before the apply so the reflector can
	// persist it inside the delta's own transaction; a rejected write
	// burns its number, leaving a harmless gap.
	seq := h.Service.nextSequence()

	reflect := func(ctx context.Context, users map[string]*entity.User, groups map[string]*entity.Group, d *delta.Delta) error {
		return h.Service.Reflector.Apply(ctx, users, groups, d, seq)
	}

	if err := h.Service.Manager.ApplyReflected(ctx, d, reflect); err != nil {
		h.Service.Logger.Errorf("master: reflector transaction could not start, write rejected: %v", err)
		h.Service.Audit.Record(ctx, 0, req.SerializedDelta, false, err.Error())

		return nil, err
	}

	if err := h.Service.Publisher.Publish(ctx, seq, req.SerializedDelta); err != nil {
		// At-least-once delivery is a broker-side retry/redelivery
		// concern, not a reason to fail an already-accepted write: the
		// in-memory manager has already applied it. Log and accept; a
		// replica that missed this broadcast converges on its next
		// snapshot bootstrap.
		h.Service.Logger.Errorf("master: publish failed for sequence %d: %v", seq, err)
	}

	h.Service.Audit.Record(ctx, seq, req.SerializedDelta, true, "")

	return &rppb.WriteChangesResponse{}, nil
}

// GetSnapshot serves a replica's bootstrap request.
func (h *Handler) GetSnapshot(ctx context.Context, _ *rppb.GetSnapshotRequest) (*rppb.GetSnapshotResponse, error) {
	usersBlob, groupsBlob, err := h.Service.Manager.GetSnapshot()
	if err != nil {
		return nil, err
	}

	return &rppb.GetSnapshotResponse{
		SerializedUsers:  usersBlob,
		SerializedGroups: groupsBlob,
		Sequence:         h.Service.sequence.Load(),
	}, nil
}
