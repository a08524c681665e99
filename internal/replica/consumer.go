package replica

import (
	"context"

	"github.com/rustperms/rustperms/pkg/applaunch"
)

// Consumer runs the replica's event-stream tail as an applaunch.App.
type Consumer struct {
	Service *Service
}

// NewConsumer returns a Consumer for svc.
func NewConsumer(svc *Service) *Consumer {
	return &Consumer{Service: svc}
}

// Run implements applaunch.App. It runs until the process is torn down;
// applaunch has no shutdown signal to plumb through today, so this uses
// context.Background(), matching how other long-running consumers in this
// codebase run.
func (c *Consumer) Run(_ *applaunch.Launcher) error {
	return c.Service.RunConsumer(context.Background())
}
