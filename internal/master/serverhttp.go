package master

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rustperms/rustperms/pkg/applaunch"
	libhttp "github.com/rustperms/rustperms/pkg/mnet/http"
)

// ServerHTTP runs the master's small admin surface:
// /healthz, /readyz and /v1/snapshot/meta. It never serves the policy API
// itself, which stays gRPC-only.
type ServerHTTP struct {
	app  *fiber.App
	addr string
}

// NewServerHTTP builds the admin fiber app for svc.
func NewServerHTTP(cfg *Config, svc *Service) *ServerHTTP {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/healthz", libhttp.Healthz)
	app.Get("/readyz", readyz(svc))
	app.Get("/version", libhttp.Version(cfg.Version))
	app.Get("/v1/snapshot/meta", snapshotMeta(svc))
	app.Get("/v1/replicas/:id/lag", replicaLag(svc))

	return &ServerHTTP{app: app, addr: cfg.HTTPAddr}
}

// readyz reports ready once the manager has finished its boot-time rebuild,
// which by the time ServerHTTP exists has already happened: InitService
// blocks on it.
func readyz(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc.Manager == nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("not ready")
		}

		return c.SendString("ready")
	}
}

// snapshotMeta reports the master's current publish sequence without the
// snapshot payload itself, so operators can eyeball replication lag (cross
// referenced against pkg/rustperms/replicalag) without pulling the whole
// in-memory state over HTTP.
func snapshotMeta(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sequence": svc.sequence.Load(),
		})
	}
}

// replicaLag reports how far behind the master's own publish sequence the
// named replica's last-known applied sequence (pkg/rustperms/replicalag) is,
// so operators can spot a stalled replica without querying it directly. A
// replica that has never published its sequence, or whose Redis entry has
// expired, reports known=false with no lag figure.
func replicaLag(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		replicaID := c.Params("id")

		applied, ok := svc.Lag.GetSequence(c.Context(), replicaID)
		if !ok {
			return c.JSON(fiber.Map{"replica_id": replicaID, "known": false})
		}

		master := svc.sequence.Load()

		return c.JSON(fiber.Map{
			"replica_id": replicaID,
			"known":      true,
			"applied":    applied,
			"master":     master,
			"lag":        master - applied,
		})
	}
}

// Run implements applaunch.App.
func (s *ServerHTTP) Run(_ *applaunch.Launcher) error {
	return s.app.Listen(s.addr)
}
