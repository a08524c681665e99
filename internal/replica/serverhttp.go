package replica

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rustperms/rustperms/pkg/applaunch"
	libhttp "github.com/rustperms/rustperms/pkg/mnet/http"
)

// ServerHTTP runs the replica's small admin surface:
// /healthz, /readyz and /v1/snapshot/meta, mirroring internal/master's.
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

	return &ServerHTTP{app: app, addr: cfg.HTTPAddr}
}

// readyz reports ready once bootstrap has populated a manager. By the time
// ServerHTTP exists this has already happened: InitService blocks on
// Bootstrap.
func readyz(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc.Manager() == nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("not ready")
		}

		return c.SendString("ready")
	}
}

// snapshotMeta reports this replica's current applied sequence, so
// operators can eyeball lag against the master's /v1/snapshot/meta without
// querying Redis directly.
func snapshotMeta(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sequence": svc.Sequence(),
		})
	}
}

// Run implements applaunch.App.
func (s *ServerHTTP) Run(_ *applaunch.Launcher) error {
	return s.app.Listen(s.addr)
}
