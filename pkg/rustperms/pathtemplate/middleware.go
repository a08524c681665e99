package pathtemplate

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/rustperms/rustperms/pkg/mlog"
)

// CheckPermClient is the subset of the replica's gRPC surface the
// middleware needs. Satisfied by the generated rustperms replica client.
//
//go:generate mockgen -source=middleware.go -destination=middleware_mock.go -package=pathtemplate
type CheckPermClient interface {
	CheckPerm(ctx context.Context, userUID, permission string, unsetPolicy bool) (bool, error)
}

// UserUIDFromContext extracts the caller's identity for {from_access}
// substitution. An empty string means "guest" and is a valid input to
// Complete.
type UserUIDFromContext func(c *fiber.Ctx) string

// Middleware guards a fiber route with a rustperms permission check.
type Middleware struct {
	Template *Template
	Client   CheckPermClient
	UserUID  UserUIDFromContext
	OnFail   int // fiber status code
	Logger   mlog.Logger
}

// NewMiddleware builds a Middleware for permission, defaulting OnFail to
// 401 Unauthorized (call Hidden to use 404 instead, for endpoints whose
// very existence shouldn't be disclosed to unauthorized callers).
func NewMiddleware(permission string, client CheckPermClient, userUID UserUIDFromContext, logger mlog.Logger) (*Middleware, error) {
	tmpl, err := New(permission)
	if err != nil {
		return nil, err
	}

	return &Middleware{
		Template: tmpl,
		Client:   client,
		UserUID:  userUID,
		OnFail:   fiber.StatusUnauthorized,
		Logger:   logger,
	}, nil
}

// Hidden switches the failure status to 404, so a caller without access
// can't distinguish "forbidden" from "doesn't exist".
func (m *Middleware) Hidden() *Middleware {
	m.OnFail = fiber.StatusNotFound

	return m
}

// Handler returns the fiber.Handler enforcing the permission.
func (m *Middleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userUID := m.UserUID(c)

		kvs := make(map[string]string)
		for k, v := range c.AllParams() {
			kvs[k] = v
		}

		permission, ok := m.Template.Complete(kvs, userUID)
		if !ok {
			m.Logger.Errorf("can't complete permission template %s for request %s", m.Template.String(), c.OriginalURL())

			return c.SendStatus(m.OnFail)
		}

		allowed, err := m.Client.CheckPerm(c.UserContext(), userUID, permission, false)
		if err != nil {
			m.Logger.Errorf("check perm call failed for %s: %v", permission, err)

			return c.SendStatus(m.OnFail)
		}

		if !allowed {
			return c.SendStatus(m.OnFail)
		}

		return c.Next()
	}
}
