// Package manager implements the asynchronous manager: the
// in-memory, concurrency-safe holder of every user and group, the single
// place deltas are applied and permissions are resolved against: two maps
// behind one RWMutex, mutation under the write lock, resolution under the
// read lock.
package manager

import (
	"context"
	"sync"

	"github.com/rustperms/rustperms/pkg/rustperms/delta"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
	"github.com/rustperms/rustperms/pkg/rustperms/resolver"
)

// Manager holds every user and group known to this node and serializes
// mutation against concurrent reads.
type Manager struct {
	mu     sync.RWMutex
	users  map[string]*entity.User
	groups map[string]*entity.Group
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{
		users:  make(map[string]*entity.User),
		groups: make(map[string]*entity.Group),
	}
}

// FromDelta builds a manager from scratch by applying every operation in d
// in order, the way a replica's degraded bootstrap or a from-scratch replay
// would. Operations whose precondition fails are silently skipped, the same
// as any other Apply call.
func FromDelta(d *delta.Delta) *Manager {
	m := New()
	for _, op := range d.Ops {
		delta.Apply(m.users, m.groups, op)
	}

	return m
}

// Apply applies every operation in d under the manager's write lock. At
// most one Apply runs at a time; in-flight Check calls that started before
// it see the pre-delta state for their entire call.
func (m *Manager) Apply(d *delta.Delta) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range d.Ops {
		delta.Apply(m.users, m.groups, op)
	}
}

// ApplyReflected applies d under the manager's write lock the same way
// Apply does, but gives reflect direct access to the manager's maps so a
// durable reflector (pkg/rustperms/reflector) can mirror each accepted
// operation onto a relational store inside the same critical section the
// in-memory apply runs in. reflect is responsible for calling delta.Apply
// itself (see reflector.Reflector.Apply) so acceptance of each operation
// and its SQL reflection agree on the same precondition check.
func (m *Manager) ApplyReflected(ctx context.Context, d *delta.Delta, reflect func(ctx context.Context, users map[string]*entity.User, groups map[string]*entity.Group, d *delta.Delta) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return reflect(ctx, m.users, m.groups, d)
}

// Check resolves permission for userUID against p. ok is false when no rule
// anywhere answered the question; callers apply their own unset policy.
func (m *Manager) Check(userUID string, p path.Path) (resolver.Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return resolver.Check(m.users, m.groups, userUID, p)
}

// HasUser reports whether userUID is known to the manager.
func (m *Manager) HasUser(userUID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[userUID]

	return ok
}

// HasGroup reports whether groupUID is known to the manager.
func (m *Manager) HasGroup(groupUID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.groups[groupUID]

	return ok
}
