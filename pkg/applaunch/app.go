// Package applaunch composes a binary out of named long-running apps (a
// gRPC server, an admin HTTP server, an event-stream consumer) and runs
// them as goroutines under one launcher, blocking until every one of them
// returns.
package applaunch

import (
	"fmt"
	"sync"

	"github.com/rustperms/rustperms/pkg/console"
	"github.com/rustperms/rustperms/pkg/mlog"
)

// App is one long-running component of a binary. Run blocks for the app's
// whole lifetime; returning (with or without error) ends it.
type App interface {
	Run(launcher *Launcher) error
}

// LauncherOption configures a Launcher at construction.
type LauncherOption func(l *Launcher)

// WithLogger sets the launcher's logger.
func WithLogger(logger mlog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.Logger = logger
	}
}

// RunApp registers app under name.
func RunApp(name string, app App) LauncherOption {
	return func(l *Launcher) {
		l.Add(name, app)
	}
}

// Launcher runs every registered App concurrently and waits for all of
// them to finish.
type Launcher struct {
	Logger mlog.Logger

	apps map[string]App
	wg   sync.WaitGroup
}

// NewLauncher builds a Launcher from opts.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{apps: make(map[string]App)}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Add registers a under appName; it starts when Run is called.
func (l *Launcher) Add(appName string, a App) *Launcher {
	l.apps[appName] = a

	return l
}

// Run starts every registered app in its own goroutine and blocks until
// the last one returns. An app's error is logged, not propagated; the
// remaining apps keep running.
func (l *Launcher) Run() {
	fmt.Println(console.Title("Launcher Run"))

	l.Logger.Infof("launcher: starting %d app(s)", len(l.apps))

	l.wg.Add(len(l.apps))

	for name, app := range l.apps {
		go func(name string, app App) {
			defer l.wg.Done()

			l.Logger.Infof("launcher: app (%s) starting", name)

			if err := app.Run(l); err != nil {
				l.Logger.Errorf("launcher: app (%s) exited with error: %v", name, err)

				return
			}

			l.Logger.Infof("launcher: app (%s) finished", name)
		}(name, app)
	}

	l.wg.Wait()

	l.Logger.Info("launcher: terminated")
}
