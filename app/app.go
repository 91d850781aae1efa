// Package app wires session, API client, snapshot store and navigator into
// the admin application shell. Rendering is someone else's job: front ends
// subscribe to store and navigator changes and read view models off the
// snapshot.
package app

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
	"github.com/trysabi/sabi-admin/core/workflow"
)

var (
	ErrInvalidCode    = errors.New("Invalid admin code")
	ErrSessionExpired = errors.New("Session expired. Please log in again.")
)

type App struct {
	conf    *core.Config
	logger  core.Logger
	session core.SessionStore
	client  catalog.Client
	store   *catalog.Store
	nav     *Navigator
	flows   *workflow.Controller
}

func New(conf *core.Config, logger core.Logger, session core.SessionStore, client catalog.Client) *App {
	if logger == nil {
		logger = core.NopLogger{}
	}
	store := catalog.NewStore(client, session, logger)
	return &App{
		conf:    conf,
		logger:  logger,
		session: session,
		client:  client,
		store:   store,
		nav:     NewNavigator(),
		flows:   workflow.NewController(client, store, session, logger, conf.DefaultAppURL),
	}
}

func (a *App) Store() *catalog.Store          { return a.store }
func (a *App) Navigator() *Navigator          { return a.nav }
func (a *App) Flows() *workflow.Controller    { return a.flows }
func (a *App) Snapshot() (catalog.Snapshot, bool) { return a.store.Snapshot() }

// Boot resumes a saved session: verify the stored code, load everything and
// land on the dashboard. A rejected code is cleared; being offline just
// shows the login screen and keeps the stored code for next time.
func (a *App) Boot(ctx context.Context) {
	code := a.session.Load()
	if code == "" {
		a.nav.ShowLogin()
		return
	}
	if _, err := a.client.Verify(ctx, code); err != nil {
		if err == core.ErrCredentialRejected {
			a.session.Clear()
			a.logger.Info("saved session rejected, cleared")
		} else {
			a.logger.Warn("session resume failed", err)
		}
		a.nav.ShowLogin()
		return
	}
	_ = a.enterDashboard(ctx)
}

// Login verifies the entered code and, when accepted, persists it and loads
// the dashboard. The returned error is already user-facing.
func (a *App) Login(ctx context.Context, code string) error {
	code = core.CleanString(code)
	if code == "" {
		return ErrInvalidCode
	}

	a.session.Save(code)
	if _, err := a.client.Verify(ctx, code); err != nil {
		if err == core.ErrCredentialRejected {
			a.session.Clear()
			return ErrInvalidCode
		}
		return err
	}
	return a.enterDashboard(ctx)
}

// enterDashboard runs the authoritative reload and navigates accordingly.
// A snapshot load can still fail after a successful verify; auth failures
// read as an expired session.
func (a *App) enterDashboard(ctx context.Context) error {
	if err := a.store.Reload(ctx); err != nil {
		a.nav.ShowLogin()
		if err == core.ErrCredentialRejected {
			return ErrSessionExpired
		}
		return err
	}
	a.nav.ShowDashboard()
	return nil
}

// Reload re-syncs the snapshot, e.g. after closing a successful flow. On
// session expiry or connection loss there is no stale dashboard to show;
// the app returns to login.
func (a *App) Reload(ctx context.Context) error {
	return a.enterDashboard(ctx)
}

// Logout discards session and snapshot and returns to login.
func (a *App) Logout() {
	a.session.Clear()
	a.store.Drop()
	a.nav.ShowLogin()
}

// OpenStudent drills into a student's detail view. Unknown codes are
// ignored rather than erroring; the list the code came from is the same
// snapshot this checks against.
func (a *App) OpenStudent(code string) {
	snap, ok := a.store.Snapshot()
	if !ok {
		return
	}
	if _, found := snap.FindStudent(code); !found {
		return
	}
	a.nav.ShowDetail(code)
}

func (a *App) Back() {
	a.nav.Back()
}
