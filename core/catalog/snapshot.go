package catalog

import (
	"context"
	"sync"

	"github.com/trysabi/sabi-admin/core"
)

// Action tags a mutating request.
type Action string

const (
	ActionAddStudent  Action = "addStudent"
	ActionAddLesson   Action = "addLesson"
	ActionAddPayment  Action = "addPayment"
	ActionAddReferrer Action = "addReferrer"
)

type (
	// Stats is the aggregate payload of the `stats` read action; fetching it
	// doubles as credential verification.
	Stats struct {
		Students int     `json:"students"`
		Lessons  int     `json:"lessons"`
		Revenue  float64 `json:"revenue"`
	}

	// MutationResult carries server-generated identifiers, e.g. the new
	// student code from addStudent.
	MutationResult struct {
		Code string `json:"code"`
	}

	// Client is the remote API boundary: one request, one response, no
	// retries, no caching. A rejected credential on reads surfaces as
	// core.ErrCredentialRejected, a business rejection on writes as
	// *core.ServerError, and any transport failure as *core.ConnectionError.
	Client interface {
		Verify(ctx context.Context, adminCode string) (Stats, error)
		LoadAll(ctx context.Context, adminCode string) (Snapshot, error)
		Mutate(ctx context.Context, action Action, payload interface{}, adminCode string) (MutationResult, error)
	}
)

// Store owns the current snapshot. Consistency is wholesale replacement:
// a reload swaps the entire snapshot atomically, so consumers never observe
// a mix of old and new data. When reloads overlap, the last one to finish
// wins outright.
type Store struct {
	client  Client
	session core.SessionStore
	logger  core.Logger

	mu      sync.RWMutex
	current Snapshot
	loaded  bool
	subs    []func()
}

func NewStore(client Client, session core.SessionStore, logger core.Logger) *Store {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Store{client: client, session: session, logger: logger}
}

// Snapshot returns the current snapshot; ok=false before the first
// successful load and after Drop.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.loaded
}

// Subscribe registers a callback fired after every swap or drop. The
// rendering layer hangs off this; the store itself never renders.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Reload fetches the full dataset and swaps it in. On a rejected credential
// it clears the session and reports core.ErrCredentialRejected (session
// expired). On a connection error the prior snapshot is dropped too: the
// caller must return to login rather than display stale data.
func (s *Store) Reload(ctx context.Context) error {
	adminCode := s.session.Load()
	if adminCode == "" {
		s.drop()
		return core.ErrCredentialRejected
	}

	snap, err := s.client.LoadAll(ctx, adminCode)
	if err != nil {
		if err == core.ErrCredentialRejected {
			s.session.Clear()
			s.logger.Info("snapshot reload rejected, session cleared")
		} else {
			s.logger.Warn("snapshot reload failed", err)
		}
		s.drop()
		return err
	}

	s.mu.Lock()
	s.current = snap
	s.loaded = true
	subs := s.subs
	s.mu.Unlock()

	s.logger.Debug("snapshot swapped",
		map[string]interface{}{"students": len(snap.Students), "lessons": len(snap.Lessons)})

	s.notify(subs)
	return nil
}

// Drop discards the snapshot, e.g. on logout.
func (s *Store) Drop() {
	s.drop()
}

func (s *Store) drop() {
	s.mu.Lock()
	s.current = Snapshot{}
	s.loaded = false
	subs := s.subs
	s.mu.Unlock()

	s.notify(subs)
}

func (s *Store) notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
