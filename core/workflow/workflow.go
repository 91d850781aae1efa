package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
)

// Status is where a flow currently stands.
//
//	Editing → Submitting → {Success | FieldError | ServerError}
//
// FieldError and ServerError are editable again immediately; Success is
// terminal for the invocation and closing it triggers a snapshot reload.
type Status int

const (
	StatusEditing Status = iota
	StatusSubmitting
	StatusSuccess
	StatusFieldError
	StatusServerError
)

func (s Status) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusFieldError:
		return "field error"
	case StatusServerError:
		return "server error"
	}
	return "unknown"
}

var (
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrFlowDone       = errors.New("flow already succeeded")
)

// Controller opens flows. One controller serves the whole app; each opened
// flow is an independent instance.
type Controller struct {
	client        catalog.Client
	store         *catalog.Store
	session       core.SessionStore
	logger        core.Logger
	defaultAppURL string
}

func NewController(client catalog.Client, store *catalog.Store, session core.SessionStore, logger core.Logger, defaultAppURL string) *Controller {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Controller{
		client:        client,
		store:         store,
		session:       session,
		logger:        logger,
		defaultAppURL: defaultAppURL,
	}
}

func (c *Controller) snapshot() catalog.Snapshot {
	snap, _ := c.store.Snapshot()
	return snap
}

func (c *Controller) appURL() string {
	return c.snapshot().Config.AppURLOr(c.defaultAppURL)
}

// flow is the shared state machine embedded in every concrete flow.
type flow struct {
	ID  uuid.UUID
	ctl *Controller

	mu        sync.Mutex
	status    Status
	fieldErrs []core.FieldError
	message   string
}

func newFlow(ctl *Controller) flow {
	return flow{ID: uuid.New(), ctl: ctl}
}

func (f *flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// ErrorMessage is the text shown in the form's error slot, from either a
// local validation failure or the server's verbatim rejection.
func (f *flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *flow) FieldErrors() []core.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrs
}

// Edit acknowledges an error state and returns the flow to Editing.
func (f *flow) Edit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusFieldError || f.status == StatusServerError {
		f.status = StatusEditing
		f.fieldErrs = nil
		f.message = ""
	}
}

// begin moves the flow to Submitting. It rejects re-submission while a call
// is in flight and after success; this guard, not cancellation, is what
// prevents duplicate submissions.
func (f *flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.status {
	case StatusSubmitting:
		return ErrSubmitInFlight
	case StatusSuccess:
		return ErrFlowDone
	}
	f.status = StatusSubmitting
	f.fieldErrs = nil
	f.message = ""
	return nil
}

// failLocal records a pre-network validation failure. The flow never left
// Editing conceptually; no request was issued.
func (f *flow) failLocal(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = StatusFieldError
	if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
		f.fieldErrs = vErr.Fields
		if len(vErr.Fields) > 0 {
			f.message = vErr.Fields[0].Field + ": " + vErr.Fields[0].Error
		}
	} else {
		f.message = err.Error()
	}
}

// failRemote records a submission failure: business rejections carry the
// server's message verbatim, anything else is a generic connection error.
func (f *flow) failRemote(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = StatusServerError
	f.message = err.Error()
}

func (f *flow) succeed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = StatusSuccess
}

// submit runs the one-and-only mutate call for a flow invocation. Entering
// Submitting requires local validation to pass first: a validation failure
// surfaces field errors and issues no request at all.
func (f *flow) submit(ctx context.Context, validate func() error, action catalog.Action, payload func() interface{}) (catalog.MutationResult, error) {
	switch f.Status() {
	case StatusSubmitting:
		return catalog.MutationResult{}, ErrSubmitInFlight
	case StatusSuccess:
		return catalog.MutationResult{}, ErrFlowDone
	}
	if err := validate(); err != nil {
		f.failLocal(err)
		return catalog.MutationResult{}, err
	}
	if err := f.begin(); err != nil {
		return catalog.MutationResult{}, err
	}
	res, err := f.ctl.client.Mutate(ctx, action, payload(), f.ctl.session.Load())
	if err != nil {
		f.ctl.logger.Warn(string(action)+" submission failed", err,
			map[string]interface{}{"flow": f.ID.String()})
		f.failRemote(err)
		return catalog.MutationResult{}, err
	}
	f.ctl.logger.Debug(string(action) + " accepted")
	return res, nil
}

// Close finishes the flow. Closing a successful flow re-syncs the snapshot
// with one authoritative reload; anything else just goes away.
func (f *flow) Close(ctx context.Context) error {
	if f.Status() != StatusSuccess {
		return nil
	}
	return f.ctl.store.Reload(ctx)
}
