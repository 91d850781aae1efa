// Package sheets talks to the spreadsheet-backed Apps Script web app: one
// endpoint, action-tagged GET for reads and action-tagged POST for writes.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
)

type Client struct {
	baseURL string
	hc      *http.Client
	logger  core.Logger
}

var _ catalog.Client = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Client{
		baseURL: conf.APIBaseURL,
		hc:      &http.Client{Timeout: conf.HTTPTimeout},
		logger:  logger,
	}
}

// envelope is common to every response: success plus either a payload or a
// human-readable error.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) Verify(ctx context.Context, adminCode string) (catalog.Stats, error) {
	var res struct {
		envelope
		catalog.Stats
	}
	if err := c.get(ctx, "stats", adminCode, &res); err != nil {
		return catalog.Stats{}, err
	}
	if !res.Success {
		return catalog.Stats{}, core.ErrCredentialRejected
	}
	return res.Stats, nil
}

func (c *Client) LoadAll(ctx context.Context, adminCode string) (catalog.Snapshot, error) {
	var res struct {
		envelope
		Students  []catalog.Student  `json:"students"`
		Lessons   []catalog.Lesson   `json:"lessons"`
		Payments  []catalog.Payment  `json:"payments"`
		Referrers []catalog.Referrer `json:"referrers"`
		Config    catalog.AppConfig  `json:"config"`
	}
	if err := c.get(ctx, "admin", adminCode, &res); err != nil {
		return catalog.Snapshot{}, err
	}
	if !res.Success {
		return catalog.Snapshot{}, core.ErrCredentialRejected
	}
	return catalog.Snapshot{
		Students:  res.Students,
		Lessons:   res.Lessons,
		Payments:  res.Payments,
		Referrers: res.Referrers,
		Config:    res.Config,
	}, nil
}

// Mutate issues exactly one write request. A success:false response is the
// backend rejecting the business operation; its message travels back
// verbatim as a *core.ServerError.
func (c *Client) Mutate(ctx context.Context, action catalog.Action, payload interface{}, adminCode string) (catalog.MutationResult, error) {
	body, err := mutationBody(action, payload, adminCode)
	if err != nil {
		return catalog.MutationResult{}, errors.Wrap(err, "encoding "+string(action)+" payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return catalog.MutationResult{}, core.NewConnectionError(err)
	}
	// Apps Script web apps only accept simple requests; text/plain avoids
	// the CORS preflight the script cannot answer.
	req.Header.Set("Content-Type", "text/plain")

	var res struct {
		envelope
		catalog.MutationResult
	}
	if err := c.do(req, &res); err != nil {
		return catalog.MutationResult{}, err
	}
	if !res.Success {
		return catalog.MutationResult{}, core.NewServerError(res.Error)
	}
	return res.MutationResult, nil
}

// mutationBody folds the action tag and credential into the payload's own
// fields.
func mutationBody(action catalog.Action, payload interface{}, adminCode string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	body := make(map[string]interface{})
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	body["action"] = string(action)
	body["adminCode"] = adminCode
	return json.Marshal(body)
}

func (c *Client) get(ctx context.Context, action, adminCode string, out interface{}) error {
	params := url.Values{}
	params.Set("action", action)
	params.Set("adminCode", adminCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return core.NewConnectionError(err)
	}
	return c.do(req, out)
}

// do runs one request/response cycle. Transport failures, non-2xx statuses
// and undecodable bodies are all the same thing to the caller: a connection
// error, retryable by hand.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("request failed", err)
		return core.NewConnectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("unexpected response status", map[string]interface{}{"status": resp.StatusCode})
		return core.NewConnectionError(errors.Errorf("unexpected status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.NewConnectionError(errors.Wrap(err, "decoding response"))
	}
	return nil
}
