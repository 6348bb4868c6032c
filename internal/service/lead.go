package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

const (
	invalidEmailMessage    = "Please enter a valid email address."
	unexpectedErrorMessage = "Something went wrong. Please try again."
)

// LeadCapture collects a marketing email. The local submitted flag is authoritative:
// once a valid email is submitted the flag is set even if the remote upsert fails.
type LeadCapture struct {
	mu     sync.Mutex
	store  model.LeadStore
	prefs  model.PreferenceStore
	source string
	logger *logger.Logger
	now    func() time.Time

	email      string
	submitted  bool
	submitting bool
	errMsg     string
}

// NewLeadCapture restores the submitted flag from prefs. store may be nil when the remote
// tables are unreachable; submissions then behave like a failed upsert.
func NewLeadCapture(ctx context.Context, store model.LeadStore, prefs model.PreferenceStore, source string, logger *logger.Logger) *LeadCapture {
	if source == "" {
		source = model.DefaultLeadSource
	}
	c := &LeadCapture{
		store:  store,
		prefs:  prefs,
		source: source,
		logger: logger,
		now:    time.Now,
	}
	c.submitted = c.loadSubmitted(ctx)
	return c
}

func (c *LeadCapture) loadSubmitted(ctx context.Context) bool {
	value, found, err := c.prefs.Get(ctx, model.LeadSubmittedKey)
	if err != nil {
		c.logger.Warn("Lead service: failed to read submitted flag",
			"error", err.Error())
		return false
	}
	return found && value == "true"
}

// SetEmail replaces the draft email and clears any previous error.
func (c *LeadCapture) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
	c.errMsg = ""
}

// Submit validates the draft and sends it. Only validation failures and unexpected
// failures are returned; a failed upsert is logged and otherwise treated as success.
func (c *LeadCapture) Submit(ctx context.Context) (err error) {
	c.mu.Lock()
	draft := c.email
	c.errMsg = ""
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Lead service: unexpected failure during submit",
				"panic", fmt.Sprint(r))
			c.setError(unexpectedErrorMessage)
			err = fmt.Errorf("unexpected lead submit failure: %v", r)
		}
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	email := strings.ToLower(strings.TrimSpace(draft))
	if !strings.Contains(email, "@") {
		c.setError(invalidEmailMessage)
		return model.ErrInvalidEmail
	}

	lead := model.Lead{
		ID:        uuid.New(),
		Email:     email,
		Source:    c.source,
		CreatedAt: c.now().UTC(),
	}

	res := c.upsert(ctx, lead)
	if !res.IsOk() {
		c.logger.Warn("Lead service: remote lead upsert failed, keeping local success",
			"email", email,
			"kind", string(res.Err().Kind),
			"error", res.Err().Error())
	} else {
		c.logger.Info("Lead service: lead captured",
			"email", email,
			"source", c.source)
	}

	if err := c.prefs.Set(ctx, model.LeadSubmittedKey, "true"); err != nil {
		c.logger.Warn("Lead service: failed to persist submitted flag",
			"error", err.Error())
	}

	c.mu.Lock()
	c.submitted = true
	// A draft replaced while the upsert was in flight belongs to the next submit.
	if c.email == draft {
		c.email = ""
	}
	c.mu.Unlock()

	return nil
}

func (c *LeadCapture) upsert(ctx context.Context, lead model.Lead) model.Result[model.Lead] {
	if c.store == nil {
		return model.Fail[model.Lead](model.KindTransport, "lead store unavailable", nil)
	}
	return model.ResultOf(c.store.Upsert(ctx, lead))
}

func (c *LeadCapture) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}

func (c *LeadCapture) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

func (c *LeadCapture) IsSubmitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

func (c *LeadCapture) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *LeadCapture) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
