package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

const (
	defaultAuthEventQueueSize = 64
	authEventWriteTimeout     = 5 * time.Second
)

var _ model.EventRecorder = (*AuthDebugLogger)(nil)

// AuthDebugLogger appends auth debug events in the background.
// Record never fails and never blocks; every failure is logged at debug level and dropped.
type AuthDebugLogger struct {
	store     model.AuthEventStore
	sessions  model.SessionResolver
	userAgent string
	logger    *logger.Logger
	now       func() time.Time

	mu        sync.RWMutex
	closed    bool
	queue     chan model.AuthDebugEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewAuthDebugLogger starts the writer goroutine. store and sessions may be nil.
// Call Close to flush pending events.
func NewAuthDebugLogger(store model.AuthEventStore, sessions model.SessionResolver, userAgent string, logger *logger.Logger) *AuthDebugLogger {
	return newAuthDebugLogger(store, sessions, userAgent, logger, defaultAuthEventQueueSize)
}

func newAuthDebugLogger(store model.AuthEventStore, sessions model.SessionResolver, userAgent string, logger *logger.Logger, queueSize int) *AuthDebugLogger {
	l := &AuthDebugLogger{
		store:     store,
		sessions:  sessions,
		userAgent: userAgent,
		logger:    logger,
		now:       time.Now,
		queue:     make(chan model.AuthDebugEvent, queueSize),
		done:      make(chan struct{}),
	}
	go l.run()
	return l
}

// Record captures stage with the current session user and queues it for writing.
func (l *AuthDebugLogger) Record(ctx context.Context, stage model.AuthStage, details model.AuthEventDetails) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Debug("Auth debug: recovered while recording event",
				"stage", string(stage),
				"panic", fmt.Sprint(r))
		}
	}()

	if !stage.Valid() {
		l.logger.Debug("Auth debug: dropping event with unknown stage", "stage", string(stage))
		return
	}

	event := model.AuthDebugEvent{
		ID:           uuid.New(),
		Stage:        stage,
		Provider:     details.Provider,
		ErrorMessage: DescribeError(details.Err),
		Metadata:     details.Metadata,
		UserID:       l.currentUser(ctx),
		CreatedAt:    l.now().UTC(),
	}
	if details.URL != "" {
		u := details.URL
		event.URL = &u
	}
	if l.userAgent != "" {
		ua := l.userAgent
		event.UserAgent = &ua
	}

	l.enqueue(event)
}

func (l *AuthDebugLogger) currentUser(ctx context.Context) (userID *uuid.UUID) {
	if l.sessions == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			userID = nil
		}
	}()

	id, err := l.sessions.CurrentUserID(ctx)
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

func (l *AuthDebugLogger) enqueue(event model.AuthDebugEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		l.logger.Debug("Auth debug: logger closed, dropping event", "stage", string(event.Stage))
		return
	}

	select {
	case l.queue <- event:
	default:
		l.logger.Debug("Auth debug: queue full, dropping event", "stage", string(event.Stage))
	}
}

func (l *AuthDebugLogger) run() {
	defer close(l.done)
	for event := range l.queue {
		l.write(event)
	}
}

func (l *AuthDebugLogger) write(event model.AuthDebugEvent) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Debug("Auth debug: recovered while writing event",
				"stage", string(event.Stage),
				"panic", fmt.Sprint(r))
		}
	}()

	if l.store == nil {
		l.logger.Debug("Auth debug: no event store configured", "stage", string(event.Stage))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), authEventWriteTimeout)
	defer cancel()

	if err := l.store.Insert(ctx, event); err != nil {
		l.logger.Debug("Auth debug: failed to write event",
			"stage", string(event.Stage),
			"error", err.Error())
	}
}

// Close stops accepting events and waits for queued ones to be written or for ctx to end.
func (l *AuthDebugLogger) Close(ctx context.Context) error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()
	})

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to flush auth debug events: %w", ctx.Err())
	}
}

// ListRecent returns the newest events. Row-level security in the database limits it to privileged roles.
func (l *AuthDebugLogger) ListRecent(ctx context.Context, limit int) ([]model.AuthDebugEvent, error) {
	if l.store == nil {
		return nil, fmt.Errorf("auth event store is not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	events, err := l.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth debug events: %w", err)
	}
	return events, nil
}

// DescribeError renders an arbitrary error value as a message, or nil when there is none.
// Errors and strings are used directly, other values are JSON encoded when possible.
func DescribeError(v any) *string {
	if v == nil {
		return nil
	}

	var msg string
	switch e := v.(type) {
	case error:
		msg = safeErrorString(e)
	case string:
		msg = e
	case fmt.Stringer:
		msg = e.String()
	default:
		if b, err := json.Marshal(v); err == nil {
			msg = string(b)
		} else {
			msg = fmt.Sprint(v)
		}
	}
	return &msg
}

func safeErrorString(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}
