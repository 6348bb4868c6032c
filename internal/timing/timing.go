// Package timing measures the stages of a single scan. Each Session belongs to one caller.
package timing

import (
	"sync"
	"time"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
)

// Stage is one measured step of a Session.
type Stage struct {
	Name     string
	Duration time.Duration
}

type Session struct {
	mu      sync.Mutex
	name    string
	now     func() time.Time
	started time.Time
	open    map[string]time.Time
	stages  []Stage
}

func NewSession(name string) *Session {
	return newSession(name, time.Now)
}

func newSession(name string, now func() time.Time) *Session {
	return &Session{
		name:    name,
		now:     now,
		started: now(),
		open:    make(map[string]time.Time),
	}
}

// Start marks the beginning of stage. Restarting an open stage resets its start time.
func (s *Session) Start(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[stage] = s.now()
}

// End closes stage and returns its duration. Ending a stage that was never started returns 0.
func (s *Session) End(stage string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	started, ok := s.open[stage]
	if !ok {
		return 0
	}
	delete(s.open, stage)

	d := s.now().Sub(started)
	s.stages = append(s.stages, Stage{Name: stage, Duration: d})
	return d
}

// Measure runs fn as stage.
func (s *Session) Measure(stage string, fn func()) time.Duration {
	s.Start(stage)
	fn()
	return s.End(stage)
}

// Stages returns completed stages in completion order.
func (s *Session) Stages() []Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Stage, len(s.stages))
	copy(out, s.stages)
	return out
}

// Total is the wall time since the session was created.
func (s *Session) Total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.started)
}

// Log writes one debug record with every completed stage.
func (s *Session) Log(l *logger.Logger) {
	args := []any{"session", s.name, "total_ms", s.Total().Milliseconds()}
	for _, st := range s.Stages() {
		args = append(args, st.Name+"_ms", st.Duration.Milliseconds())
	}
	l.Debug("Timing: session finished", args...)
}
