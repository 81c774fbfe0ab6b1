package study

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/mentori/core"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

const tickInterval = time.Second

var (
	// errors
	ErrTimerActive     = core.NewConflictError("a study session is already in progress")
	ErrTimerIdle       = core.NewConflictError("no study session in progress")
	ErrTimerNotRunning = core.NewConflictError("the study session is not running")
	ErrTimerNotPaused  = core.NewConflictError("the study session is not paused")
	ErrTimerSaving     = core.NewConflictError("the study session is being saved")
	ErrInvalidSubject  = errors.New("unknown subject")

	newTicker = func(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} } // mockable

	savedSeconds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentori",
		Name:      "study_seconds_saved_total",
		Help:      "Study time persisted from timers, by subject.",
	}, []string{"subject"})
)

func init() {
	prometheus.MustRegister(savedSeconds)
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

type Status struct {
	State          State  `json:"state"`
	Subject        string `json:"subject,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// Recorder persists saved sessions.
type Recorder interface {
	Record(ctx context.Context, menteeID string, ns NewSession) (Session, error)
}

// Timer tracks one in-progress single-subject study session.
// Each tick adds exactly one second while running; the ticker goroutine is stopped on every transition out of running.
type Timer struct {
	menteeID string
	recorder Recorder
	loc      *time.Location

	mu      sync.Mutex
	state   State
	subject string
	elapsed int64
	gen     uint64 // invalidates ticks of a stopped ticker
	stop    chan struct{}
	saving  bool // a Save is persisting; other transitions are rejected
	closed  bool
}

func NewTimer(menteeID string, recorder Recorder, loc *time.Location) *Timer {
	return &Timer{menteeID: menteeID, recorder: recorder, loc: loc, state: StateIdle}
}

// startTicking must be called with t.mu held.
func (t *Timer) startTicking() {
	t.gen++
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop
	tk := newTicker(tickInterval)
	go t.run(tk, gen, stop)
}

// stopTicking must be called with t.mu held.
func (t *Timer) stopTicking() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.gen++
}

func (t *Timer) run(tk Ticker, gen uint64, stop <-chan struct{}) {
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C():
			t.mu.Lock()
			if t.gen == gen && t.state == StateRunning {
				t.elapsed++
			}
			t.mu.Unlock()
		}
	}
}

func (t *Timer) reset() {
	t.state = StateIdle
	t.subject = ""
	t.elapsed = 0
}

func (t *Timer) status() Status {
	return Status{State: t.state, Subject: t.subject, ElapsedSeconds: t.elapsed}
}

func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status()
}

// Start begins a session for subject. Fails with ErrTimerActive, leaving the timer untouched, unless idle.
func (t *Timer) Start(subject string) (Status, error) {
	subject = core.CleanString(subject)
	if !core.IsKnownSubject(subject) && subject != core.SubjectOther {
		return Status{}, core.NewValidationError(ErrInvalidSubject, core.FieldError{Field: "subject", Error: ErrInvalidSubject.Error()})
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saving {
		return t.status(), ErrTimerSaving
	}
	if t.state != StateIdle {
		return t.status(), ErrTimerActive
	}
	t.state = StateRunning
	t.subject = subject
	t.elapsed = 0
	t.startTicking()
	return t.status(), nil
}

func (t *Timer) Pause() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saving {
		return t.status(), ErrTimerSaving
	}
	if t.state != StateRunning {
		return t.status(), ErrTimerNotRunning
	}
	t.stopTicking()
	t.state = StatePaused
	return t.status(), nil
}

func (t *Timer) Resume() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saving {
		return t.status(), ErrTimerSaving
	}
	if t.state != StatePaused {
		return t.status(), ErrTimerNotPaused
	}
	t.state = StateRunning
	t.startTicking()
	return t.status(), nil
}

// Save persists the elapsed time as a Session dated today and resets the timer.
// The timer stops counting and is not locked while the session is written, so Status stays responsive;
// other transitions fail with ErrTimerSaving until the write returns.
// When persistence fails the timer keeps its state and elapsed time.
func (t *Timer) Save(ctx context.Context) (Session, error) {
	t.mu.Lock()
	if t.saving {
		t.mu.Unlock()
		return Session{}, ErrTimerSaving
	}
	if t.state == StateIdle {
		t.mu.Unlock()
		return Session{}, ErrTimerIdle
	}
	wasRunning := t.state == StateRunning
	t.stopTicking()
	t.saving = true
	ns := NewSession{
		Subject:         t.subject,
		DurationSeconds: t.elapsed,
		SessionDate:     core.Today(t.loc),
	}
	t.mu.Unlock()

	sess, err := t.recorder.Record(ctx, t.menteeID, ns)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.saving = false
	if err != nil {
		if wasRunning && !t.closed {
			t.startTicking()
		}
		return Session{}, errors.Wrap(err, "recording study session")
	}

	savedSeconds.WithLabelValues(ns.Subject).Add(float64(ns.DurationSeconds))
	t.reset()
	return sess, nil
}

// Cancel discards the session in progress.
func (t *Timer) Cancel() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saving {
		return t.status(), ErrTimerSaving
	}
	if t.state == StateIdle {
		return t.status(), ErrTimerIdle
	}
	t.stopTicking()
	t.reset()
	return t.status(), nil
}

// Close stops the ticker without changing the state.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.stopTicking()
}

// Timers holds one Timer per mentee.
type Timers struct {
	recorder Recorder
	loc      *time.Location

	mu     sync.Mutex
	timers map[string]*Timer
}

func NewTimers(recorder Recorder, loc *time.Location) *Timers {
	return &Timers{recorder: recorder, loc: loc, timers: make(map[string]*Timer)}
}

// Get returns the mentee's timer, creating an idle one on first use.
func (ts *Timers) Get(menteeID string) *Timer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.timers[menteeID]
	if !ok {
		t = NewTimer(menteeID, ts.recorder, ts.loc)
		ts.timers[menteeID] = t
	}
	return t
}

func (ts *Timers) Close() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, t := range ts.timers {
		t.Close()
	}
}
