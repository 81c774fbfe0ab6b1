package study

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core"
)

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeRecorder struct {
	mu       sync.Mutex
	sessions []NewSession
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, menteeID string, ns NewSession) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Session{}, r.err
	}
	r.sessions = append(r.sessions, ns)
	return Session{ID: "s", MenteeID: menteeID, Subject: ns.Subject, DurationSeconds: ns.DurationSeconds, SessionDate: ns.SessionDate}, nil
}

// useFakeTickers replaces newTicker and returns a channel receiving every created ticker.
func useFakeTickers(t *testing.T) <-chan *fakeTicker {
	created := make(chan *fakeTicker, 10)
	orig := newTicker
	newTicker = func(time.Duration) Ticker {
		tk := &fakeTicker{ch: make(chan time.Time)}
		created <- tk
		return tk
	}
	t.Cleanup(func() { newTicker = orig })
	return created
}

func tick(tk *fakeTicker, n int) {
	for i := 0; i < n; i++ {
		tk.ch <- time.Now()
	}
}

func waitElapsed(t *testing.T, timer *Timer, want int64) {
	assert.Eventually(t, func() bool { return timer.Status().ElapsedSeconds == want }, time.Second, time.Millisecond)
}

func TestTimer_startWhileActiveIsRejected(t *testing.T) {
	tickers := useFakeTickers(t)
	timer := NewTimer("mentee", &fakeRecorder{}, time.UTC)
	defer timer.Close()

	_, err := timer.Start(core.SubjectMath)
	require.NoError(t, err)
	tick(<-tickers, 3)
	waitElapsed(t, timer, 3)

	st, err := timer.Start(core.SubjectEnglish)
	assert.Equal(t, ErrTimerActive, err)
	assert.Equal(t, Status{State: StateRunning, Subject: core.SubjectMath, ElapsedSeconds: 3}, st)
	assert.Equal(t, st, timer.Status())

	_, err = timer.Pause()
	require.NoError(t, err)
	_, err = timer.Start(core.SubjectEnglish)
	assert.Equal(t, ErrTimerActive, err)
	assert.Equal(t, Status{State: StatePaused, Subject: core.SubjectMath, ElapsedSeconds: 3}, timer.Status())
}

func TestTimer_pauseResumeSave(t *testing.T) {
	core.NowFunc = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }
	defer func() { core.NowFunc = time.Now }()

	tickers := useFakeTickers(t)
	rec := &fakeRecorder{}
	timer := NewTimer("mentee", rec, time.UTC)
	defer timer.Close()

	_, err := timer.Start(core.SubjectKorean)
	require.NoError(t, err)
	first := <-tickers
	tick(first, 2)
	waitElapsed(t, timer, 2)

	st, err := timer.Pause()
	require.NoError(t, err)
	assert.Equal(t, StatePaused, st.State)
	assert.Eventually(t, first.isStopped, time.Second, time.Millisecond)

	_, err = timer.Pause()
	assert.Equal(t, ErrTimerNotRunning, err)

	_, err = timer.Resume()
	require.NoError(t, err)
	second := <-tickers
	tick(second, 3)
	waitElapsed(t, timer, 5)

	sess, err := timer.Save(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, sess.DurationSeconds)
	assert.Equal(t, core.SubjectKorean, sess.Subject)
	assert.Equal(t, core.Date("2024-03-05"), sess.SessionDate)
	assert.Equal(t, Status{State: StateIdle}, timer.Status())
	assert.Eventually(t, second.isStopped, time.Second, time.Millisecond)
	require.Len(t, rec.sessions, 1)

	_, err = timer.Save(context.Background())
	assert.Equal(t, ErrTimerIdle, err)
}

func TestTimer_saveFailureKeepsState(t *testing.T) {
	tickers := useFakeTickers(t)
	rec := &fakeRecorder{err: errors.New("db down")}
	timer := NewTimer("mentee", rec, time.UTC)
	defer timer.Close()

	_, err := timer.Start(core.SubjectOther)
	require.NoError(t, err)
	tick(<-tickers, 4)
	waitElapsed(t, timer, 4)

	_, err = timer.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, Status{State: StateRunning, Subject: core.SubjectOther, ElapsedSeconds: 4}, timer.Status())

	// still counting on a fresh ticker
	tick(<-tickers, 1)
	waitElapsed(t, timer, 5)

	_, err = timer.Pause()
	require.NoError(t, err)
	_, err = timer.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, Status{State: StatePaused, Subject: core.SubjectOther, ElapsedSeconds: 5}, timer.Status())
	assert.Empty(t, rec.sessions)
}

// blockingRecorder holds Record until release is closed.
type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRecorder) Record(_ context.Context, menteeID string, ns NewSession) (Session, error) {
	close(r.entered)
	<-r.release
	return Session{ID: "s", MenteeID: menteeID, Subject: ns.Subject, DurationSeconds: ns.DurationSeconds, SessionDate: ns.SessionDate}, nil
}

func TestTimer_saveDoesNotBlockStatus(t *testing.T) {
	tickers := useFakeTickers(t)
	rec := &blockingRecorder{entered: make(chan struct{}), release: make(chan struct{})}
	timer := NewTimer("mentee", rec, time.UTC)
	defer timer.Close()

	_, err := timer.Start(core.SubjectMath)
	require.NoError(t, err)
	tick(<-tickers, 3)
	waitElapsed(t, timer, 3)

	type result struct {
		sess Session
		err  error
	}
	done := make(chan result, 1)
	go func() {
		sess, err := timer.Save(context.Background())
		done <- result{sess, err}
	}()
	<-rec.entered

	// the write is in flight
	assert.Equal(t, Status{State: StateRunning, Subject: core.SubjectMath, ElapsedSeconds: 3}, timer.Status())
	for name, action := range map[string]func() (Status, error){"pause": timer.Pause, "resume": timer.Resume, "cancel": timer.Cancel} {
		_, err := action()
		assert.Equal(t, ErrTimerSaving, err, name)
	}
	_, err = timer.Start(core.SubjectKorean)
	assert.Equal(t, ErrTimerSaving, err)
	_, err = timer.Save(context.Background())
	assert.Equal(t, ErrTimerSaving, err)

	close(rec.release)
	res := <-done
	require.NoError(t, res.err)
	assert.EqualValues(t, 3, res.sess.DurationSeconds)
	assert.Equal(t, Status{State: StateIdle}, timer.Status())
}

func TestTimer_cancelDiscards(t *testing.T) {
	tickers := useFakeTickers(t)
	rec := &fakeRecorder{}
	timer := NewTimer("mentee", rec, time.UTC)
	defer timer.Close()

	_, err := timer.Cancel()
	assert.Equal(t, ErrTimerIdle, err)

	_, err = timer.Start(core.SubjectMath)
	require.NoError(t, err)
	tk := <-tickers
	tick(tk, 2)
	waitElapsed(t, timer, 2)

	st, err := timer.Cancel()
	require.NoError(t, err)
	assert.Equal(t, Status{State: StateIdle}, st)
	assert.Eventually(t, tk.isStopped, time.Second, time.Millisecond)
	assert.Empty(t, rec.sessions)
}

func TestTimer_unknownSubject(t *testing.T) {
	timer := NewTimer("mentee", &fakeRecorder{}, time.UTC)
	_, err := timer.Start("과학")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, StateIdle, timer.Status().State)
}

func TestTimers_Get(t *testing.T) {
	ts := NewTimers(&fakeRecorder{}, time.UTC)
	defer ts.Close()

	a := ts.Get("a")
	assert.Same(t, a, ts.Get("a"))
	assert.NotSame(t, a, ts.Get("b"))
}
