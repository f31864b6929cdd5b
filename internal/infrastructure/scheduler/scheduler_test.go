package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name string
	runs chan struct{}
	err  error
}

func (j *fakeJob) Name() string        { return j.name }
func (j *fakeJob) Description() string { return "test job" }
func (j *fakeJob) Run(ctx context.Context) error {
	if j.runs != nil {
		j.runs <- struct{}{}
	}
	return j.err
}

// fixedSchedule fires at exactly one instant.
type fixedSchedule struct {
	at time.Time
}

func (s fixedSchedule) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}

func (s fixedSchedule) String() string { return "fixed" }

func TestRegister(t *testing.T) {
	s := New(nil)
	sched := fixedSchedule{at: time.Now().Add(time.Hour)}

	require.NoError(t, s.Register(&fakeJob{name: "a"}, sched))

	assert.ErrorIs(t, s.Register(&fakeJob{name: "a"}, sched), ErrJobAlreadyExists)
	assert.ErrorIs(t, s.Register(nil, sched), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "b"}, nil), ErrNilSchedule)
}

func TestStartStop(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestCheckAndRunJobs_DispatchesDueJobs(t *testing.T) {
	s := New(nil)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	due := &fakeJob{name: "due", runs: make(chan struct{}, 1)}
	notDue := &fakeJob{name: "later", runs: make(chan struct{}, 1)}

	require.NoError(t, s.Register(due, fixedSchedule{at: time.Now().Add(-time.Minute)}))
	require.NoError(t, s.Register(notDue, fixedSchedule{at: time.Now().Add(time.Hour)}))

	s.checkAndRunJobs()

	select {
	case <-due.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("due job did not run")
	}
	select {
	case <-notDue.runs:
		t.Fatal("job ran before its schedule")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCheckAndRunJobs_AdvancesNextRunBeforeDispatch(t *testing.T) {
	s := New(nil)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	job := &fakeJob{name: "once", runs: make(chan struct{}, 2)}
	require.NoError(t, s.Register(job, fixedSchedule{at: time.Now().Add(-time.Minute)}))

	s.checkAndRunJobs()
	s.checkAndRunJobs() // nextRun is now zero, nothing more fires

	select {
	case <-job.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	select {
	case <-job.runs:
		t.Fatal("job double-fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunJob_ContainsPanics(t *testing.T) {
	s := New(nil)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	panicky := &panicJob{}
	require.NoError(t, s.Register(panicky, fixedSchedule{at: time.Now().Add(-time.Minute)}))

	// Must not crash the test process.
	s.checkAndRunJobs()
	s.wg.Wait()

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, int64(1), infos[0].FailCount)
}

type panicJob struct{}

func (j *panicJob) Name() string                { return "panics" }
func (j *panicJob) Description() string         { return "always panics" }
func (j *panicJob) Run(_ context.Context) error { panic("boom") }

func TestListJobs(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Register(&fakeJob{name: "a"}, fixedSchedule{at: time.Now().Add(time.Hour)}))

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, "fixed", infos[0].Schedule)
	assert.Equal(t, int64(0), infos[0].RunCount)
}
