package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRequester struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRequester) RequestWarmAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

type recordingPruner struct {
	kept []string
}

func (p *recordingPruner) Prune(keep []string) (int, error) {
	p.kept = keep
	return 2, nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 */6 * * *"))
	assert.Error(t, ValidateCronSchedule("every six hours"))
	assert.Error(t, ValidateCronSchedule("0 0 */6 * * *"), "seconds field is not accepted")

	from := time.Date(2024, time.March, 1, 7, 30, 0, 0, time.UTC)
	next, err := NextRunTime("0 */6 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), next)
}

func TestRunOnce(t *testing.T) {
	requester := &countingRequester{}
	pruner := &recordingPruner{}
	s := NewCoverWarmScheduler("0 */6 * * *", requester, pruner, func() []string { return []string{"b1", "b2"} })

	s.RunOnce(context.Background())

	assert.Equal(t, 1, requester.calls)
	assert.Equal(t, []string{"b1", "b2"}, pruner.kept)
	assert.False(t, s.LastRun().IsZero())
}

func TestRunOnce_RequestErrorIsLogged(t *testing.T) {
	requester := &countingRequester{err: errors.New("queue closed")}
	s := NewCoverWarmScheduler("0 */6 * * *", requester, nil, nil)

	s.RunOnce(context.Background())
	assert.Equal(t, 1, requester.calls)
}

func TestStartStop(t *testing.T) {
	s := NewCoverWarmScheduler("0 */6 * * *", &countingRequester{}, nil, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.GetNextRunTime())
	assert.True(t, s.GetNextRunTime().After(time.Now()))

	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewCoverWarmScheduler("nope", &countingRequester{}, nil, nil)
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestStart_WithoutRequester(t *testing.T) {
	s := NewCoverWarmScheduler("0 */6 * * *", nil, nil, nil)
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestStopOnContextCancel(t *testing.T) {
	s := NewCoverWarmScheduler("0 */6 * * *", &countingRequester{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
