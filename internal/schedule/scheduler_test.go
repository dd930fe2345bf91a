package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blockingJob struct {
	mu      sync.Mutex
	runs    int
	release chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.release != nil {
		<-j.release
	}
	return nil
}

func TestAddJobBadSpec(t *testing.T) {
	s := NewCronScheduler()
	err := s.AddJob(&blockingJob{}, "not a cron spec")
	require.Error(t, err)
}

func TestAddJobFiveFieldSpec(t *testing.T) {
	s := NewCronScheduler()
	require.NoError(t, s.AddJob(&blockingJob{}, "0 3 * * *"))
	// Six-field (seconds) specs are rejected.
	require.Error(t, s.AddJob(&blockingJob{}, "0 0 3 * * *"))
}

func TestWrapSkipsOverlappingRuns(t *testing.T) {
	s := NewCronScheduler()
	job := &blockingJob{release: make(chan struct{})}
	wrapped := s.wrap(job, "* * * * *")

	done := make(chan struct{})
	go func() {
		wrapped()
		close(done)
	}()

	// Wait until the first run is inside Run, then fire again.
	require.Eventually(t, func() bool {
		job.mu.Lock()
		defer job.mu.Unlock()
		return job.runs == 1
	}, time.Second, time.Millisecond)

	wrapped()
	job.mu.Lock()
	require.Equal(t, 1, job.runs)
	job.mu.Unlock()

	close(job.release)
	<-done

	wrapped()
	job.mu.Lock()
	require.Equal(t, 2, job.runs)
	job.mu.Unlock()
}
