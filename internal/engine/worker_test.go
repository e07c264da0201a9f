package engine

import (
	"testing"
	"time"
)

func TestWorkerCoalescesDuplicateJobs(t *testing.T) {
	counts := make(map[recomputeJob]int)
	w := newRecomputeWorker(16, time.Hour, func(job recomputeJob) {
		counts[job]++
	})
	defer w.shutdown()

	for i := 0; i < 5; i++ {
		w.enqueue(recomputeJob{User: "u"})
	}
	w.enqueue(recomputeJob{Item: "x"})
	w.flushAll()

	if got := counts[recomputeJob{User: "u"}]; got != 1 {
		t.Errorf("user job ran %d times, want 1", got)
	}
	if got := counts[recomputeJob{Item: "x"}]; got != 1 {
		t.Errorf("item job ran %d times, want 1", got)
	}
}

func TestWorkerFlushBeforeDebounce(t *testing.T) {
	ran := make(map[recomputeJob]bool)
	w := newRecomputeWorker(16, time.Hour, func(job recomputeJob) {
		ran[job] = true
	})
	defer w.shutdown()

	w.enqueue(recomputeJob{User: "u"})
	w.flushAll()
	if !ran[recomputeJob{User: "u"}] {
		t.Error("flush did not force the pending job through the debounce window")
	}
}

func TestWorkerDebounceFiresOnItsOwn(t *testing.T) {
	done := make(chan recomputeJob, 1)
	w := newRecomputeWorker(16, time.Millisecond, func(job recomputeJob) {
		done <- job
	})
	defer w.shutdown()

	w.enqueue(recomputeJob{User: "u"})
	select {
	case job := <-done:
		if job.User != "u" {
			t.Errorf("ran %+v, want user u", job)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced job never ran")
	}
}

func TestWorkerShutdownDrainsQueue(t *testing.T) {
	ran := make(map[recomputeJob]bool)
	w := newRecomputeWorker(16, time.Hour, func(job recomputeJob) {
		ran[job] = true
	})

	w.enqueue(recomputeJob{User: "u"})
	w.shutdown()
	if !ran[recomputeJob{User: "u"}] {
		t.Error("shutdown dropped a queued job")
	}

	// Post-shutdown calls return instead of blocking.
	w.enqueue(recomputeJob{User: "late"})
	w.flushAll()
	if ran[recomputeJob{User: "late"}] {
		t.Error("job enqueued after shutdown still ran")
	}
}
