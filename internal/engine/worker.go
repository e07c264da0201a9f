package engine

import (
	"log"
	"time"
)

// recomputeJob identifies one similarity row to rebuild. Exactly one of
// User/Item is set.
type recomputeJob struct {
	User string
	Item string
}

// recomputeWorker runs similarity recomputation out-of-band so writers never
// pay the O(n) cost inline. Jobs are coalesced: repeated triggers for the
// same row within the debounce window collapse into a single rebuild.
type recomputeWorker struct {
	jobs     chan recomputeJob
	flush    chan chan struct{}
	stop     chan struct{}
	done     chan struct{}
	debounce time.Duration
	run      func(job recomputeJob)
}

func newRecomputeWorker(queueSize int, debounce time.Duration, run func(recomputeJob)) *recomputeWorker {
	w := &recomputeWorker{
		jobs:     make(chan recomputeJob, queueSize),
		flush:    make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		debounce: debounce,
		run:      run,
	}
	go w.loop()
	return w
}

// enqueue hands a job to the worker. Blocks only if the buffer is full,
// which means the worker is badly behind.
func (w *recomputeWorker) enqueue(job recomputeJob) {
	select {
	case w.jobs <- job:
	case <-w.stop:
	}
}

// flushAll drains everything queued and waits for the recomputes to finish.
// Used by tests and shutdown.
func (w *recomputeWorker) flushAll() {
	ack := make(chan struct{})
	select {
	case w.flush <- ack:
		<-ack
	case <-w.done:
	}
}

func (w *recomputeWorker) shutdown() {
	close(w.stop)
	<-w.done
}

func (w *recomputeWorker) loop() {
	defer close(w.done)

	pending := make(map[recomputeJob]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	runPending := func() {
		for job := range pending {
			w.run(job)
		}
		if n := len(pending); n > 1 {
			log.Printf("similarity: recomputed %d rows", n)
		}
		pending = make(map[recomputeJob]struct{})
		if timer != nil {
			timer.Stop()
			timer = nil
			fire = nil
		}
	}

	drain := func() {
		for {
			select {
			case job := <-w.jobs:
				pending[job] = struct{}{}
			default:
				return
			}
		}
	}

	for {
		select {
		case job := <-w.jobs:
			pending[job] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}
		case <-fire:
			timer = nil
			fire = nil
			runPending()
		case ack := <-w.flush:
			drain()
			runPending()
			close(ack)
		case <-w.stop:
			drain()
			runPending()
			return
		}
	}
}
