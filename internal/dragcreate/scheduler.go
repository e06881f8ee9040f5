package dragcreate

import (
	"sync"
	"time"
)

// FrameInterval approximates one display frame
const FrameInterval = 16 * time.Millisecond

// Timer is a pending one-shot callback. Stop is idempotent.
type Timer interface {
	Stop()
}

// Frame is a repeating per-frame callback. Stop is idempotent.
type Frame interface {
	Stop()
}

// Scheduler abstracts time so the state machine can be driven by hand in tests
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	RequestFrame(fn func()) Frame
}

// RealScheduler runs callbacks on wall-clock time
type RealScheduler struct{}

var _ Scheduler = RealScheduler{}

type realTimer struct {
	t *time.Timer
}

func (r *realTimer) Stop() {
	r.t.Stop()
}

// AfterFunc calls fn once after d
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return &realTimer{t: time.AfterFunc(d, fn)}
}

type realFrame struct {
	stop chan struct{}
	once sync.Once
}

func (f *realFrame) Stop() {
	f.once.Do(func() { close(f.stop) })
}

// RequestFrame calls fn every FrameInterval until the frame is stopped
func (RealScheduler) RequestFrame(fn func()) Frame {
	f := &realFrame{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(FrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-f.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return f
}
