// Package alarm provides a one-shot deadline that cancels a blocking read.
package alarm

import (
	"sync/atomic"
	"time"
)

// Deadline states. Fired is terminal: once the alarm has gone off, nothing
// may transition it back.
const (
	stateArmed int32 = iota
	stateFired
	stateDisarmed
)

// Alarm is a one-shot cancellation deadline. The expiry callback performs a
// single atomic state transition and then pokes the interrupt hook; all
// other timeout handling happens synchronously in the caller.
type Alarm struct {
	state atomic.Int32
	timer *time.Timer
}

// Set arms an alarm that expires after d, measured from now. On expiry the
// interrupt hook is invoked once; it must return quickly and must not block,
// its only job being to unstick an in-progress read.
func Set(d time.Duration, interrupt func()) *Alarm {
	a := &Alarm{}
	a.state.Store(stateArmed)
	a.timer = time.AfterFunc(d, func() {
		if a.state.CompareAndSwap(stateArmed, stateFired) {
			interrupt()
		}
	})
	return a
}

// Stop disarms a pending alarm. An alarm that already fired stays fired;
// stopping it again is a no-op.
func (a *Alarm) Stop() {
	a.state.CompareAndSwap(stateArmed, stateDisarmed)
	a.timer.Stop()
}

// Fired reports whether the alarm expired before being stopped.
func (a *Alarm) Fired() bool {
	return a.state.Load() == stateFired
}
