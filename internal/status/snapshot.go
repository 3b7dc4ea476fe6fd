// internal/status/snapshot.go
package status

import (
	"time"

	"github.com/tamzrod/humidity-actuator/internal/rtu"
)

// Snapshot represents exactly what the writers are allowed to deliver.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Tracker folds transaction outcomes into a Snapshot.
type Tracker struct {
	snap       Snapshot
	errorSince time.Time
}

// Observe records the outcome of the humidity transaction at now.
func (t *Tracker) Observe(err error, now time.Time) Snapshot {
	if err == nil {
		t.snap = Snapshot{Health: HealthOK}
		t.errorSince = time.Time{}
		return t.snap
	}

	if t.snap.Health != HealthError {
		t.errorSince = now
	}
	t.snap.Health = HealthError
	t.snap.LastErrorCode = rtu.Code(err)

	secs := int64(now.Sub(t.errorSince) / time.Second)
	if secs > MaxSecondsInError {
		secs = MaxSecondsInError
	}
	t.snap.SecondsInError = uint16(secs)
	return t.snap
}

// Snapshot returns the current state without observing anything.
func (t *Tracker) Snapshot() Snapshot { return t.snap }
