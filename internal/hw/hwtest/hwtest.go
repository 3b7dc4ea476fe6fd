// internal/hw/hwtest/hwtest.go

// Package hwtest provides deterministic stand-ins for the hw capabilities:
// a clock that advances on every reading, a pin that records its levels,
// and a serial port driven by a script.
package hwtest

import (
	"sync"
	"time"
)

// StepClock advances by Step every time it is read, so busy-waits terminate
// without real time passing.
type StepClock struct {
	T    time.Time
	Step time.Duration
}

// NewStepClock starts at a fixed instant.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Step: step}
}

func (c *StepClock) Now() time.Time {
	c.T = c.T.Add(c.Step)
	return c.T
}

func (c *StepClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance moves the clock without counting as a reading.
func (c *StepClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// PinEvent is one level change.
type PinEvent struct {
	High bool
	At   time.Time
}

// RecordingPin remembers every level it was driven to.
// When Clock is set, events are timestamped from it.
type RecordingPin struct {
	Clock  *StepClock
	Events []PinEvent
	Err    error
}

func (p *RecordingPin) High() error { return p.set(true) }

func (p *RecordingPin) Low() error { return p.set(false) }

func (p *RecordingPin) set(high bool) error {
	if p.Err != nil {
		return p.Err
	}
	ev := PinEvent{High: high}
	if p.Clock != nil {
		ev.At = p.Clock.T
	}
	p.Events = append(p.Events, ev)
	return nil
}

// Level reports the last driven level (false if never driven).
func (p *RecordingPin) Level() bool {
	if len(p.Events) == 0 {
		return false
	}
	return p.Events[len(p.Events)-1].High
}

// ScriptedPort is an in-memory serial line. Bytes queued with Queue are
// returned by Read one chunk at a time; a nil chunk makes one Read come back
// empty. OnWrite, when set, answers each written frame.
type ScriptedPort struct {
	mu      sync.Mutex
	chunks  [][]byte
	Written [][]byte
	OnWrite func(frame []byte) [][]byte
	ReadErr error
	WriteErr error
}

// Queue appends chunks to the receive side.
func (p *ScriptedPort) Queue(chunks ...[]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks = append(p.chunks, chunks...)
}

// Pending reports the number of queued chunks.
func (p *ScriptedPort) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.chunks)
}

func (p *ScriptedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.chunks) == 0 {
		return 0, p.ReadErr
	}
	c := p.chunks[0]
	if c == nil {
		p.chunks = p.chunks[1:]
		return 0, nil
	}
	n := copy(b, c)
	if n < len(c) {
		p.chunks[0] = c[n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *ScriptedPort) Write(b []byte) (int, error) {
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}
	frame := append([]byte(nil), b...)
	p.mu.Lock()
	p.Written = append(p.Written, frame)
	onWrite := p.OnWrite
	p.mu.Unlock()
	if onWrite != nil {
		p.Queue(onWrite(frame)...)
	}
	return len(b), nil
}
