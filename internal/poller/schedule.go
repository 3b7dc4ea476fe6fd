// internal/poller/schedule.go
package poller

import "time"

// Start arms the schedule: the first poll is due one interval after now.
func (p *Poller) Start(now time.Time) {
	p.next = now.Add(p.cfg.Interval)
}

// Due reports whether a poll is due at now and, if so, advances the
// schedule. Missed periods are not made up: after a stall the next poll is
// one interval after now.
func (p *Poller) Due(now time.Time) bool {
	if p.next.IsZero() {
		p.Start(now)
		return false
	}
	if now.Before(p.next) {
		return false
	}
	p.next = p.next.Add(p.cfg.Interval)
	if !p.next.After(now) {
		p.next = now.Add(p.cfg.Interval)
	}
	return true
}
