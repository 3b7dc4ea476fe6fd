// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/humidity-actuator/internal/status"
)

// endpointClient is the exact contract the mirror uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// MirrorPlan places the status block on a Modbus TCP server.
type MirrorPlan struct {
	Endpoint   string
	UnitID     uint8
	Address    uint16
	DeviceName string
}

// Mirror writes the status block into holding registers.
// The first write (and the first after any failure) asserts the full
// block; afterwards only the span of changed registers is written.
type Mirror struct {
	plan MirrorPlan
	cli  endpointClient

	needFull bool
	last     []uint16
}

func NewMirror(plan MirrorPlan, cli endpointClient) *Mirror {
	return &Mirror{
		plan:     plan,
		cli:      cli,
		needFull: true,
	}
}

func (m *Mirror) Write(rec Record) error {
	if m == nil || m.cli == nil {
		return errors.New("mirror: disabled")
	}

	regs := status.Encode(status.Block{
		Snapshot:   rec.Snapshot,
		Reading:    rec.Reading,
		State:      rec.State,
		DeviceName: m.plan.DeviceName,
	})

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if m.needFull {
		if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.Address, regs); err != nil {
			return fmt.Errorf("mirror: full block write failed: %w", err)
		}
		m.needFull = false
		m.last = regs
		return nil
	}

	first, last := changedSpan(m.last, regs)
	if first < 0 {
		return nil
	}
	if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.Address+uint16(first), regs[first:last+1]); err != nil {
		// Any failure introduces doubt: re-assert on next write.
		m.needFull = true
		return fmt.Errorf("mirror: write slots %d-%d failed: %w", first, last, err)
	}
	m.last = regs
	return nil
}

// changedSpan returns the first and last differing index, or -1, -1.
func changedSpan(prev, next []uint16) (int, int) {
	first, last := -1, -1
	for i := range next {
		if i < len(prev) && prev[i] == next[i] {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}
