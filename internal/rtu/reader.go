// internal/rtu/reader.go
package rtu

import (
	"io"
	"time"

	"github.com/tamzrod/humidity-actuator/internal/hw"
)

const (
	DefaultTimeout = 300 * time.Millisecond
	DefaultGap     = 20 * time.Millisecond
)

// Reader captures one response. RTU frames carry no length field, so the
// end of a frame is either the expected length, an inter-byte silence
// longer than Gap, or the absolute Timeout.
type Reader struct {
	src   io.Reader
	clock hw.Clock

	Timeout time.Duration
	Gap     time.Duration
}

func NewReader(src io.Reader, clock hw.Clock) *Reader {
	return &Reader{
		src:     src,
		clock:   clock,
		Timeout: DefaultTimeout,
		Gap:     DefaultGap,
	}
}

// Capture fills buf and returns the number of bytes captured.
// expected <= 0 disables the length fast path. err is the last read
// error seen, if any; it does not stop the capture.
func (r *Reader) Capture(buf []byte, expected int) (n int, err error) {
	t0 := r.clock.Now()
	last := t0
	for n < len(buf) && r.clock.Since(t0) < r.Timeout {
		m, rerr := r.src.Read(buf[n:])
		if rerr != nil {
			err = rerr
		}
		if m > 0 {
			n += m
			last = r.clock.Now()
			if expected > 0 && n >= expected {
				break
			}
			continue
		}
		if n > 0 && r.clock.Since(last) > r.Gap {
			break
		}
	}
	return n, err
}
