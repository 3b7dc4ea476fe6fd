// internal/telemetry/relay.go
package telemetry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Relay republishes the latest stored row on a fixed interval.
type Relay struct {
	Source    Source
	Publisher Publisher
	Interval  time.Duration
	Log       *logrus.Entry
}

// Tick runs one query-and-publish. An empty window publishes nothing.
// Errors are returned so the caller decides how loud to be; the next tick
// is the retry.
func (r *Relay) Tick(ctx context.Context) (published bool, err error) {
	row, ok, err := r.Source.Last(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	payload, err := EncodePayload(row)
	if err != nil {
		return false, err
	}
	if err := r.Publisher.Publish(payload); err != nil {
		return false, err
	}

	p := Payload(row)
	r.Log.WithFields(logrus.Fields{
		"row_time":    row.Time,
		"sens_temp_c": p["sens_temp_c"],
		"sens_rh_pct": p["sens_rh_pct"],
	}).Info("published")
	return true, nil
}

// Run ticks immediately and then every Interval until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		published, err := r.Tick(ctx)
		switch {
		case err != nil:
			r.Log.WithError(err).Warn("relay tick failed")
		case !published:
			r.Log.WithField("measurement", Measurement).Warn("no data in window")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
