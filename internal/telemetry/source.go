// internal/telemetry/source.go
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Measurement is where the joined process rows are stored.
const Measurement = "process_join"

// Row is one pivoted row: field name to value.
type Row struct {
	Time   time.Time
	Fields map[string]float64
}

// Source yields the most recent row. ok is false when the window is empty.
type Source interface {
	Last(ctx context.Context) (row Row, ok bool, err error)
}

// InfluxSource queries InfluxDB v2 with Flux.
type InfluxSource struct {
	api    api.QueryAPI
	bucket string
	window time.Duration
}

func NewInfluxSource(q api.QueryAPI, bucket string, window time.Duration) *InfluxSource {
	return &InfluxSource{api: q, bucket: bucket, window: window}
}

// LastRowQuery selects the last value of every field of measurement
// within window and pivots them into a single row.
func LastRowQuery(bucket, measurement string, window time.Duration) string {
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%ds)
  |> filter(fn: (r) => r._measurement == %q)
  |> last()
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`,
		bucket, int64(window/time.Second), measurement)
}

func (s *InfluxSource) Last(ctx context.Context) (Row, bool, error) {
	res, err := s.api.Query(ctx, LastRowQuery(s.bucket, Measurement, s.window))
	if err != nil {
		return Row{}, false, fmt.Errorf("influx query: %w", err)
	}
	defer res.Close()

	for res.Next() {
		if row, ok := rowFromValues(res.Record().Values()); ok {
			return row, true, nil
		}
	}
	if err := res.Err(); err != nil {
		return Row{}, false, fmt.Errorf("influx result: %w", err)
	}
	return Row{}, false, nil
}

// rowFromValues keeps the numeric columns of a pivoted record. Records
// without a _time column are not rows.
func rowFromValues(values map[string]interface{}) (Row, bool) {
	t, ok := values["_time"].(time.Time)
	if !ok {
		return Row{}, false
	}
	row := Row{Time: t, Fields: map[string]float64{}}
	for k, v := range values {
		switch n := v.(type) {
		case float64:
			row.Fields[k] = n
		case int64:
			row.Fields[k] = float64(n)
		case uint64:
			row.Fields[k] = float64(n)
		}
	}
	return row, true
}
