// internal/writer/influx/writer.go
package influx

import (
	"errors"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/writer"
)

// pointWriter is the part of api.WriteAPI the writer uses.
type pointWriter interface {
	WritePoint(p *write.Point)
}

// Config selects the bucket and names the series.
type Config struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
	Device      string
}

// Writer turns records into points. WritePoint only queues: batching and
// delivery happen on the client's goroutine, never on the control loop.
type Writer struct {
	api         pointWriter
	measurement string
	tags        map[string]string
}

// New connects the async write API. Delivery errors are logged on log.
// The returned close function flushes pending points.
func New(cfg Config, log *logrus.Entry) (*Writer, func() error, error) {
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, nil, errors.New("writer influx: url and bucket required")
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	wapi := client.WriteAPI(cfg.Org, cfg.Bucket)

	go func() {
		for err := range wapi.Errors() {
			log.WithError(err).Warn("influx write failed")
		}
	}()

	closer := func() error {
		wapi.Flush()
		client.Close()
		return nil
	}
	return newWriter(wapi, cfg), closer, nil
}

func newWriter(api pointWriter, cfg Config) *Writer {
	tags := map[string]string{}
	if cfg.Device != "" {
		tags["device"] = cfg.Device
	}
	return &Writer{api: api, measurement: cfg.Measurement, tags: tags}
}

// Write queues one point. Records without any valid reading are skipped.
func (w *Writer) Write(rec writer.Record) error {
	r := rec.Reading
	if !r.HumidityOK && !r.TemperatureOK {
		return nil
	}

	fields := map[string]interface{}{
		"servo_angle": rec.State.Angle,
		"fan_on":      rec.State.FanOn,
	}
	if r.HumidityOK {
		fields["humidity"] = r.Humidity
	}
	if r.TemperatureOK {
		fields["temperature"] = r.Temperature
	}

	w.api.WritePoint(influxdb2.NewPoint(w.measurement, w.tags, fields, rec.At))
	return nil
}
