// internal/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/poller"
	"github.com/tamzrod/humidity-actuator/internal/rtu"
	"github.com/tamzrod/humidity-actuator/internal/status"
)

// Metrics holds the controller's collectors. All of them are safe to
// read from the HTTP goroutine while the control loop updates them.
type Metrics struct {
	Transactions *prometheus.CounterVec

	Humidity    prometheus.Gauge
	Temperature prometheus.Gauge
	ServoAngle  prometheus.Gauge
	Fan         prometheus.Gauge
	LinkHealth  prometheus.Gauge

	SecondsInError prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtu_transactions_total",
			Help: "Modbus RTU transactions by register and result.",
		}, []string{"register", "result"}),
		Humidity:       gauge("sensor_humidity_percent", "Last valid relative humidity (%)."),
		Temperature:    gauge("sensor_temperature_celsius", "Last valid temperature (°C)."),
		ServoAngle:     gauge("actuator_servo_angle_degrees", "Commanded servo angle."),
		Fan:            gauge("actuator_fan_on", "Logical fan state (1 = on)."),
		LinkHealth:     gauge("rtu_link_health", "Link health code (0 unknown, 1 ok, 2 error)."),
		SecondsInError: gauge("rtu_link_seconds_in_error", "Seconds since the link went into error."),
	}

	reg.MustRegister(
		m.Transactions,
		m.Humidity,
		m.Temperature,
		m.ServoAngle,
		m.Fan,
		m.LinkHealth,
		m.SecondsInError,
	)
	return m
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

// ObservePoll counts both transactions of a poll and updates the
// reading gauges for the values that were read.
func (m *Metrics) ObservePoll(res poller.PollResult) {
	m.Transactions.WithLabelValues(poller.RegHumidity, rtu.Classify(res.HumidityErr).String()).Inc()
	m.Transactions.WithLabelValues(poller.RegTemperature, rtu.Classify(res.TemperatureErr).String()).Inc()

	if res.Reading.HumidityOK {
		m.Humidity.Set(res.Reading.Humidity)
	}
	if res.Reading.TemperatureOK {
		m.Temperature.Set(res.Reading.Temperature)
	}
}

// ObserveState mirrors actuation and link health.
func (m *Metrics) ObserveState(s control.State, snap status.Snapshot) {
	m.ServoAngle.Set(float64(s.Angle))
	if s.FanOn {
		m.Fan.Set(1)
	} else {
		m.Fan.Set(0)
	}
	m.LinkHealth.Set(float64(snap.Health))
	m.SecondsInError.Set(float64(snap.SecondsInError))
}

// Serve exposes g on /metrics at addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *logrus.Entry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
