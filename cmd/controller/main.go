// cmd/controller/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/hw"
	"github.com/tamzrod/humidity-actuator/internal/loop"
	"github.com/tamzrod/humidity-actuator/internal/metrics"
	"github.com/tamzrod/humidity-actuator/internal/writer"
	"github.com/tamzrod/humidity-actuator/internal/writer/influx"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if len(os.Args) < 2 {
		logrus.Fatal("usage: controller <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	logrus.SetLevel(level)
	log := logrus.WithField("component", "controller")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Hardware (any failure here is fatal)
	// --------------------

	if err := hw.InitHost(); err != nil {
		log.Fatal(err)
	}

	port, err := hw.OpenSerial(hw.SerialConfig{
		Device:   cfg.Serial.Device,
		BaudRate: cfg.Serial.BaudRate,
		DataBits: cfg.Serial.DataBits,
		StopBits: cfg.Serial.StopBits,
		Parity:   cfg.Serial.Parity,
		ReadPoll: time.Duration(cfg.Serial.ReadPollMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	dir, err := hw.OpenOptionalPin(cfg.Serial.DirectionPin, false)
	if err != nil {
		log.Fatal(err)
	}
	servoPin, err := hw.OpenPin(cfg.Servo.Pin, false)
	if err != nil {
		log.Fatal(err)
	}
	// relay starts at its off level
	relayPin, err := hw.OpenPin(cfg.Relay.Pin, *cfg.Relay.ActiveLow)
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(logrus.Fields{
		"device":    cfg.Serial.Device,
		"baud":      cfg.Serial.BaudRate,
		"direction": cfg.Serial.DirectionPin,
		"servo":     cfg.Servo.Pin,
		"relay":     cfg.Relay.Pin,
	}).Info("hardware ready")

	// --------------------
	// Outputs (optional, never fatal at runtime)
	// --------------------

	var sinks writer.Multi

	mirror, closeMirror, mirrorEnabled, err := writer.BuildMirror(*cfg)
	if err != nil {
		log.Fatalf("mirror build failed: %v", err)
	}
	if mirrorEnabled {
		defer closeMirror()
		sinks = append(sinks, writer.Named{Name: "mirror", Writer: mirror})
	}

	if in := cfg.Outputs.Influx; in != nil {
		iw, closeInflux, err := influx.New(influx.Config{
			URL:         in.URL,
			Token:       in.Token,
			Org:         in.Org,
			Bucket:      in.Bucket,
			Measurement: in.Measurement,
			Device:      in.Device,
		}, logrus.WithField("component", "influx"))
		if err != nil {
			log.Fatalf("influx writer build failed: %v", err)
		}
		defer closeInflux()
		sinks = append(sinks, writer.Named{Name: "influx", Writer: iw})
	}

	var m *metrics.Metrics
	if mc := cfg.Outputs.Metrics; mc != nil {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		go func() {
			if err := metrics.Serve(ctx, mc.Listen, reg, logrus.WithField("component", "metrics")); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	var w writer.Writer
	if len(sinks) > 0 {
		w = sinks
	}

	// --------------------
	// Control loop
	// --------------------

	l, err := loop.Build(*cfg, loop.Hardware{
		Clock:     hw.Monotonic{},
		Port:      port,
		Direction: dir,
		Servo:     servoPin,
		Relay:     relayPin,
	}, w, m, logrus.WithField("component", "loop"))
	if err != nil {
		log.Fatalf("loop build failed: %v", err)
	}

	// busy-wait timing: keep the loop on one OS thread
	runtime.LockOSThread()

	log.WithField("interval_ms", cfg.Poll.IntervalMs).Info("control loop started")
	if err := l.Run(ctx); err != nil {
		log.WithError(err).Error("control loop failed")
		os.Exit(1)
	}
	log.Info("control loop stopped")
}
