// cmd/probe/main.go
package main

import (
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/poller"
	pmodbus "github.com/tamzrod/humidity-actuator/internal/poller/modbus"
	"github.com/tamzrod/humidity-actuator/internal/rtu"
)

// probe reads the sensor once through goburrow/modbus instead of the
// hand-framed master, to check wiring and addressing at commissioning.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	count := flag.Int("n", 1, "number of polls")
	flag.Parse()
	if flag.NArg() < 1 {
		logrus.Fatal("usage: probe [-n N] <config.yaml>")
	}

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	client, err := pmodbus.New(pmodbus.Config{
		Device:   cfg.Serial.Device,
		BaudRate: cfg.Serial.BaudRate,
		DataBits: cfg.Serial.DataBits,
		StopBits: cfg.Serial.StopBits,
		Parity:   cfg.Serial.Parity,
		Timeout:  time.Duration(cfg.Sensor.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		logrus.Fatal(err)
	}
	defer client.Close()

	p, err := poller.Build(*cfg, client)
	if err != nil {
		logrus.Fatal(err)
	}

	failed := false
	for i := 0; i < *count; i++ {
		if i > 0 {
			time.Sleep(p.Interval())
		}
		res := p.PollOnce(time.Now())

		entry := logrus.WithFields(logrus.Fields{
			"slave":    cfg.Sensor.SlaveID,
			"function": cfg.Sensor.Function,
		})
		if res.HumidityErr != nil {
			entry.WithField("kind", rtu.Classify(res.HumidityErr)).WithError(res.HumidityErr).Error("humidity read failed")
		} else {
			entry = entry.WithFields(logrus.Fields{"humidity_raw": res.Reading.RawHumidity, "humidity": res.Reading.Humidity})
		}
		if res.TemperatureErr != nil {
			entry.WithField("kind", rtu.Classify(res.TemperatureErr)).WithError(res.TemperatureErr).Error("temperature read failed")
		} else {
			entry = entry.WithFields(logrus.Fields{"temperature_raw": res.Reading.RawTemperature, "temperature": res.Reading.Temperature})
		}
		if res.Err() != nil {
			failed = true
			continue
		}
		entry.Info("read ok")
	}

	if failed {
		client.Close()
		os.Exit(1)
	}
}
