// cmd/relay/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/telemetry"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	envPath := flag.String("env", ".env", "optional .env file")
	clientID := flag.String("client-id", "", "MQTT client id (default: relay-<hostname>)")
	flag.Parse()

	log := logrus.WithField("component", "relay")

	cfg, loaded, err := telemetry.LoadEnv(*envPath)
	if err != nil {
		log.Fatal(err)
	}
	if loaded {
		log.WithField("path", *envPath).Info("loaded env file")
	}

	if *clientID == "" {
		host, _ := os.Hostname()
		*clientID = fmt.Sprintf("relay-%s", host)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	influx := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	defer influx.Close()

	pub, err := telemetry.ConnectMQTT(cfg.TBHost, cfg.TBPort, cfg.TBToken, *clientID, logrus.WithField("component", "mqtt"))
	if err != nil {
		log.Fatal(err)
	}
	defer pub.Close()

	r := &telemetry.Relay{
		Source:    telemetry.NewInfluxSource(influx.QueryAPI(cfg.InfluxOrg), cfg.InfluxBucket, cfg.Window),
		Publisher: pub,
		Interval:  cfg.Interval,
		Log:       log,
	}

	log.WithFields(logrus.Fields{
		"influx":   cfg.InfluxURL,
		"bucket":   cfg.InfluxBucket,
		"broker":   fmt.Sprintf("%s:%d", cfg.TBHost, cfg.TBPort),
		"interval": cfg.Interval,
	}).Info("relay started")
	r.Run(ctx)
	log.Info("relay stopped")
}
