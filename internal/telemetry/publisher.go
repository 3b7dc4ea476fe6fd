// internal/telemetry/publisher.go
package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Topic is the device telemetry topic.
const Topic = "v1/devices/me/telemetry"

// QoS 1: at least once.
const qosAtLeastOnce = 1

const publishTimeout = 10 * time.Second

// Publisher sends one payload to the broker.
type Publisher interface {
	Publish(payload []byte) error
}

// MQTTPublisher publishes to a device-management broker, authenticated as
// a device: the access token is the MQTT username, the password is empty.
type MQTTPublisher struct {
	client mqtt.Client
}

// ConnectMQTT connects with auto-reconnect.
func ConnectMQTT(host string, port int, token, clientID string, log *logrus.Entry) (*MQTTPublisher, error) {
	broker := fmt.Sprintf("tcp://%s:%d", host, port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetUsername(token)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetMaxReconnectInterval(5 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		log.WithField("broker", broker).Info("mqtt connected")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("mqtt connection lost")
	}

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(publishTimeout) {
		log.WithField("broker", broker).Warn("mqtt not connected yet, retrying in background")
	} else if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return &MQTTPublisher{client: client}, nil
}

func (p *MQTTPublisher) Publish(payload []byte) error {
	tok := p.client.Publish(Topic, qosAtLeastOnce, false, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish: no ack after %s", publishTimeout)
	}
	return tok.Error()
}

// Close disconnects, letting in-flight messages drain for up to 250 ms.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
