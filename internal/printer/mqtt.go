package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// publisher is the part of mqtt.Client used for printing.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPrinter publishes print jobs to a print station listening on an MQTT topic.
type MQTTPrinter struct {
	client     publisher
	topic      string
	disconnect func(quiesce uint)
}

// NewMQTTPrinter connects to broker and returns a printer publishing on topic.
func NewMQTTPrinter(broker, clientID, topic string) (*MQTTPrinter, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("Print station connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	log.WithFields(log.Fields{"broker": broker, "topic": topic}).Info("Connected to print station")
	return &MQTTPrinter{client: client, topic: topic, disconnect: client.Disconnect}, nil
}

// Close disconnects from the broker, letting in-flight publishes finish.
func (p *MQTTPrinter) Close() {
	if p.disconnect != nil {
		p.disconnect(250)
	}
}

// Print publishes the job with QoS 0.
func (p *MQTTPrinter) Print(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal print job: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish error: %w", err)
	}

	log.WithFields(log.Fields{
		"session_id": job.SessionID,
		"record_id":  job.Record.ID,
		"topic":      p.topic,
	}).Info("Print job sent")
	return nil
}
