package notify

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttTimeout = 5 * time.Second

// MQTTPublisher mirrors events onto "{topic}/{event type}"
type MQTTPublisher struct {
	logger *log.Logger
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker. The client keeps reconnecting in the background if the
// connection is lost later on.
func NewMQTTPublisher(logger *log.Logger, broker string, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("huepanel-%d", time.Now().UnixNano()))
	opts.SetConnectRetry(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("Connected to MQTT broker", "broker", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("Lost connection to MQTT broker", "broker", broker, "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		logger.Warn("MQTT broker not answering yet, connecting in the background", "broker", broker)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("Error connecting to MQTT broker (%s): %w", broker, token.Error())
	}

	return NewMQTTPublisherWithClient(logger, client, topic), nil
}

func NewMQTTPublisherWithClient(logger *log.Logger, client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{logger: logger, client: client, topic: topic}
}

func (p *MQTTPublisher) Send(event Event, payload []byte) {
	topic := fmt.Sprintf("%s/%s", p.topic, event.Type)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if !token.WaitTimeout(mqttTimeout) {
			p.logger.Warn("Timed out publishing event", "topic", topic)
			return
		}
		if token.Error() != nil {
			p.logger.Warn("Failed to publish event", "topic", topic, "err", token.Error())
		}
	}()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
