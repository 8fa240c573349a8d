package notify_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	sse "github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/notify"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
	closed bool
}

func (s *recordingSink) Send(event notify.Event, _ []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Close() {
	s.closed = true
}

type doneToken struct {
	mqtt.Token
}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Error() error                   { return nil }

type fakeMQTTClient struct {
	mqtt.Client
	mu        sync.Mutex
	published map[string][]byte
}

func (c *fakeMQTTClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published[topic] = payload.([]byte)
	return doneToken{}
}

func Test_Publish(t *testing.T) {

	t.Run("should send the event to every sink", func(t *testing.T) {
		// arrange
		first, second := &recordingSink{}, &recordingSink{}
		notifier := notify.NewNotifier(logger, first, second)

		// act
		notifier.Publish(constants.EventTypeTimerFired, map[string]string{"id": "abc"})
		notifier.Close()

		// assert
		for _, sink := range []*recordingSink{first, second} {
			require.Len(t, sink.events, 1)
			assert.Equal(t, constants.EventTypeTimerFired, sink.events[0].Type)
			assert.True(t, sink.closed)
		}
	})

	t.Run("should drop events that can't be encoded", func(t *testing.T) {
		// arrange
		sink := &recordingSink{}
		notifier := notify.NewNotifier(logger, sink)

		// act
		notifier.Publish("bad", make(chan int))

		// assert
		assert.Empty(t, sink.events)
	})
}

func Test_MQTTPublisher(t *testing.T) {

	t.Run("should publish under the event type topic", func(t *testing.T) {
		// arrange
		client := &fakeMQTTClient{published: map[string][]byte{}}
		notifier := notify.NewNotifier(logger, notify.NewMQTTPublisherWithClient(logger, client, "huepanel"))

		// act
		notifier.Publish(constants.EventTypeEffectStarted, map[string]string{"id": "strobe_light_1"})

		// assert
		client.mu.Lock()
		defer client.mu.Unlock()
		payload, found := client.published["huepanel/effect.started"]
		require.True(t, found)
		var event map[string]any
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "effect.started", event["type"])
	})
}

func Test_EventStream(t *testing.T) {

	t.Run("should stream published events to subscribers", func(t *testing.T) {
		// arrange
		stream := notify.NewEventStream()
		defer stream.Close()
		server := httptest.NewServer(stream)
		defer server.Close()
		notifier := notify.NewNotifier(logger, stream)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		received := make(chan *sse.Event, 1)
		client := sse.NewClient(server.URL)
		require.NoError(t, client.SubscribeChanWithContext(ctx, constants.EventStream, received))
		defer client.Unsubscribe(received)

		// act
		notifier.Publish(constants.EventTypePowerReading, map[string]float64{"total_watts": 9})

		// assert
		select {
		case event := <-received:
			assert.Equal(t, constants.EventTypePowerReading, string(event.Event))
			assert.Contains(t, string(event.Data), `"total_watts":9`)
		case <-ctx.Done():
			t.Fatal("no event received")
		}
	})
}
