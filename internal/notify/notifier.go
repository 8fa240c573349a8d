package notify

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
)

// Event is the envelope sent to dashboard clients and subscribers
type Event struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	Data any       `json:"data"`
}

// Sink delivers encoded events somewhere. Send must not block on the network.
type Sink interface {
	Send(event Event, payload []byte)
	Close()
}

// Notifier fans state changes out to every configured sink
type Notifier struct {
	logger *log.Logger
	sinks  []Sink
	now    func() time.Time
}

func NewNotifier(logger *log.Logger, sinks ...Sink) *Notifier {
	return &Notifier{logger: logger, sinks: sinks, now: time.Now}
}

func (n *Notifier) Publish(eventType string, data any) {
	event := Event{Type: eventType, Time: n.now().UTC(), Data: data}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Couldn't encode event", "type", eventType, "err", err)
		return
	}

	for _, sink := range n.sinks {
		sink.Send(event, payload)
	}
}

func (n *Notifier) Close() {
	for _, sink := range n.sinks {
		sink.Close()
	}
}
