package notify

import (
	"net/http"

	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/huepanel/internal/constants"
)

// EventStream serves events to browsers as server-sent events
type EventStream struct {
	server *sse.Server
}

func NewEventStream() *EventStream {
	server := sse.New()
	// events describe live state, there's nothing useful to replay
	server.AutoReplay = false
	server.CreateStream(constants.EventStream)
	return &EventStream{server: server}
}

func (s *EventStream) Send(event Event, payload []byte) {
	s.server.Publish(constants.EventStream, &sse.Event{
		Event: []byte(event.Type),
		Data:  payload,
	})
}

// ServeHTTP subscribes the client to the event stream, whatever stream it asked for
func (s *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", constants.EventStream)
	r.URL.RawQuery = q.Encode()
	s.server.ServeHTTP(w, r)
}

func (s *EventStream) Close() {
	s.server.Close()
}
