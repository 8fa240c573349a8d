package hue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/huepanel/internal/config"
	"github.com/wheelibin/huepanel/internal/constants"
)

const maxEventSize = 1 << 20

type notifier interface {
	Publish(eventType string, data any)
}

// HueEventConsumer listens to the bridge's v2 event stream and relays light changes to the dashboard
type HueEventConsumer struct {
	logger   *log.Logger
	url      string
	notifier notifier
	client   *sse.Client
}

func NewHueEventConsumer(logger *log.Logger, url string, appKey string, notifier notifier) *HueEventConsumer {
	client := sse.NewClient(url, sse.ClientMaxBufferSize(maxEventSize))
	// bridges use a self signed certificate
	client.Connection.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	client.Headers["hue-application-key"] = appKey

	return &HueEventConsumer{
		logger:   logger,
		url:      url,
		notifier: notifier,
		client:   client,
	}
}

// EventStreamURL is the v2 event stream of the configured bridge, which is only served over https
func EventStreamURL(cfg config.Config) string {
	host := strings.TrimPrefix(strings.TrimPrefix(cfg.BridgeIP, "http://"), "https://")
	host = strings.TrimSuffix(host, "/")
	return "https://" + host + constants.BridgeEventStreamPath
}

// Run blocks until ctx is done, reconnecting with backoff whenever the stream drops
func (h *HueEventConsumer) Run(ctx context.Context) {
	reconnect := backoff.NewExponentialBackOff()
	reconnect.MaxElapsedTime = 0
	h.client.ReconnectStrategy = backoff.WithContext(reconnect, ctx)
	h.client.ReconnectNotify = func(err error, next time.Duration) {
		h.logger.Warn("Bridge event stream dropped, reconnecting", "in", next, "err", err)
	}

	h.client.OnConnect(func(_ *sse.Client) {
		h.logger.Info("Connected to HUE bridge, listening for events...")
	})
	h.client.OnDisconnect(func(_ *sse.Client) {
		h.logger.Info("Disconnected from HUE bridge")
	})

	h.logger.Debug("Subscribing to bridge events", "url", h.url)
	if err := h.client.SubscribeRawWithContext(ctx, h.handle); err != nil && ctx.Err() == nil {
		h.logger.Errorf("error subscribing to light updates: %s", err)
	}
}

func (h *HueEventConsumer) handle(msg *sse.Event) {
	if len(msg.Data) == 0 {
		return
	}

	events := []bridgeEvent{}
	if err := json.Unmarshal(msg.Data, &events); err != nil {
		h.logger.Debug("Ignoring undecodable bridge event", "id", string(msg.ID), "err", err)
		return
	}

	for _, event := range events {
		if event.Type != "update" {
			continue
		}
		for _, resource := range event.Data {
			if update, ok := resource.lightUpdate(); ok {
				h.notifier.Publish(constants.EventTypeLightUpdated, update)
			}
		}
	}
}
