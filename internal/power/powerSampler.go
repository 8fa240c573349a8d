package power

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/metrics"
	"github.com/wheelibin/huepanel/internal/models"
)

type lightService interface {
	GetLights(ctx context.Context) ([]models.Light, error)
}

type powerRepo interface {
	AddReading(ctx context.Context, reading models.PowerReading) error
}

type notifier interface {
	Publish(eventType string, data any)
}

// CurrentPower is the live estimate served to the dashboard
type CurrentPower struct {
	models.PowerReading
	EstimatedMonthlyKWh float64 `json:"estimated_monthly_kwh"`
	DatabaseLogging     bool    `json:"database_logging"`
	Degraded            bool    `json:"degraded"`
	Stale               bool    `json:"stale"`
	StaleReason         string  `json:"stale_reason,omitempty"`
}

// PowerSampler estimates consumption on an interval and logs it to the repo
type PowerSampler struct {
	logger       *log.Logger
	lightService lightService
	repo         powerRepo
	notifier     notifier
	interval     time.Duration
	now          func() time.Time

	started atomic.Bool

	mu       sync.RWMutex
	latest   *models.PowerReading
	degraded bool
}

// NewPowerSampler creates a sampler. repo may be nil, in which case readings are kept in memory only.
func NewPowerSampler(logger *log.Logger, lightService lightService, repo powerRepo, notifier notifier) *PowerSampler {
	return &PowerSampler{
		logger:       logger,
		lightService: lightService,
		repo:         repo,
		notifier:     notifier,
		interval:     constants.PowerSampleInterval,
		now:          time.Now,
	}
}

// Run samples immediately and then every interval until ctx is done. Only the first call starts a loop.
func (p *PowerSampler) Run(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		p.logger.Warn("Power sampler already running")
		return
	}

	p.logger.Info("Power sampler started", "interval", p.interval)
	_ = p.Sample(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Power sampler stopped")
			return
		case <-ticker.C:
			_ = p.Sample(ctx)
		}
	}
}

// Sample runs one tick. A bridge failure skips the tick entirely, a persistence failure only
// marks the sampler as degraded.
func (p *PowerSampler) Sample(ctx context.Context) error {
	lights, err := p.lightService.GetLights(ctx)
	if err != nil {
		p.logger.Warn("Skipping power sample, couldn't read lights", "err", err)
		metrics.PowerSamples.WithLabelValues("bridge_error").Inc()
		return err
	}

	reading := Estimate(lights, p.now().UTC())
	p.setLatest(reading)
	metrics.TotalWatts.Set(reading.Totals.TotalWatts)
	p.notifier.Publish(constants.EventTypePowerReading, reading)

	if p.repo == nil {
		metrics.PowerSamples.WithLabelValues("memory_only").Inc()
		return nil
	}

	if err := p.repo.AddReading(ctx, reading); err != nil {
		p.logger.Error("Couldn't log power reading", "err", err)
		p.setDegraded(true)
		metrics.PowerSamples.WithLabelValues("db_error").Inc()
		return err
	}
	p.setDegraded(false)
	metrics.PowerSamples.WithLabelValues("ok").Inc()

	p.logger.Debug("Power sample logged", "watts", reading.Totals.TotalWatts, "active", reading.Totals.ActiveLights)
	return nil
}

// Current estimates from a live read of the lights. When the bridge can't be read the last sampled
// reading is returned flagged as stale, along with the bridge error.
func (p *PowerSampler) Current(ctx context.Context) (CurrentPower, error) {
	current := CurrentPower{
		DatabaseLogging: p.repo != nil,
		Degraded:        p.Degraded(),
	}

	lights, err := p.lightService.GetLights(ctx)
	if err != nil {
		current.Stale = true
		if latest, ok := p.Latest(); ok {
			current.PowerReading = latest
		} else {
			current.Samples = []models.PowerSample{}
		}
		current.EstimatedMonthlyKWh = MonthlyKWh(current.Totals.TotalWatts)
		return current, err
	}

	current.PowerReading = Estimate(lights, p.now().UTC())
	current.EstimatedMonthlyKWh = MonthlyKWh(current.Totals.TotalWatts)
	return current, nil
}

func (p *PowerSampler) Latest() (models.PowerReading, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return models.PowerReading{}, false
	}
	return *p.latest, true
}

func (p *PowerSampler) Degraded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.degraded
}

func (p *PowerSampler) setLatest(reading models.PowerReading) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = &reading
}

func (p *PowerSampler) setDegraded(degraded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if degraded != p.degraded && !degraded {
		p.logger.Info("Power logging recovered")
	}
	p.degraded = degraded
}
