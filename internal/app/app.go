package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/amimof/huego"
	"github.com/charmbracelet/log"
	"github.com/wheelibin/huepanel/internal/config"
	"github.com/wheelibin/huepanel/internal/effects"
	"github.com/wheelibin/huepanel/internal/hue"
	"github.com/wheelibin/huepanel/internal/lights"
	"github.com/wheelibin/huepanel/internal/notify"
	"github.com/wheelibin/huepanel/internal/power"
	"github.com/wheelibin/huepanel/internal/repos"
	"github.com/wheelibin/huepanel/internal/schedule"
	"github.com/wheelibin/huepanel/internal/server"
	"github.com/wheelibin/huepanel/internal/timers"
)

const shutdownTimeout = 10 * time.Second

// database modes shown in the status
const (
	databaseEnabled     = "enabled"
	databaseDisabled    = "disabled"
	databaseUnavailable = "unavailable"
)

// App owns every long running component and their lifecycle
type App struct {
	logger *log.Logger
	cfg    config.Config

	db            *sql.DB
	notifier      *notify.Notifier
	hueAPIService *hue.HueAPIService
	effectService *effects.EffectService
	timerService  *timers.TimerService
	powerSampler  *power.PowerSampler
	eventConsumer *hue.HueEventConsumer
	httpServer    *http.Server
}

func NewApp(logger *log.Logger, cfg config.Config) *App {
	return &App{logger: logger, cfg: cfg}
}

// Initialise connects to the optional backends and wires the services together. Neither the
// database nor the mqtt broker is required, the app degrades without them.
func (a *App) Initialise(ctx context.Context) error {
	a.logger.Debug("App.Initialise")

	a.hueAPIService = hue.NewHueAPIService(a.logger, a.cfg)
	if err := a.hueAPIService.Ping(ctx); err != nil {
		a.logger.Warn("Hue bridge not reachable yet", "bridge", a.cfg.BridgeIP, "err", err)
	} else {
		a.logger.Info("Connected to hue bridge", "bridge", a.cfg.BridgeIP)
	}

	sinks := []notify.Sink{}
	eventStream := notify.NewEventStream()
	sinks = append(sinks, eventStream)
	if a.cfg.MQTTBroker != "" {
		publisher, err := notify.NewMQTTPublisher(a.logger, a.cfg.MQTTBroker, a.cfg.MQTTTopic)
		if err != nil {
			a.logger.Error("MQTT publishing disabled", "err", err)
		} else {
			sinks = append(sinks, publisher)
		}
	}
	a.notifier = notify.NewNotifier(a.logger, sinks...)

	if a.cfg.BridgeEvents {
		a.eventConsumer = hue.NewHueEventConsumer(a.logger, hue.EventStreamURL(a.cfg), a.cfg.HueUsername, a.notifier)
	}

	lightService := lights.NewLightService(a.logger, a.hueAPIService)
	a.effectService = effects.NewEffectService(a.logger, effects.NewEffectManager(), lightService, a.notifier)
	a.timerService = timers.NewTimerService(a.logger, lightService, a.notifier)

	database, powerRepo := a.openPowerRepo(ctx)
	var historyService *power.HistoryService
	if powerRepo != nil {
		a.powerSampler = power.NewPowerSampler(a.logger, lightService, powerRepo, a.notifier)
		historyService = power.NewHistoryService(a.logger, powerRepo, a.cfg.EnergyPrice)
	} else {
		a.powerSampler = power.NewPowerSampler(a.logger, lightService, nil, a.notifier)
		historyService = power.NewHistoryService(a.logger, nil, a.cfg.EnergyPrice)
	}

	services := server.Services{
		Lights:     lightService,
		Effects:    a.effectService,
		Timers:     a.timerService,
		Power:      a.powerSampler,
		History:    historyService,
		Onboarding: hue.NewOnboarding(a.logger, huego.DiscoverAllContext),
		Events:     eventStream,
		SunTimes:   a.sunTimes(),
	}
	srv := server.NewServer(a.logger, services, a.cfg.BridgeIP, database)

	a.httpServer = &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

func (a *App) openPowerRepo(ctx context.Context) (string, *repos.PowerRepo) {
	if a.cfg.DB.Driver == "none" {
		a.logger.Info("Database logging disabled")
		return databaseDisabled, nil
	}

	db, err := repos.Open(ctx, a.logger, a.cfg.DB)
	if err != nil {
		a.logger.Error("Database unavailable, power logging disabled", "err", err)
		return databaseUnavailable, nil
	}
	powerRepo, err := repos.NewPowerRepo(a.logger, db, a.cfg.DB.Driver)
	if err != nil {
		a.logger.Error("Database unavailable, power logging disabled", "err", err)
		db.Close()
		return databaseUnavailable, nil
	}

	a.db = db
	return databaseEnabled, powerRepo
}

func (a *App) sunTimes() func(now time.Time) schedule.SunTimes {
	if a.cfg.GeoLocation == "" {
		return nil
	}
	lat, lng, err := a.cfg.LatLng()
	if err != nil {
		a.logger.Warn("Ignoring geo location", "err", err)
		return nil
	}
	return func(now time.Time) schedule.SunTimes {
		return schedule.CalculateSunTimes(a.logger, lat, lng, now)
	}
}

// Run serves http and samples power until ctx is done or the server fails
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run")
	defer a.shutdown()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go a.powerSampler.Run(workerCtx)
	if a.eventConsumer != nil {
		go a.eventConsumer.Run(workerCtx)
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("App.Run: stop signal received")
			return nil

		case err := <-serverErrors:
			a.logger.Error("App.Run: http server failed", "err", err)
			return err
		}
	}
}

// shutdown is best effort, every step gets a share of the shutdown timeout
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.effectService.Shutdown(ctx)
	a.timerService.StopAll()
	// closes the event streams, otherwise the http shutdown waits on them
	a.notifier.Close()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Warn("Error shutting down http server", "err", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Error closing database", "err", err)
		}
	}
	a.logger.Info("Shut down")
}
