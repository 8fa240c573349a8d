package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wheelibin/huepanel/internal/effects"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/internal/power"
	"github.com/wheelibin/huepanel/internal/schedule"
)

//go:embed web/index.html
var indexHTML []byte

type lightService interface {
	GetLights(ctx context.Context) ([]models.Light, error)
	GetLight(ctx context.Context, id string) (models.Light, error)
	GetGroups(ctx context.Context) ([]models.Group, error)
	GetSensors(ctx context.Context) (json.RawMessage, error)
	ConfigureSensor(ctx context.Context, id string, config map[string]any) ([]models.ItemResult, error)
	GetScenes(ctx context.Context) (json.RawMessage, error)
	SetLightState(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
	SetGroupAction(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
	RecallScene(ctx context.Context, sceneID string, groupID string) ([]models.ItemResult, error)
	ApplySceneToLight(ctx context.Context, lightID string, sceneID string) ([]models.ItemResult, error)
	AllLights(ctx context.Context, state models.LightState) ([]models.TargetResult, error)
	AllGroups(ctx context.Context, state models.LightState) ([]models.TargetResult, error)
	EmergencyOff(ctx context.Context) ([]models.TargetResult, error)
}

type effectService interface {
	Start(ctx context.Context, kind effects.Kind, target models.Target, params models.EffectParams) (models.Effect, error)
	StartMood(ctx context.Context, sceneID string, target models.Target) (models.Effect, effects.MoodScene, error)
	List() []models.Effect
	Count() int
	Stop(id string) (effects.StopOutcome, error)
	StopAll(ctx context.Context) []string
	EmergencyStrobeStop(ctx context.Context) ([]string, []models.TargetResult)
}

type timerService interface {
	Schedule(target models.Target, action models.LightState, delay time.Duration) (models.Timer, error)
	Cancel(id string) error
	List() []models.Timer
	Count() int
}

type powerSampler interface {
	Current(ctx context.Context) (power.CurrentPower, error)
	Degraded() bool
}

type historyService interface {
	History(ctx context.Context) (models.PowerHistory, error)
	Detailed(ctx context.Context, timeframe models.Timeframe) (models.DetailedPower, error)
	Lamp(ctx context.Context, lightID string, timeframe models.Timeframe) (models.LampPower, error)
	Weekly(ctx context.Context) (models.WeeklyPower, error)
	Monthly(ctx context.Context) (models.MonthlyPower, error)
}

type onboardingService interface {
	DiscoverBridges(ctx context.Context) ([]models.DiscoveredBridge, error)
	GenerateKey(ctx context.Context, bridgeIP string) (string, error)
	TestConnection(ctx context.Context, bridgeIP string, username string) (int, error)
}

// Services are the components the routes are mapped onto
type Services struct {
	Lights  lightService
	Effects effectService
	Timers  timerService
	Power   powerSampler
	History historyService
	// nil leaves the onboarding routes out
	Onboarding onboardingService
	// server-sent event stream for the dashboard
	Events http.Handler
	// nil when no location is configured
	SunTimes func(now time.Time) schedule.SunTimes
}

type Server struct {
	logger   *log.Logger
	services Services
	bridgeIP string
	database string
}

// NewServer creates the http layer. database describes the persistence mode shown in the status
// ("enabled", "disabled" or "unavailable").
func NewServer(logger *log.Logger, services Services, bridgeIP string, database string) *Server {
	return &Server{
		logger:   logger,
		services: services,
		bridgeIP: bridgeIP,
		database: database,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/lights", s.getLights).Methods(http.MethodGet)
	api.HandleFunc("/lights/{id}", s.getLight).Methods(http.MethodGet)
	api.HandleFunc("/lights/{id}/state", s.setLightState).Methods(http.MethodPut)
	api.HandleFunc("/lights/{id}/scene", s.setLightScene).Methods(http.MethodPut)
	api.HandleFunc("/groups", s.getGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}/action", s.setGroupAction).Methods(http.MethodPut)
	api.HandleFunc("/scenes", s.getScenes).Methods(http.MethodGet)
	api.HandleFunc("/scenes/{id}/recall", s.recallScene).Methods(http.MethodPut)
	api.HandleFunc("/sensors", s.getSensors).Methods(http.MethodGet)
	api.HandleFunc("/sensors/{id}/config", s.configureSensor).Methods(http.MethodPut)

	api.HandleFunc("/global/all-lights", s.allLights).Methods(http.MethodPut)
	api.HandleFunc("/global/all-groups", s.allGroups).Methods(http.MethodPut)
	api.HandleFunc("/global/emergency-off", s.emergencyOff).Methods(http.MethodPost)

	api.HandleFunc("/effects", s.listEffects).Methods(http.MethodGet)
	api.HandleFunc("/effects/strobe", s.startEffect(effects.Strobe)).Methods(http.MethodPost)
	api.HandleFunc("/effects/strobe/emergency-stop", s.emergencyStrobeStop).Methods(http.MethodPost)
	api.HandleFunc("/effects/colorloop", s.startEffect(effects.ColorLoop)).Methods(http.MethodPost)
	api.HandleFunc("/effects/advanced/{type}", s.startAdvancedEffect).Methods(http.MethodPost)
	api.HandleFunc("/effects/{id}/stop", s.stopEffect).Methods(http.MethodDelete)

	api.HandleFunc("/mood-scenes", s.listMoodScenes).Methods(http.MethodGet)
	api.HandleFunc("/mood-scenes/{type}", s.startMoodScene).Methods(http.MethodPost)

	api.HandleFunc("/timer", s.scheduleTimer).Methods(http.MethodPost)
	api.HandleFunc("/timer/{id}", s.cancelTimer).Methods(http.MethodDelete)
	api.HandleFunc("/timers", s.listTimers).Methods(http.MethodGet)

	api.HandleFunc("/power/current", s.currentPower).Methods(http.MethodGet)
	api.HandleFunc("/power/history", s.powerHistory).Methods(http.MethodGet)
	api.HandleFunc("/power/weekly", s.powerWeekly).Methods(http.MethodGet)
	api.HandleFunc("/power/monthly", s.powerMonthly).Methods(http.MethodGet)
	api.HandleFunc("/power/detailed/{timeframe}", s.powerDetailed).Methods(http.MethodGet)
	api.HandleFunc("/power/lamp/{id}/{timeframe}", s.powerLamp).Methods(http.MethodGet)

	api.HandleFunc("/status", s.status).Methods(http.MethodGet)

	if s.services.Onboarding != nil {
		api.HandleFunc("/onboarding/discover-bridge", s.discoverBridge).Methods(http.MethodGet)
		api.HandleFunc("/onboarding/generate-key", s.generateKey).Methods(http.MethodPost)
		api.HandleFunc("/onboarding/test-connection", s.testConnection).Methods(http.MethodPost)
	}

	if s.services.Events != nil {
		api.Handle("/events", s.services.Events).Methods(http.MethodGet)
	}

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/", s.index).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("route", r.URL.Path))
	})

	return r
}

// Handler is the router wrapped in recovery, CORS and access logging
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	accessLog := s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}).Writer()
	return handlers.CombinedLoggingHandler(accessLog, h)
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
