package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// a light as reported by the bridge
type Light struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	On        bool   `json:"on"`
	Bri       uint8  `json:"bri"`
	Hue       uint16 `json:"hue"`
	Sat       uint8  `json:"sat"`
	Reachable bool   `json:"reachable"`
}

// represents a bridge group (room, zone, light group)
type Group struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Lights []string `json:"lights"`
}

// LightState is a v1 state/action body. Only the fields that are set get sent to the bridge.
type LightState struct {
	On             *bool     `json:"on,omitempty"`
	Bri            *uint8    `json:"bri,omitempty"`
	Hue            *uint16   `json:"hue,omitempty"`
	Sat            *uint8    `json:"sat,omitempty"`
	CT             *uint16   `json:"ct,omitempty"`
	XY             []float32 `json:"xy,omitempty"`
	Alert          string    `json:"alert,omitempty"`
	Effect         string    `json:"effect,omitempty"`
	TransitionTime *uint16   `json:"transitiontime,omitempty"`
	Scene          string    `json:"scene,omitempty"`
}

func (s LightState) IsEmpty() bool {
	return s.On == nil && s.Bri == nil && s.Hue == nil && s.Sat == nil && s.CT == nil &&
		len(s.XY) == 0 && s.Alert == "" && s.Effect == "" && s.TransitionTime == nil && s.Scene == ""
}

// a change reported by the bridge's event stream, fields are nil when they didn't change
type LightUpdate struct {
	ID            string   `json:"id"`
	On            *bool    `json:"on,omitempty"`
	BrightnessPct *float64 `json:"brightness_pct,omitempty"`
	Mirek         *int     `json:"ct,omitempty"`
}

// one entry of the bridge's per-item result array
type ItemResult struct {
	Success map[string]any `json:"success,omitempty"`
	Error   *ItemError     `json:"error,omitempty"`
}

type ItemError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %s (type %d)", e.Address, e.Description, e.Type)
}

// per target outcome of a fan-out operation (all lights, all groups, emergency off)
type TargetResult struct {
	ID      string       `json:"id"`
	Results []ItemResult `json:"result,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type TargetKind string

const (
	TargetLight TargetKind = "light"
	TargetGroup TargetKind = "group"
	TargetAll   TargetKind = "all"
)

type Target struct {
	Kind TargetKind `json:"type"`
	ID   string     `json:"id"`
}

// UnmarshalJSON accepts "type" or "kind" for the target kind, and numeric ids.
func (t *Target) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type TargetKind      `json:"type"`
		Kind TargetKind      `json:"kind"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Kind = raw.Type
	if t.Kind == "" {
		t.Kind = raw.Kind
	}
	t.ID = ""
	if len(raw.ID) > 0 && string(raw.ID) != "null" {
		var s string
		if err := json.Unmarshal(raw.ID, &s); err != nil {
			var n json.Number
			if err := json.Unmarshal(raw.ID, &n); err != nil {
				return fmt.Errorf("invalid target id %s", raw.ID)
			}
			s = n.String()
		}
		t.ID = s
	}
	return nil
}

func (t Target) Validate() error {
	switch t.Kind {
	case TargetAll:
		return nil
	case TargetLight, TargetGroup:
		if t.ID == "" {
			return fmt.Errorf("%w: target %s needs an id", ErrInvalidRequest, t.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown target type %q", ErrInvalidRequest, t.Kind)
	}
}

// Name is the target part of composite ids, e.g. "light_3" or "all_all"
func (t Target) Name() string {
	id := t.ID
	if t.Kind == TargetAll || id == "" {
		id = "all"
	}
	return fmt.Sprintf("%s_%s", t.Kind, id)
}

type EffectStatus string

const (
	EffectRunning  EffectStatus = "running"
	EffectStopping EffectStatus = "stopping"
	EffectStopped  EffectStatus = "stopped"
)

type ColorStop struct {
	Hue uint16 `json:"hue"`
	Sat uint8  `json:"sat"`
	Bri uint8  `json:"bri"`
}

// Speed is either a strobe tier ("fast", "medium", "slow", "variable") or a numeric tick multiplier
type Speed struct {
	Tier   string
	Factor float64
}

func (s *Speed) UnmarshalJSON(data []byte) error {
	var tier string
	if err := json.Unmarshal(data, &tier); err == nil {
		if f, err := strconv.ParseFloat(tier, 64); err == nil {
			s.Factor = f
			return nil
		}
		s.Tier = tier
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("speed must be a tier name or a number")
	}
	s.Factor = f
	return nil
}

func (s Speed) MarshalJSON() ([]byte, error) {
	if s.Tier != "" {
		return json.Marshal(s.Tier)
	}
	return json.Marshal(s.Factor)
}

type EffectParams struct {
	Speed     Speed       `json:"speed"`
	Frequency float64     `json:"frequency,omitempty"`
	Duration  float64     `json:"duration,omitempty"`
	Intensity float64     `json:"intensity,omitempty"`
	Colors    []ColorStop `json:"colors,omitempty"`
	Palette   string      `json:"color_palette,omitempty"`
	MinBri    uint8       `json:"min_bri,omitempty"`
	MaxBri    uint8       `json:"max_bri,omitempty"`
	Period    float64     `json:"period,omitempty"`
}

func (p EffectParams) DurationValue() time.Duration {
	return time.Duration(p.Duration * float64(time.Second))
}

type Effect struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Target    Target       `json:"target"`
	Params    EffectParams `json:"params"`
	Status    EffectStatus `json:"status"`
	StartedAt time.Time    `json:"started_at"`
	Lights    []string     `json:"lights"`
	Ticks     int          `json:"ticks"`
}

type TimerStatus string

const (
	TimerPending   TimerStatus = "pending"
	TimerFired     TimerStatus = "fired"
	TimerCancelled TimerStatus = "cancelled"
	TimerFailed    TimerStatus = "failed"
)

type Timer struct {
	ID               string      `json:"id"`
	Target           Target      `json:"target"`
	Action           LightState  `json:"action"`
	CreatedAt        time.Time   `json:"created_at"`
	FireAt           time.Time   `json:"fire_at"`
	Status           TimerStatus `json:"status"`
	RemainingSeconds float64     `json:"remaining_seconds"`
}

type PowerSample struct {
	Timestamp  time.Time `json:"timestamp"`
	LightID    string    `json:"light_id"`
	LightName  string    `json:"light_name"`
	Watts      float64   `json:"watts"`
	Brightness int       `json:"brightness"`
}

type TotalsSample struct {
	Timestamp    time.Time `json:"timestamp"`
	TotalWatts   float64   `json:"total_watts"`
	ActiveLights int       `json:"active_lights"`
}

// the result of one sampling tick
type PowerReading struct {
	Totals  TotalsSample  `json:"totals"`
	Samples []PowerSample `json:"samples"`
}

// per light cumulative sums, as read from the power log
type LightConsumption struct {
	LightID      string  `json:"light_id"`
	LightName    string  `json:"light_name"`
	SumWatts     float64 `json:"-"`
	AvgWatts     float64 `json:"avg_watts"`
	MaxWatts     float64 `json:"max_watts"`
	Measurements int     `json:"measurements"`
	// samples taken while the light was lit
	OnSamples    int     `json:"-"`
	OnPercentage float64 `json:"on_percentage"`
	TotalKWh     float64 `json:"total_kwh"`
}

type DailySummary struct {
	Date      string  `json:"date"`
	AvgWatts  float64 `json:"avg_watts"`
	MaxWatts  float64 `json:"max_watts"`
	KWh       float64 `json:"kwh"`
	AvgLights float64 `json:"avg_lights"`
	Samples   int     `json:"samples"`
}

type HourlySummary struct {
	Hour      int     `json:"hour"`
	AvgWatts  float64 `json:"avg_watts"`
	MaxWatts  float64 `json:"max_watts"`
	AvgLights float64 `json:"avg_lights"`
}

type PowerHistory struct {
	DailySummary []DailySummary     `json:"daily_summary"`
	TodayHourly  []HourlySummary    `json:"today_hourly"`
	TopConsumers []LightConsumption `json:"top_consumers"`
}

// a bridge found by discovery
type DiscoveredBridge struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
}

// Timeframe selects the window and bucket size of the detailed power views
type Timeframe string

const (
	// since local midnight, one bucket per sample
	TimeframeToday Timeframe = "today"
	// the last 7 days, hourly buckets
	TimeframeWeek Timeframe = "week"
	// the last 30 days, daily buckets
	TimeframeMonth Timeframe = "month"
)

func ParseTimeframe(name string) (Timeframe, error) {
	switch timeframe := Timeframe(name); timeframe {
	case TimeframeToday, TimeframeWeek, TimeframeMonth:
		return timeframe, nil
	}
	return "", fmt.Errorf("%w: invalid timeframe %q, expected today, week or month", ErrInvalidRequest, name)
}

// TotalsBucket aggregates the logged totals over one bucket of a timeframe
type TotalsBucket struct {
	Time      string  `json:"time"`
	AvgWatts  float64 `json:"avg_watts"`
	MaxWatts  float64 `json:"max_watts"`
	MinWatts  float64 `json:"min_watts"`
	AvgLights float64 `json:"avg_lights"`
}

// LampBucket aggregates one light's samples over one bucket of a timeframe
type LampBucket struct {
	Time          string  `json:"time"`
	AvgWatts      float64 `json:"avg_watts"`
	MaxWatts      float64 `json:"max_watts"`
	MinWatts      float64 `json:"min_watts"`
	AvgBrightness float64 `json:"avg_brightness"`
}

type DetailedPower struct {
	Timeframe    Timeframe          `json:"timeframe"`
	DetailedData []TotalsBucket     `json:"detailed_data"`
	TopLights    []LightConsumption `json:"top_lights"`
}

type LampPower struct {
	LampID       string       `json:"lamp_id"`
	LampName     string       `json:"lamp_name"`
	Timeframe    Timeframe    `json:"timeframe"`
	DetailedData []LampBucket `json:"detailed_data"`
}

type WeekdaySummary struct {
	Weekday string `json:"weekday"`
	// 1 is Sunday
	DayNum      int     `json:"day_num"`
	AvgWatts    float64 `json:"avg_watts"`
	MaxWatts    float64 `json:"max_watts"`
	MinWatts    float64 `json:"min_watts"`
	TotalKWh    float64 `json:"total_kwh"`
	DaysCounted int     `json:"days_counted"`
}

type WeekdayHour struct {
	Weekday  string  `json:"weekday"`
	Hour     int     `json:"hour"`
	AvgWatts float64 `json:"avg_watts"`
}

type WeeklyPower struct {
	WeekdaySummary []WeekdaySummary `json:"weekday_summary"`
	WeekdayHourly  []WeekdayHour    `json:"weekday_hourly"`
}

type MonthlySummary struct {
	Month       string  `json:"month"`
	AvgWatts    float64 `json:"avg_watts"`
	MaxWatts    float64 `json:"max_watts"`
	TotalKWh    float64 `json:"total_kwh"`
	AvgLights   float64 `json:"avg_lights"`
	DaysInMonth int     `json:"days_in_month"`
	Cost        float64 `json:"cost"`
}

type MonthlyPower struct {
	MonthlySummary []MonthlySummary `json:"monthly_summary"`
}

// SortIDs orders bridge ids numerically where possible ("2" before "10"), falling back to string order.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
