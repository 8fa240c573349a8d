package constants

import "time"

// bridge
const BridgeTimeout = 5 * time.Second
const DiscoveryTimeout = 10 * time.Second
const OnboardingDeviceType = "huepanel#server"
const DefaultBridgeRateLimit = 20
const BridgeEventStreamPath = "/eventstream/clip/v2"

// max parallel requests for operations across every light or group
const GlobalFanOut = 4

// group 0 is the bridge's implicit "all lights" group
const AllLightsGroupID = "0"

// hue value ranges (v1 api)
const MaxBrightness = 254
const MaxSaturation = 254
const HueRange = 65536

// power estimation
const PowerSampleInterval = 300 * time.Second
const RatedMaxWatts = 9.0
const TopConsumersLimit = 10
const DailySummaryDays = 7
const DetailedTopLightsLimit = 20
const WeeklyViewDays = 30
const MonthlyViewMonths = 12
const DefaultEnergyPrice = 0.30 // per kWh

// timers
const MaxTimerDelay = 24 * time.Hour

// effects
const ColorLoopTick = 100 * time.Millisecond
const ColorLoopHueStep = 1000
const PulseTick = 100 * time.Millisecond
const RainbowTick = 200 * time.Millisecond
const FireTick = 300 * time.Millisecond
const WaveTick = 500 * time.Millisecond
const SunsetTick = time.Second
const LightningTick = 100 * time.Millisecond
const DefaultSunsetDuration = 10 * time.Minute
const SunsetStartBrightness = MaxBrightness
const SunsetStartCT = 153 // mirek
const SunsetEndBrightness = 40
const SunsetEndCT = 500
const LightningDimBrightness = 30
const DefaultRainbowCycle = time.Minute
const FinishedEffectMemory = time.Hour
const MaxFinishedEffects = 256
const EmergencyOffTransition = 10 // deciseconds

// persistence
const DBQueryTimeout = 5 * time.Second
const DefaultDBPoolSize = 5

// notifier streams/topics
const EventStream = "events"
const EventTypeEffectStarted = "effect.started"
const EventTypeEffectStopped = "effect.stopped"
const EventTypeTimerScheduled = "timer.scheduled"
const EventTypeTimerFired = "timer.fired"
const EventTypeTimerCancelled = "timer.cancelled"
const EventTypePowerReading = "power.reading"
const EventTypeLightUpdated = "light.updated"
