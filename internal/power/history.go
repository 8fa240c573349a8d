package power

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

type historyRepo interface {
	ReadTotalsSince(ctx context.Context, since time.Time) ([]models.TotalsSample, error)
	ReadLightConsumption(ctx context.Context) ([]models.LightConsumption, error)
	ReadLightConsumptionSince(ctx context.Context, since time.Time) ([]models.LightConsumption, error)
	ReadLightSamplesSince(ctx context.Context, lightID string, since time.Time) ([]models.PowerSample, error)
}

// HistoryService aggregates the logged samples for the dashboard's history view
type HistoryService struct {
	logger   *log.Logger
	repo     historyRepo
	interval time.Duration
	// per kWh, for the monthly cost
	price float64
	loc   *time.Location
	now   func() time.Time
}

// NewHistoryService creates the service. repo may be nil when persistence is disabled.
func NewHistoryService(logger *log.Logger, repo historyRepo, energyPrice float64) *HistoryService {
	return &HistoryService{
		logger:   logger,
		repo:     repo,
		interval: constants.PowerSampleInterval,
		price:    energyPrice,
		loc:      time.Local,
		now:      time.Now,
	}
}

func (h *HistoryService) available() error {
	if h.repo == nil {
		return fmt.Errorf("database logging is disabled: %w", models.ErrPersistenceUnavailable)
	}
	return nil
}

// History returns daily summaries for the last week (newest first), today's hourly view and the
// all time top consumers.
func (h *HistoryService) History(ctx context.Context) (models.PowerHistory, error) {
	if err := h.available(); err != nil {
		return models.PowerHistory{}, err
	}

	now := h.now().In(h.loc)
	today := startOfDay(now)
	since := today.AddDate(0, 0, -(constants.DailySummaryDays - 1))

	totals, err := h.repo.ReadTotalsSince(ctx, since)
	if err != nil {
		return models.PowerHistory{}, err
	}
	consumption, err := h.repo.ReadLightConsumption(ctx)
	if err != nil {
		return models.PowerHistory{}, err
	}

	h.logger.Debug("Aggregating power history", "samples", len(totals), "lights", len(consumption))

	todays := lo.Filter(totals, func(sample models.TotalsSample, _ int) bool {
		return !sample.Timestamp.In(h.loc).Before(today)
	})

	return models.PowerHistory{
		DailySummary: DailySummaries(totals, h.interval, h.loc),
		TodayHourly:  HourlySummaries(todays, h.loc),
		TopConsumers: RankTopConsumers(consumption, h.interval, constants.TopConsumersLimit),
	}, nil
}

// DailySummaries groups samples by local calendar day, newest day first
func DailySummaries(totals []models.TotalsSample, interval time.Duration, loc *time.Location) []models.DailySummary {
	byDay := lo.GroupBy(totals, func(sample models.TotalsSample) string {
		return sample.Timestamp.In(loc).Format(time.DateOnly)
	})

	summaries := lo.MapToSlice(byDay, func(day string, samples []models.TotalsSample) models.DailySummary {
		watts := lo.Map(samples, func(s models.TotalsSample, _ int) float64 { return s.TotalWatts })
		lights := lo.SumBy(samples, func(s models.TotalsSample) int { return s.ActiveLights })
		sum := lo.Sum(watts)
		return models.DailySummary{
			Date:      day,
			AvgWatts:  round(sum/float64(len(samples)), 2),
			MaxWatts:  lo.Max(watts),
			KWh:       round(kWh(sum, interval), 3),
			AvgLights: round(float64(lights)/float64(len(samples)), 1),
			Samples:   len(samples),
		}
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date > summaries[j].Date })
	return summaries
}

// HourlySummaries groups samples by local hour of day, in hour order
func HourlySummaries(totals []models.TotalsSample, loc *time.Location) []models.HourlySummary {
	byHour := lo.GroupBy(totals, func(sample models.TotalsSample) int {
		return sample.Timestamp.In(loc).Hour()
	})

	summaries := lo.MapToSlice(byHour, func(hour int, samples []models.TotalsSample) models.HourlySummary {
		watts := lo.Map(samples, func(s models.TotalsSample, _ int) float64 { return s.TotalWatts })
		lights := lo.SumBy(samples, func(s models.TotalsSample) int { return s.ActiveLights })
		return models.HourlySummary{
			Hour:      hour,
			AvgWatts:  round(lo.Sum(watts)/float64(len(samples)), 2),
			MaxWatts:  lo.Max(watts),
			AvgLights: round(float64(lights)/float64(len(samples)), 1),
		}
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Hour < summaries[j].Hour })
	return summaries
}

// RankTopConsumers orders lights by cumulative consumption, highest first, and keeps the top limit
func RankTopConsumers(consumption []models.LightConsumption, interval time.Duration, limit int) []models.LightConsumption {
	ranked := lo.Map(consumption, func(c models.LightConsumption, _ int) models.LightConsumption {
		c.TotalKWh = round(kWh(c.SumWatts, interval), 3)
		if c.Measurements > 0 {
			c.AvgWatts = round(c.SumWatts/float64(c.Measurements), 2)
			c.OnPercentage = round(float64(c.OnSamples)/float64(c.Measurements)*100, 1)
		}
		return c
	})

	// ordered on the unrounded sums so rounding can't reorder close values
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SumWatts == ranked[j].SumWatts {
			return ranked[i].LightID < ranked[j].LightID
		}
		return ranked[i].SumWatts > ranked[j].SumWatts
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Detailed buckets the totals over the timeframe and ranks the lights by what they used in it
func (h *HistoryService) Detailed(ctx context.Context, timeframe models.Timeframe) (models.DetailedPower, error) {
	if err := h.available(); err != nil {
		return models.DetailedPower{}, err
	}

	since := windowStart(timeframe, h.now().In(h.loc))
	totals, err := h.repo.ReadTotalsSince(ctx, since)
	if err != nil {
		return models.DetailedPower{}, err
	}
	consumption, err := h.repo.ReadLightConsumptionSince(ctx, since)
	if err != nil {
		return models.DetailedPower{}, err
	}

	return models.DetailedPower{
		Timeframe:    timeframe,
		DetailedData: TotalsBuckets(totals, timeframe, h.loc),
		TopLights:    RankTopConsumers(consumption, h.interval, constants.DetailedTopLightsLimit),
	}, nil
}

// Lamp buckets one light's samples over the timeframe
func (h *HistoryService) Lamp(ctx context.Context, lightID string, timeframe models.Timeframe) (models.LampPower, error) {
	if err := h.available(); err != nil {
		return models.LampPower{}, err
	}

	samples, err := h.repo.ReadLightSamplesSince(ctx, lightID, windowStart(timeframe, h.now().In(h.loc)))
	if err != nil {
		return models.LampPower{}, err
	}

	name := fmt.Sprintf("Lamp %s", lightID)
	if len(samples) > 0 {
		name = samples[len(samples)-1].LightName
	}
	return models.LampPower{
		LampID:       lightID,
		LampName:     name,
		Timeframe:    timeframe,
		DetailedData: LampBuckets(samples, timeframe, h.loc),
	}, nil
}

// Weekly summarises the last 30 days by day of the week
func (h *HistoryService) Weekly(ctx context.Context) (models.WeeklyPower, error) {
	if err := h.available(); err != nil {
		return models.WeeklyPower{}, err
	}

	totals, err := h.repo.ReadTotalsSince(ctx, h.now().In(h.loc).AddDate(0, 0, -constants.WeeklyViewDays))
	if err != nil {
		return models.WeeklyPower{}, err
	}
	return models.WeeklyPower{
		WeekdaySummary: WeekdaySummaries(totals, h.interval, h.loc),
		WeekdayHourly:  WeekdayHourly(totals, h.loc),
	}, nil
}

// Monthly summarises the last 12 months by calendar month, newest first
func (h *HistoryService) Monthly(ctx context.Context) (models.MonthlyPower, error) {
	if err := h.available(); err != nil {
		return models.MonthlyPower{}, err
	}

	totals, err := h.repo.ReadTotalsSince(ctx, h.now().In(h.loc).AddDate(0, -constants.MonthlyViewMonths, 0))
	if err != nil {
		return models.MonthlyPower{}, err
	}
	return models.MonthlyPower{MonthlySummary: MonthlySummaries(totals, h.interval, h.price, h.loc)}, nil
}

func windowStart(timeframe models.Timeframe, now time.Time) time.Time {
	switch timeframe {
	case models.TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case models.TimeframeMonth:
		return now.AddDate(0, 0, -30)
	}
	return startOfDay(now)
}

// bucketLabel names the bucket a sample falls in. Labels sort in time order within a timeframe.
func bucketLabel(timeframe models.Timeframe, t time.Time) string {
	switch timeframe {
	case models.TimeframeWeek:
		return t.Format("2006-01-02 15:00")
	case models.TimeframeMonth:
		return t.Format(time.DateOnly)
	}
	return t.Format("15:04")
}

// TotalsBuckets groups the totals into the timeframe's buckets, oldest first
func TotalsBuckets(totals []models.TotalsSample, timeframe models.Timeframe, loc *time.Location) []models.TotalsBucket {
	byBucket := lo.GroupBy(totals, func(sample models.TotalsSample) string {
		return bucketLabel(timeframe, sample.Timestamp.In(loc))
	})

	buckets := lo.MapToSlice(byBucket, func(label string, samples []models.TotalsSample) models.TotalsBucket {
		watts := lo.Map(samples, func(s models.TotalsSample, _ int) float64 { return s.TotalWatts })
		lights := lo.SumBy(samples, func(s models.TotalsSample) int { return s.ActiveLights })
		return models.TotalsBucket{
			Time:      label,
			AvgWatts:  round(lo.Sum(watts)/float64(len(samples)), 2),
			MaxWatts:  lo.Max(watts),
			MinWatts:  lo.Min(watts),
			AvgLights: round(float64(lights)/float64(len(samples)), 1),
		}
	})

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Time < buckets[j].Time })
	return buckets
}

// LampBuckets groups one light's samples into the timeframe's buckets, oldest first
func LampBuckets(samples []models.PowerSample, timeframe models.Timeframe, loc *time.Location) []models.LampBucket {
	byBucket := lo.GroupBy(samples, func(sample models.PowerSample) string {
		return bucketLabel(timeframe, sample.Timestamp.In(loc))
	})

	buckets := lo.MapToSlice(byBucket, func(label string, samples []models.PowerSample) models.LampBucket {
		watts := lo.Map(samples, func(s models.PowerSample, _ int) float64 { return s.Watts })
		bri := lo.SumBy(samples, func(s models.PowerSample) int { return s.Brightness })
		return models.LampBucket{
			Time:          label,
			AvgWatts:      round(lo.Sum(watts)/float64(len(samples)), 2),
			MaxWatts:      lo.Max(watts),
			MinWatts:      lo.Min(watts),
			AvgBrightness: round(float64(bri)/float64(len(samples)), 1),
		}
	})

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Time < buckets[j].Time })
	return buckets
}

// WeekdaySummaries groups the totals by local day of the week, Sunday first
func WeekdaySummaries(totals []models.TotalsSample, interval time.Duration, loc *time.Location) []models.WeekdaySummary {
	byDay := lo.GroupBy(totals, func(sample models.TotalsSample) time.Weekday {
		return sample.Timestamp.In(loc).Weekday()
	})

	summaries := lo.MapToSlice(byDay, func(day time.Weekday, samples []models.TotalsSample) models.WeekdaySummary {
		watts := lo.Map(samples, func(s models.TotalsSample, _ int) float64 { return s.TotalWatts })
		dates := lo.Uniq(lo.Map(samples, func(s models.TotalsSample, _ int) string {
			return s.Timestamp.In(loc).Format(time.DateOnly)
		}))
		return models.WeekdaySummary{
			Weekday:     day.String(),
			DayNum:      int(day) + 1,
			AvgWatts:    round(lo.Sum(watts)/float64(len(samples)), 2),
			MaxWatts:    lo.Max(watts),
			MinWatts:    lo.Min(watts),
			TotalKWh:    round(kWh(lo.Sum(watts), interval), 3),
			DaysCounted: len(dates),
		}
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].DayNum < summaries[j].DayNum })
	return summaries
}

// WeekdayHourly averages the totals per local day of the week and hour of day
func WeekdayHourly(totals []models.TotalsSample, loc *time.Location) []models.WeekdayHour {
	type slot struct {
		day  time.Weekday
		hour int
	}
	bySlot := lo.GroupBy(totals, func(sample models.TotalsSample) slot {
		local := sample.Timestamp.In(loc)
		return slot{day: local.Weekday(), hour: local.Hour()}
	})

	slots := lo.Keys(bySlot)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].day != slots[j].day {
			return slots[i].day < slots[j].day
		}
		return slots[i].hour < slots[j].hour
	})

	return lo.Map(slots, func(key slot, _ int) models.WeekdayHour {
		samples := bySlot[key]
		return models.WeekdayHour{
			Weekday:  key.day.String(),
			Hour:     key.hour,
			AvgWatts: round(lo.SumBy(samples, func(s models.TotalsSample) float64 { return s.TotalWatts })/float64(len(samples)), 2),
		}
	})
}

// MonthlySummaries groups the totals by local calendar month, newest first, pricing the energy
// at price per kWh
func MonthlySummaries(totals []models.TotalsSample, interval time.Duration, price float64, loc *time.Location) []models.MonthlySummary {
	byMonth := lo.GroupBy(totals, func(sample models.TotalsSample) string {
		return sample.Timestamp.In(loc).Format("2006-01")
	})

	summaries := lo.MapToSlice(byMonth, func(month string, samples []models.TotalsSample) models.MonthlySummary {
		watts := lo.Map(samples, func(s models.TotalsSample, _ int) float64 { return s.TotalWatts })
		lights := lo.SumBy(samples, func(s models.TotalsSample) int { return s.ActiveLights })
		dates := lo.Uniq(lo.Map(samples, func(s models.TotalsSample, _ int) string {
			return s.Timestamp.In(loc).Format(time.DateOnly)
		}))
		energy := kWh(lo.Sum(watts), interval)
		return models.MonthlySummary{
			Month:       month,
			AvgWatts:    round(lo.Sum(watts)/float64(len(samples)), 2),
			MaxWatts:    lo.Max(watts),
			TotalKWh:    round(energy, 3),
			AvgLights:   round(float64(lights)/float64(len(samples)), 1),
			DaysInMonth: len(dates),
			Cost:        round(energy*price, 2),
		}
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Month > summaries[j].Month })
	return summaries
}

// kWh converts a sum of per-sample watts into energy, each sample standing for one interval
func kWh(sumWatts float64, interval time.Duration) float64 {
	return sumWatts / 1000 * interval.Hours()
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
