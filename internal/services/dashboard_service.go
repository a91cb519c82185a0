package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/cache"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"gorm.io/gorm"
)

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

const heatmapLevels = 5

type DashboardService struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
	loc   *time.Location
}

func NewDashboardService(db *gorm.DB, c cache.Cache, ttl time.Duration, loc *time.Location) *DashboardService {
	if c == nil {
		c = cache.Noop{}
	}
	return &DashboardService{db: db, cache: c, ttl: ttl, loc: loc}
}

// cached serves key from the cache, computing and storing it on a miss.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *DashboardService, key string, compute func() (T, error)) (T, error) {
	var out T
	hit, err := s.cache.GetJSON(ctx, key, &out)
	if err != nil {
		slog.Warn("dashboard cache read failed", "key", key, "error", err)
	}
	if hit {
		return out, nil
	}

	out, err = compute()
	if err != nil {
		return out, err
	}
	if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
		slog.Warn("dashboard cache write failed", "key", key, "error", err)
	}
	return out, nil
}

type responsePair struct {
	ReportCreatedAt time.Time
	ReplyCreatedAt  time.Time
}

func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardOverview, error) {
	out, err := cached(ctx, s, "dashboard:overview", func() (dto.DashboardOverview, error) {
		db := s.db.WithContext(ctx)
		var overview dto.DashboardOverview

		if err := db.Model(&models.Report{}).Count(&overview.TotalReports).Error; err != nil {
			return overview, fmt.Errorf("failed to count reports: %w", err)
		}
		var answered int64
		if err := db.Model(&models.Report{}).Where("status = ?", models.ReportStatusAnswered).Count(&answered).Error; err != nil {
			return overview, fmt.Errorf("failed to count answered reports: %w", err)
		}
		if err := db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&overview.PendingReports).Error; err != nil {
			return overview, fmt.Errorf("failed to count pending reports: %w", err)
		}

		var pairs []responsePair
		err := db.Table("reports").
			Select("reports.created_at AS report_created_at, reply_ledgers.created_at AS reply_created_at").
			Joins("JOIN reply_ledgers ON reply_ledgers.report_id = reports.id").
			Scan(&pairs).Error
		if err != nil {
			return overview, fmt.Errorf("failed to load response times: %w", err)
		}

		overview.AnsweredRate = answeredRate(answered, overview.TotalReports)
		overview.AvgResponseTime = averageResponse(pairs)
		return overview, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Monthly(ctx context.Context, year int) (*dto.MonthlyChart, error) {
	out, err := cached(ctx, s, "dashboard:monthly:"+strconv.Itoa(year), func() (dto.MonthlyChart, error) {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
		end := start.AddDate(1, 0, 0)

		var created []time.Time
		err := s.db.WithContext(ctx).Model(&models.Report{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Pluck("created_at", &created).Error
		if err != nil {
			return dto.MonthlyChart{}, fmt.Errorf("failed to load monthly reports: %w", err)
		}
		return monthlyChart(year, created, s.loc), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Heatmap(ctx context.Context) (*dto.Heatmap, error) {
	out, err := cached(ctx, s, "dashboard:heatmap", func() (dto.Heatmap, error) {
		var created []time.Time
		if err := s.db.WithContext(ctx).Model(&models.Report{}).Pluck("created_at", &created).Error; err != nil {
			return dto.Heatmap{}, fmt.Errorf("failed to load report times: %w", err)
		}
		return heatmap(created, s.loc), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func answeredRate(answered, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(answered) * 100 / float64(total)))
}

// averageResponse ignores pairs where the reply predates the report.
func averageResponse(pairs []responsePair) dto.ResponseTime {
	var sum time.Duration
	var n int64
	for _, p := range pairs {
		d := p.ReplyCreatedAt.Sub(p.ReportCreatedAt)
		if d <= 0 {
			continue
		}
		sum += d
		n++
	}
	if n == 0 {
		return dto.ResponseTime{}
	}
	avg := sum / time.Duration(n)
	return dto.ResponseTime{
		Hours:   int(avg / time.Hour),
		Minutes: int((avg % time.Hour) / time.Minute),
	}
}

func monthlyChart(year int, created []time.Time, loc *time.Location) dto.MonthlyChart {
	chart := dto.MonthlyChart{Year: year, Months: make([]dto.MonthlyBucket, 12)}
	for i, label := range monthLabels {
		chart.Months[i].Month = label
	}
	for _, t := range created {
		t = t.In(loc)
		if t.Year() != year {
			continue
		}
		chart.Months[t.Month()-1].Total++
	}
	return chart
}

func heatmap(created []time.Time, loc *time.Location) dto.Heatmap {
	var h dto.Heatmap
	for _, t := range created {
		t = t.In(loc)
		h.Counts[t.Weekday()][t.Hour()]++
	}
	for d := range h.Counts {
		for hr := range h.Counts[d] {
			if h.Counts[d][hr] > h.Max {
				h.Max = h.Counts[d][hr]
			}
		}
	}
	if h.Max == 0 {
		return h
	}
	for d := range h.Counts {
		for hr, v := range h.Counts[d] {
			level := int(math.Floor(float64(v) / float64(h.Max) * heatmapLevels))
			h.Levels[d][hr] = min(heatmapLevels, level)
		}
	}
	return h
}
