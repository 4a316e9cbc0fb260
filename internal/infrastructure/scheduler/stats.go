// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/huellitas/vetrecords/internal/api/metrics"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

const refreshTimeout = 10 * time.Second

// DefaultSchedule refreshes the gauges once a minute.
const DefaultSchedule = "@every 1m"

type roleCounter interface {
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type lowStockCounter interface {
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// StatsRefresher keeps the administrator and low stock gauges current.
type StatsRefresher struct {
	users     roleCounter
	products  lowStockCounter
	threshold int
	log       zerolog.Logger
}

func NewStatsRefresher(users roleCounter, products lowStockCounter, threshold int, log zerolog.Logger) *StatsRefresher {
	return &StatsRefresher{users: users, products: products, threshold: threshold, log: log}
}

// Refresh recomputes both gauges. A failing count leaves its gauge untouched.
func (s *StatsRefresher) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if n, err := s.users.CountByRole(ctx, domain.RoleAdministrator); err != nil {
		s.log.Warn().Err(err).Msg("failed to count administrators")
	} else {
		metrics.AdministratorsCount.Set(float64(n))
	}

	if n, err := s.products.CountLowStock(ctx, s.threshold); err != nil {
		s.log.Warn().Err(err).Msg("failed to count low stock products")
	} else {
		metrics.LowStockProducts.Set(float64(n))
	}
}

// Start schedules Refresh on schedule, runs it once immediately and returns the
// running cron. Stop it with Stop on shutdown.
func (s *StatsRefresher) Start(ctx context.Context, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Refresh(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule stats refresh %q: %w", schedule, err)
	}

	s.Refresh(ctx)
	c.Start()
	s.log.Info().Str("schedule", schedule).Msg("stats refresher started")
	return c, nil
}
