package reporting

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ReportingUseCase interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type ReportingService struct {
	repo repository.StatsRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewReportingService(repo repository.StatsRepository, log *zap.Logger, now func() time.Time) *ReportingService {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &ReportingService{repo: repo, log: log, now: now}
}

// Stats runs the dashboard counts concurrently. A failing count fails the
// call; revenue degrades to 0 instead.
func (s *ReportingService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	from, to := DayBounds(s.now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repo.CountProfiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveFlights, err = s.repo.CountFlightsByStatus(gctx, domain.FlightStatusActive)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayBookings, err = s.repo.CountLiveBookingsCreatedBetween(gctx, from, to)
		return err
	})
	g.Go(func() error {
		stats.TotalRevenue = s.revenue(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// revenue tries the joined sum first, then sums prices looked up by flight id.
func (s *ReportingService) revenue(ctx context.Context) int64 {
	total, err := s.repo.RevenueJoined(ctx)
	if err == nil {
		return total
	}
	s.log.Warn("joined revenue query failed, summing per flight", zap.Error(err))

	flightIDs, err := s.repo.LiveBookingFlightIDs(ctx)
	if err != nil {
		s.log.Warn("revenue unavailable", zap.Error(err))
		return 0
	}
	if len(flightIDs) == 0 {
		return 0
	}

	prices, err := s.repo.FlightPrices(ctx, distinct(flightIDs))
	if err != nil {
		s.log.Warn("revenue unavailable", zap.Error(err))
		return 0
	}
	return SumRevenue(flightIDs, prices)
}

// SumRevenue adds the price of the flight behind each booking. Flights with no
// known price contribute nothing.
func SumRevenue(bookingFlightIDs []int64, prices map[int64]int64) int64 {
	var total int64
	for _, id := range bookingFlightIDs {
		total += prices[id]
	}
	return total
}

// DayBounds returns [local midnight, next local midnight) around now.
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

var _ ReportingUseCase = (*ReportingService)(nil)
