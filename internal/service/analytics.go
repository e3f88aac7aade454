package service

import (
	"context"
	"math"

	"github.com/deskatlas/seat-allocation/internal/repository"
)

// OrgUtilization summarizes seat occupancy across the organization.
type OrgUtilization struct {
	TotalSeats         int `json:"total_seats"`
	OccupiedSeats      int `json:"occupied_seats"`
	AvailableSeats     int `json:"available_seats"`
	UtilizationPercent int `json:"utilization_percent"`
}

// FloorUtilization is the per-floor view of the same report.
type FloorUtilization struct {
	FloorID            uint64 `json:"floor_id"`
	FloorName          string `json:"floor_name"`
	TotalSeats         int    `json:"total_seats"`
	OccupiedSeats      int    `json:"occupied_seats"`
	UtilizationPercent int    `json:"utilization_percent"`
}

// AnalyticsService reports seat utilization derived from the seats and
// active-assignment tables.  Reads are plain aggregates with no locking;
// the numbers are a snapshot, not a serialized view.
type AnalyticsService struct {
	analytics *repository.AnalyticsRepo
}

func NewAnalyticsService(analytics *repository.AnalyticsRepo) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// utilizationPercent rounds occupied/total to a whole percentage.  An
// organization or floor with no seats reports zero rather than dividing.
func utilizationPercent(occupied, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// SeatUtilization returns the organization-wide occupancy summary.
func (s *AnalyticsService) SeatUtilization(ctx context.Context, orgID uint64) (*OrgUtilization, error) {
	total, err := s.analytics.CountSeatsByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.analytics.CountOccupiedSeatsByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &OrgUtilization{
		TotalSeats:         total,
		OccupiedSeats:      occupied,
		AvailableSeats:     total - occupied,
		UtilizationPercent: utilizationPercent(occupied, total),
	}, nil
}

// FloorUtilizations returns one occupancy row per floor of the
// organization, floors without seats included.
func (s *AnalyticsService) FloorUtilizations(ctx context.Context, orgID uint64) ([]FloorUtilization, error) {
	usage, err := s.analytics.ListFloorUsage(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]FloorUtilization, 0, len(usage))
	for _, u := range usage {
		out = append(out, FloorUtilization{
			FloorID:            u.FloorID,
			FloorName:          u.FloorName,
			TotalSeats:         u.TotalSeats,
			OccupiedSeats:      u.OccupiedSeats,
			UtilizationPercent: utilizationPercent(u.OccupiedSeats, u.TotalSeats),
		})
	}
	return out, nil
}
