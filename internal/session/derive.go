package session

import (
	"fmt"
	"math"
	"time"

	"github.com/ukydev/ototansan/internal/locale"
	"github.com/ukydev/ototansan/internal/models"
)

// RecentLimit is the number of records shown on the dashboard.
const RecentLimit = 5

// Stats are the aggregates shown on the dashboard.
type Stats struct {
	TotalServices    int       `json:"total_services"`
	UniqueCars       int       `json:"unique_cars"`
	TotalKmTracked   int       `json:"total_km_tracked"`
	AverageKm        int       `json:"average_km"` // thousands of km
	AverageKmLabel   string    `json:"average_km_label"`
	LastServiceDate  time.Time `json:"last_service_date"`
	LastServiceLabel string    `json:"last_service_label"`
	TotalCustomers   int       `json:"total_customers"`
}

// VisibleRecords returns the records user may see: every record for admins,
// only their own for users. Order is preserved and all is never modified.
func VisibleRecords(all []models.ServiceRecord, user *models.User) []models.ServiceRecord {
	if user == nil {
		return []models.ServiceRecord{}
	}

	switch {
	case user.HasPermission(models.ActionViewAllRecords):
		out := make([]models.ServiceRecord, len(all))
		copy(out, all)
		return out
	case user.HasPermission(models.ActionViewRecords):
		out := make([]models.ServiceRecord, 0, len(all))
		for _, r := range all {
			if r.OwnerID == user.ID {
				out = append(out, r)
			}
		}
		return out
	default:
		return []models.ServiceRecord{}
	}
}

// ComputeStats aggregates the visible records. TotalCustomers counts distinct
// owners over all records regardless of role; callers hide it from users
// without the view-customers permission.
func ComputeStats(visible, all []models.ServiceRecord, loc locale.Locale) Stats {
	var s Stats

	s.TotalServices = len(visible)

	cars := make(map[string]struct{}, len(visible))
	for _, r := range visible {
		cars[r.CarModel] = struct{}{}
		s.TotalKmTracked += r.Kilometers
		if d := r.ServiceDate(); d.After(s.LastServiceDate) {
			s.LastServiceDate = d
		}
	}
	s.UniqueCars = len(cars)

	denominator := s.TotalServices
	if denominator < 1 {
		denominator = 1
	}
	s.AverageKm = int(math.Round(float64(s.TotalKmTracked) / float64(denominator) / 1000))
	s.AverageKmLabel = fmt.Sprintf("%d rb", s.AverageKm)

	s.LastServiceLabel = loc.FormatShortDate(s.LastServiceDate)

	owners := make(map[string]struct{}, len(all))
	for _, r := range all {
		owners[r.OwnerID] = struct{}{}
	}
	s.TotalCustomers = len(owners)

	return s
}

// Recent returns at most n leading records.
func Recent(records []models.ServiceRecord, n int) []models.ServiceRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
