package services

import (
	"context"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	store repositories.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store repositories.Store) *DashboardService {
	return &DashboardService{store: store}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Donation statistics
	TotalDonations    int64            `json:"total_donations"`
	DonationsByStatus map[string]int64 `json:"donations_by_status"`
	DeliveredQuantity float64          `json:"delivered_quantity"`

	// User statistics
	TotalUsers  int64            `json:"total_users"`
	UsersByRole map[string]int64 `json:"users_by_role"`

	// Recent activity
	RecentDonations []*DonationResponse `json:"recent_donations"`
}

// recentLimit is how many of the newest donations the dashboard shows
const recentLimit = 5

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	byStatus, delivered, err := s.store.Donations().Stats(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.store.Donations().List(ctx, domain.DonationFilter{Limit: recentLimit})
	if err != nil {
		return nil, err
	}

	data := &AdminDashboardData{
		DonationsByStatus: make(map[string]int64, len(domain.Statuses)),
		DeliveredQuantity: delivered,
		UsersByRole:       make(map[string]int64, len(domain.Roles)),
		RecentDonations:   NewDonationResponses(recent),
	}

	// every status and role is reported, zero counts included
	for _, st := range domain.Statuses {
		data.DonationsByStatus[string(st)] = byStatus[st]
		data.TotalDonations += byStatus[st]
	}
	for _, r := range domain.Roles {
		data.UsersByRole[string(r)] = byRole[r]
		data.TotalUsers += byRole[r]
	}

	return data, nil
}
