package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodbridge-api/internal/core/domain"
)

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO)
	volunteer := f.addUser(t, domain.RoleVolunteer)
	f.addUser(t, domain.RoleAdmin)

	d := f.addDonation(t, donor.ID, 7)
	f.addDonation(t, donor.ID, 3)

	_, err := f.donations.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)
	_, err = f.donations.PickUp(f.ctx, d.ID, volunteer.ID)
	require.NoError(t, err)
	_, err = f.donations.Deliver(f.ctx, d.ID, volunteer.ID)
	require.NoError(t, err)

	data, err := NewDashboardService(f.store).GetAdminDashboard(f.ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, data.TotalDonations)
	assert.EqualValues(t, 1, data.DonationsByStatus["AVAILABLE"])
	assert.EqualValues(t, 1, data.DonationsByStatus["DELIVERED"])
	assert.EqualValues(t, 0, data.DonationsByStatus["CLAIMED"])
	assert.Contains(t, data.DonationsByStatus, "PICKED_UP")
	assert.Equal(t, 7.0, data.DeliveredQuantity)

	assert.EqualValues(t, 4, data.TotalUsers)
	assert.EqualValues(t, 1, data.UsersByRole["NGO"])
	assert.Len(t, data.RecentDonations, 2)
}
