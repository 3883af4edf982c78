package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodbridge-api/internal/core/domain"
)

func TestClaimReservesDonation(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO, withCapacity(100, 20))
	d := f.addDonation(t, donor.ID, 15)

	claimed, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedByID)
	assert.Equal(t, ngo.ID, *claimed.ClaimedByID)

	assert.Equal(t, 35.0, f.user(t, ngo.ID).CurrentIntakeLoad)
	assert.Equal(t, domain.StatusClaimed, f.donation(t, d.ID).Status)
	assert.Contains(t, f.events.Events(), EventDonationClaimed)
}

func TestClaimOverCapacityLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO, withCapacity(100, 90))
	d := f.addDonation(t, donor.ID, 15)

	_, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	assert.Equal(t, 90.0, f.user(t, ngo.ID).CurrentIntakeLoad)
	got := f.donation(t, d.ID)
	assert.Equal(t, domain.StatusAvailable, got.Status)
	assert.Nil(t, got.ClaimedByID)
}

func TestClaimExactlyAtCapacity(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO, withCapacity(100, 85))
	d := f.addDonation(t, donor.ID, 15)

	_, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.user(t, ngo.ID).CurrentIntakeLoad)
}

func TestClaimDefaultCapacity(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO, func(u *domain.User) {
		u.DailyIntakeCapacity = nil
		u.CurrentIntakeLoad = 95
	})
	d := f.addDonation(t, donor.ID, 10)

	_, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestClaimRejections(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	volunteer := f.addUser(t, domain.RoleVolunteer)
	suspended := f.addUser(t, domain.RoleNGO, func(u *domain.User) { u.IsActive = false })
	ngo := f.addUser(t, domain.RoleNGO)
	other := f.addUser(t, domain.RoleNGO)
	d := f.addDonation(t, donor.ID, 5)

	_, err := f.claims.Claim(f.ctx, d.ID, volunteer.ID)
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	_, err = f.claims.Claim(f.ctx, d.ID, donor.ID)
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	_, err = f.claims.Claim(f.ctx, d.ID, suspended.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.claims.Claim(f.ctx, d.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.claims.Claim(f.ctx, "missing", ngo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.claims.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)

	_, err = f.claims.Claim(f.ctx, d.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	// the second claim must not touch the loser's load
	assert.Zero(t, f.user(t, other.ID).CurrentIntakeLoad)
}

func TestClaimRequiresVerifiedNGO(t *testing.T) {
	f := newFixture(t)
	f.claims.requireVerified = true

	donor := f.addUser(t, domain.RoleDonor)
	unverified := f.addUser(t, domain.RoleNGO)
	verified := f.addUser(t, domain.RoleNGO, func(u *domain.User) { u.IsVerified = true })
	d := f.addDonation(t, donor.ID, 5)

	_, err := f.claims.Claim(f.ctx, d.ID, unverified.ID)
	assert.ErrorIs(t, err, domain.ErrNGONotVerified)

	_, err = f.claims.Claim(f.ctx, d.ID, verified.ID)
	assert.NoError(t, err)
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	d := f.addDonation(t, donor.ID, 10)

	const contenders = 12
	ngos := make([]*domain.User, contenders)
	for i := range ngos {
		ngos[i] = f.addUser(t, domain.RoleNGO)
	}

	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i, ngo := range ngos {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = f.claims.Claim(f.ctx, d.ID, id)
		}(i, ngo.ID)
	}
	wg.Wait()

	winners := 0
	var winner uint
	for i, err := range errs {
		if err == nil {
			winners++
			winner = ngos[i].ID
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
	}
	require.Equal(t, 1, winners)

	got := f.donation(t, d.ID)
	assert.Equal(t, domain.StatusClaimed, got.Status)
	assert.Equal(t, winner, *got.ClaimedByID)

	for _, ngo := range ngos {
		load := f.user(t, ngo.ID).CurrentIntakeLoad
		if ngo.ID == winner {
			assert.Equal(t, 10.0, load)
		} else {
			assert.Zero(t, load)
		}
	}
}

func TestConcurrentClaimsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO, withCapacity(50, 0))

	const listings = 10
	ids := make([]string, listings)
	for i := range ids {
		ids[i] = f.addDonation(t, donor.ID, 10).ID
	}

	errs := make([]error, listings)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.claims.Claim(f.ctx, id, ngo.ID)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 50.0, f.user(t, ngo.ID).CurrentIntakeLoad)
}

func TestClaimRetriesTransientConflicts(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO)
	d := f.addDonation(t, donor.ID, 5)

	f.store.FailNextTx(domain.ErrTransientConflict, domain.ErrTransientConflict)

	_, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, f.user(t, ngo.ID).CurrentIntakeLoad)
}

func TestClaimGivesUpAfterRetries(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO)
	d := f.addDonation(t, donor.ID, 5)

	f.store.FailNextTx(domain.ErrTransientConflict, domain.ErrTransientConflict, domain.ErrTransientConflict)

	_, err := f.claims.Claim(f.ctx, d.ID, ngo.ID)
	assert.ErrorIs(t, err, domain.ErrTransientConflict)
	assert.Equal(t, domain.StatusAvailable, f.donation(t, d.ID).Status)
}

func TestClaimOutcomeLabels(t *testing.T) {
	assert.Equal(t, "claimed", claimOutcome(nil))
	assert.Equal(t, "capacity_exceeded", claimOutcome(domain.ErrCapacityExceeded))
	assert.Equal(t, "already_claimed", claimOutcome(domain.ErrAlreadyClaimed))
}
