package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
)

func TestToggleActiveCannotSuspendAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, domain.RoleAdmin)
	other := f.addUser(t, domain.RoleAdmin)

	_, err := f.users.ToggleActive(f.ctx, other.ID, admin.ID)
	require.ErrorIs(t, err, domain.ErrCannotSuspendAdmin)
	assert.Equal(t, "Cannot suspend an administrator account", err.Error())
	assert.True(t, f.user(t, other.ID).IsActive)

	_, err = f.users.ToggleActive(f.ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, domain.ErrCannotSuspendAdmin)
}

func TestToggleActiveSuspendsAndRevokesSessions(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, domain.RoleAdmin)

	session, err := f.auth.Register(f.ctx, &RegisterInput{
		Name:     "Somchai",
		Email:    "somchai@example.org",
		Password: "secret123",
		Role:     "VOLUNTEER",
	})
	require.NoError(t, err)

	suspended, err := f.users.ToggleActive(f.ctx, session.User.ID, admin.ID)
	require.NoError(t, err)
	assert.False(t, suspended.IsActive)

	_, err = f.auth.RefreshToken(f.ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.Login(f.ctx, &LoginInput{Email: "somchai@example.org", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserInactive)

	restored, err := f.users.ToggleActive(f.ctx, session.User.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	_, err = f.users.ToggleActive(f.ctx, 9999, admin.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSetIntakeCapacity(t *testing.T) {
	f := newFixture(t)
	ngo := f.addUser(t, domain.RoleNGO)
	donor := f.addUser(t, domain.RoleDonor)

	got, err := f.users.SetIntakeCapacity(f.ctx, ngo.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.IntakeCapacity())
	assert.Equal(t, 250.0, f.user(t, ngo.ID).IntakeCapacity())

	_, err = f.users.SetIntakeCapacity(f.ctx, ngo.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)

	_, err = f.users.SetIntakeCapacity(f.ctx, ngo.ID, 0.001)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)

	_, err = f.users.SetIntakeCapacity(f.ctx, donor.ID, 10)
	assert.ErrorIs(t, err, domain.ErrNotAnNGO)
}

func TestVerifyNGO(t *testing.T) {
	f := newFixture(t)
	ngo := f.addUser(t, domain.RoleNGO)
	volunteer := f.addUser(t, domain.RoleVolunteer)

	got, err := f.users.VerifyNGO(f.ctx, ngo.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	_, err = f.users.VerifyNGO(f.ctx, volunteer.ID)
	assert.ErrorIs(t, err, domain.ErrNotAnNGO)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)

	name := "Baan Noodle House"
	got, err := f.users.UpdateProfile(f.ctx, donor.ID, &UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, name, f.user(t, donor.ID).Name)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)

	err := f.users.ChangePassword(f.ctx, donor.ID, &ChangePasswordInput{OldPassword: "wrong", NewPassword: "another123"})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = f.users.ChangePassword(f.ctx, donor.ID, &ChangePasswordInput{OldPassword: "secret123", NewPassword: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.users.ChangePassword(f.ctx, donor.ID, &ChangePasswordInput{OldPassword: "secret123", NewPassword: "another123"}))

	_, err = f.auth.Login(f.ctx, &LoginInput{Email: donor.Email, Password: "another123"})
	assert.NoError(t, err)
}

func TestGetImpact(t *testing.T) {
	f := newFixture(t)
	donor := f.addUser(t, domain.RoleDonor)
	ngo := f.addUser(t, domain.RoleNGO)
	volunteer := f.addUser(t, domain.RoleVolunteer)

	d := f.addDonation(t, donor.ID, 3)
	f.addDonation(t, donor.ID, 3)

	_, err := f.donations.Claim(f.ctx, d.ID, ngo.ID)
	require.NoError(t, err)
	_, err = f.donations.PickUp(f.ctx, d.ID, volunteer.ID)
	require.NoError(t, err)
	_, err = f.donations.Deliver(f.ctx, d.ID, volunteer.ID)
	require.NoError(t, err)

	impact, err := f.users.GetImpact(f.ctx, donor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, impact.Donated)
	assert.EqualValues(t, 1, impact.Delivered)
	assert.Equal(t, domain.DonorDeliveryKarma, impact.KarmaPoints)
	assert.Equal(t, 1, impact.Level)
	assert.Equal(t, 100-domain.DonorDeliveryKarma, impact.PointsToNextLevel)

	impact, err = f.users.GetImpact(f.ctx, ngo.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, impact.Claimed)
	assert.EqualValues(t, 1, impact.Delivered)

	impact, err = f.users.GetImpact(f.ctx, volunteer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, impact.Delivered)
	assert.Equal(t, domain.TransporterDeliveryKarma, impact.KarmaPoints)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, domain.RoleDonor)
	f.addUser(t, domain.RoleNGO)
	f.addUser(t, domain.RoleNGO)

	ngos, total, err := f.users.ListUsers(f.ctx, &ListUsersInput{Role: "NGO", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, ngos, 2)
	assert.EqualValues(t, 2, total)

	_, _, err = f.users.ListUsers(f.ctx, &ListUsersInput{Role: "CHEF"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// readHookStore runs onRead once, the first time the given user row is read
type readHookStore struct {
	repositories.Store
	hook *readHook
}

type readHook struct {
	userID uint
	once   sync.Once
	onRead func()
}

func (h *readHook) fire(id uint) {
	if id == h.userID {
		h.once.Do(h.onRead)
	}
}

func (s *readHookStore) Users() repositories.UserRepository {
	return &readHookUsers{UserRepository: s.Store.Users(), hook: s.hook}
}

func (s *readHookStore) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repositories.Store) error {
		return fn(&readHookStore{Store: tx, hook: s.hook})
	})
}

type readHookUsers struct {
	repositories.UserRepository
	hook *readHook
}

func (u *readHookUsers) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	got, err := u.UserRepository.GetByID(ctx, id)
	u.hook.fire(id)
	return got, err
}

func (u *readHookUsers) GetByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	got, err := u.UserRepository.GetByIDForUpdate(ctx, id)
	u.hook.fire(id)
	return got, err
}

func TestUserWritesKeepConcurrentClaimLoad(t *testing.T) {
	name := "Food Rescue Bangkok"
	edits := map[string]func(users *UserService, ctx context.Context, id uint) error{
		"update profile": func(users *UserService, ctx context.Context, id uint) error {
			_, err := users.UpdateProfile(ctx, id, &UpdateProfileInput{Name: &name})
			return err
		},
		"verify": func(users *UserService, ctx context.Context, id uint) error {
			_, err := users.VerifyNGO(ctx, id)
			return err
		},
		"change password": func(users *UserService, ctx context.Context, id uint) error {
			return users.ChangePassword(ctx, id, &ChangePasswordInput{OldPassword: "secret123", NewPassword: "another123"})
		},
	}

	for label, edit := range edits {
		t.Run(label, func(t *testing.T) {
			f := newFixture(t)
			donor := f.addUser(t, domain.RoleDonor)
			ngo := f.addUser(t, domain.RoleNGO, withCapacity(100, 0))
			first := f.addDonation(t, donor.ID, 60)
			second := f.addDonation(t, donor.ID, 60)

			// A claim started right after the edit reads the row. While the
			// edit holds the row lock the claim waits, otherwise it commits
			// before the edit writes.
			var wg sync.WaitGroup
			var claimErr error
			hook := &readHook{userID: ngo.ID}
			hook.onRead = func() {
				done := make(chan struct{})
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer close(done)
					_, claimErr = f.claims.Claim(f.ctx, first.ID, ngo.ID)
				}()
				select {
				case <-done:
				case <-time.After(50 * time.Millisecond):
				}
			}

			users := NewUserService(&readHookStore{Store: f.store, hook: hook}, zap.NewNop())
			require.NoError(t, edit(users, f.ctx, ngo.ID))
			wg.Wait()
			require.NoError(t, claimErr)

			assert.Equal(t, 60.0, f.user(t, ngo.ID).CurrentIntakeLoad)

			_, err := f.claims.Claim(f.ctx, second.ID, ngo.ID)
			assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
			assert.Equal(t, 60.0, f.user(t, ngo.ID).CurrentIntakeLoad)
		})
	}
}
