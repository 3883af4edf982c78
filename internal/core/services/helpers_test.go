package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"foodbridge-api/internal/adapters/persistence/memstore"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/jwt"
	"foodbridge-api/internal/pkg/password"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) DonationCreated(*domain.Donation) { n.record(EventDonationCreated) }
func (n *recordingNotifier) DonationClaimed(*domain.Donation) { n.record(EventDonationClaimed) }
func (n *recordingNotifier) DonationStatusChanged(*domain.Donation) {
	n.record(EventDonationStatusChanged)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type fixture struct {
	ctx       context.Context
	store     *memstore.Store
	events    *recordingNotifier
	claims    *ClaimCoordinator
	donations *DonationService
	users     *UserService
	auth      *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zap.NewNop()
	store := memstore.New()
	events := &recordingNotifier{}

	claims := NewClaimCoordinator(store, events, log, false)
	claims.retryDelays = []time.Duration{time.Millisecond, time.Millisecond}

	donations := NewDonationService(store, claims, events, nil, log)
	donations.now = func() time.Time { return testNow }

	tokens := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	return &fixture{
		ctx:       context.Background(),
		store:     store,
		events:    events,
		claims:    claims,
		donations: donations,
		users:     NewUserService(store, log),
		auth:      NewAuthService(store, tokens, AuthConfig{HashCost: bcrypt.MinCost}, log),
	}
}

// addUser stores an active user of the given role
func (f *fixture) addUser(t *testing.T, role domain.Role, opts ...func(*domain.User)) *domain.User {
	t.Helper()

	hashed, err := password.HashWithCost("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	u := &domain.User{
		Name:       string(role) + " user",
		Email:      uuid.NewString()[:8] + "@example.org",
		Password:   hashed,
		Role:       role,
		IsActive:   true,
		TrustScore: domain.DefaultTrustScore,
	}
	if role == domain.RoleNGO {
		capacity := domain.DefaultIntakeCapacity
		u.DailyIntakeCapacity = &capacity
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func withCapacity(capacity, load float64) func(*domain.User) {
	return func(u *domain.User) {
		u.DailyIntakeCapacity = &capacity
		u.CurrentIntakeLoad = load
	}
}

// addDonation publishes a packaged donation near central Bangkok
func (f *fixture) addDonation(t *testing.T, donorID uint, quantity float64) *domain.Donation {
	t.Helper()
	return f.addDonationAt(t, donorID, quantity, 13.7563, 100.5018)
}

func (f *fixture) addDonationAt(t *testing.T, donorID uint, quantity, lat, lng float64) *domain.Donation {
	t.Helper()
	d, err := f.donations.Create(f.ctx, donorID, &CreateDonationInput{
		Name:            "Rice boxes",
		FoodType:        string(domain.FoodPackaged),
		Quantity:        quantity,
		Unit:            "kg",
		Latitude:        lat,
		Longitude:       lng,
		PreparationTime: testNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) user(t *testing.T, id uint) *domain.User {
	t.Helper()
	u, err := f.store.Users().GetByID(f.ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) donation(t *testing.T, id string) *domain.Donation {
	t.Helper()
	d, err := f.store.Donations().GetByID(f.ctx, id)
	require.NoError(t, err)
	return d
}
