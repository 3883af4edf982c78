package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"foodbridge-api/internal/adapters/persistence/memstore"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/password"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seeder := NewSeeder(store, zap.NewNop())

	created, err := seeder.SeedAdmin(ctx, AdminSeed{Email: " Admin@FoodBridge.app", Password: "changeme123"})
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := store.Users().GetByEmail(ctx, "admin@foodbridge.app")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, password.Verify("changeme123", admin.Password))

	created, err = seeder.SeedAdmin(ctx, AdminSeed{Email: "second@foodbridge.app", Password: "changeme123"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	seeder := NewSeeder(memstore.New(), zap.NewNop())

	_, err := seeder.SeedAdmin(context.Background(), AdminSeed{Email: "admin@foodbridge.app", Password: "short"})
	assert.ErrorIs(t, err, ErrAdminCredentials)

	_, err = seeder.SeedAdmin(context.Background(), AdminSeed{Password: "changeme123"})
	assert.ErrorIs(t, err, ErrAdminCredentials)
}
