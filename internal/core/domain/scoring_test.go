package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTrustScore(t *testing.T) {
	assert.Equal(t, 100, CalculateTrustScore(90, 20, 20, 0))
	assert.Equal(t, 0, CalculateTrustScore(10, 0, 0, 50))
	assert.Equal(t, 65, CalculateTrustScore(50, 10, 10, 5))
}

func TestTrustAdjustments(t *testing.T) {
	assert.Equal(t, 100, IncreaseTrust(99, 5))
	assert.Equal(t, 55, IncreaseTrust(50, 5))
	assert.Equal(t, 0, DecreaseTrust(3, 5))
	assert.Equal(t, 45, DecreaseTrust(50, 5))
}

func TestKarmaLevel(t *testing.T) {
	cases := []struct {
		karma, level, toNext int
	}{
		{0, 1, 100},
		{99, 1, 1},
		{100, 2, 150},
		{249, 2, 1},
		{250, 3, 250},
		{999, 4, 1},
		{1000, 5, 0},
		{5000, 5, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, KarmaLevel(c.karma), "level for %d", c.karma)
		assert.Equal(t, c.toNext, PointsToNextLevel(c.karma), "to next for %d", c.karma)
	}
}

func TestRewardDelivery(t *testing.T) {
	donor := &User{TrustScore: 99, KarmaPoints: 5}
	transporter := &User{TrustScore: 50}

	RewardDelivery(donor, transporter)

	assert.Equal(t, 15, donor.KarmaPoints)
	assert.Equal(t, 100, donor.TrustScore)
	assert.Equal(t, 20, transporter.KarmaPoints)
	assert.Equal(t, 52, transporter.TrustScore)

	assert.Equal(t, 15, AddKarma(15, -10))
}
