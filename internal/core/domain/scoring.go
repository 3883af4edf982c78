package domain

// Trust score bounds
const (
	MinTrustScore = 0
	MaxTrustScore = 100
)

// Delivery rewards
const (
	TransporterDeliveryKarma = 20
	DonorDeliveryKarma       = 10
	DeliveryTrustBonus       = 2
)

// levelThresholds are the karma totals at which each level ends
var levelThresholds = []int{100, 250, 500, 1000}

// CalculateTrustScore combines score components and clamps the result
func CalculateTrustScore(base, hygieneBonus, feedbackBonus, violationPenalty int) int {
	return clamp(base+hygieneBonus+feedbackBonus-violationPenalty, MinTrustScore, MaxTrustScore)
}

// IncreaseTrust raises a score, capped at the maximum
func IncreaseTrust(current, amount int) int {
	return min(current+amount, MaxTrustScore)
}

// DecreaseTrust lowers a score, floored at the minimum
func DecreaseTrust(current, amount int) int {
	return max(current-amount, MinTrustScore)
}

// AddKarma accumulates karma; negative awards are ignored
func AddKarma(current, award int) int {
	if award <= 0 {
		return current
	}
	return current + award
}

// KarmaLevel derives the level (1..5) from cumulative karma
func KarmaLevel(karma int) int {
	for i, limit := range levelThresholds {
		if karma < limit {
			return i + 1
		}
	}
	return len(levelThresholds) + 1
}

// PointsToNextLevel is the karma still needed for the next level; 0 at the top level
func PointsToNextLevel(karma int) int {
	for _, limit := range levelThresholds {
		if karma < limit {
			return limit - karma
		}
	}
	return 0
}

// RewardDelivery applies delivery rewards to the donor and the transporter
func RewardDelivery(donor, transporter *User) {
	if donor != nil {
		donor.KarmaPoints = AddKarma(donor.KarmaPoints, DonorDeliveryKarma)
		donor.TrustScore = IncreaseTrust(donor.TrustScore, DeliveryTrustBonus)
	}
	if transporter != nil {
		transporter.KarmaPoints = AddKarma(transporter.KarmaPoints, TransporterDeliveryKarma)
		transporter.TrustScore = IncreaseTrust(transporter.TrustScore, DeliveryTrustBonus)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
