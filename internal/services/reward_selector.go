package services

import (
	"math/rand"

	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/pkg/errors"
)

// RewardSelector performs the weighted random draw over a pack's reward
// pool. It has no side effects; given the same random source it is
// deterministic, and with the default source it is safe for concurrent
// use (the math/rand global is synchronized).
type RewardSelector struct {
	randFloat func() float64
}

func NewRewardSelector() *RewardSelector {
	return &RewardSelector{randFloat: rand.Float64}
}

// NewRewardSelectorWithSource injects a random source returning values
// in [0, 1). Used by tests and anywhere reproducible draws are needed.
func NewRewardSelectorWithSource(randFloat func() float64) *RewardSelector {
	return &RewardSelector{randFloat: randFloat}
}

// Draw filters the pool against the user's owned items and picks one
// entry with probability proportional to its drop rate.
//
// Filtering is intentionally asymmetric: entries referencing an already
// owned item are excluded, while legend entries always stay drawable.
// Entries referencing neither an item nor a legend are skipped.
func (s *RewardSelector) Draw(pool []models.PackReward, ownedItemIDs map[uint]bool) (*models.PackReward, error) {
	available := make([]models.PackReward, 0, len(pool))
	for _, reward := range pool {
		if reward.HasItem() && ownedItemIDs[*reward.ItemID] {
			continue
		}
		if !reward.HasItem() && !reward.HasLegend() {
			continue
		}
		available = append(available, reward)
	}

	if len(available) == 0 {
		return nil, errors.New(errors.ErrCodeExhaustedPool, "user already owns every item this pack can yield")
	}

	var totalWeight float64
	for _, reward := range available {
		totalWeight += reward.DropRate
	}
	if totalWeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPool, "reward pool has zero total drop rate")
	}

	// Linear scan over cumulative weights; ties at interval boundaries
	// go to the earlier entry. Zero-weight entries span an empty
	// interval and are never hit.
	r := s.randFloat() * totalWeight
	var cumulative float64
	for i := range available {
		cumulative += available[i].DropRate
		if r <= cumulative {
			return &available[i], nil
		}
	}

	// r < totalWeight, so the scan always terminates inside the loop;
	// float accumulation error could leave a sliver at the top end.
	return &available[len(available)-1], nil
}
