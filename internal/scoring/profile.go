package scoring

import (
	dealdomain "stageflow_backend/internal/deals/domain"
)

// defaultGlobalWinRate is assumed when no deal in the set has closed yet.
const defaultGlobalWinRate = 0.3

// PerformanceProfile aggregates one owner's closed-deal history. Profiles
// are derived on demand from the full deal set and never persisted.
type PerformanceProfile struct {
	Total          int     `json:"total"`
	Won            int     `json:"won"`
	Lost           int     `json:"lost"`
	WinRate        float64 `json:"winRate"`
	AvgDaysToClose float64 `json:"avgDaysToClose"`
}

// Closed returns the number of deals the owner has closed either way.
func (p PerformanceProfile) Closed() int {
	return p.Won + p.Lost
}

// BuildPerformanceProfiles makes a single pass over the deal set and returns
// the per-owner profiles plus the organization-wide win rate. Deals without
// an owner count toward the global rate only.
func BuildPerformanceProfiles(deals []*dealdomain.Deal) (map[string]PerformanceProfile, float64) {
	type accumulator struct {
		profile   PerformanceProfile
		closeDays float64
		closed    int
	}

	byOwner := make(map[string]*accumulator)
	globalWon, globalLost := 0, 0

	for _, deal := range deals {
		if deal == nil {
			continue
		}

		won := deal.Status == dealdomain.StatusWon
		lost := deal.Status == dealdomain.StatusLost
		if won {
			globalWon++
		}
		if lost {
			globalLost++
		}

		if deal.AssignedTo == nil || *deal.AssignedTo == "" {
			continue
		}
		owner := *deal.AssignedTo
		acc := byOwner[owner]
		if acc == nil {
			acc = &accumulator{}
			byOwner[owner] = acc
		}

		acc.profile.Total++
		if won {
			acc.profile.Won++
		}
		if lost {
			acc.profile.Lost++
		}
		if won || lost {
			if days, ok := daysToClose(deal); ok {
				acc.closeDays += days
				acc.closed++
			}
		}
	}

	profiles := make(map[string]PerformanceProfile, len(byOwner))
	for owner, acc := range byOwner {
		profile := acc.profile
		if closed := profile.Won + profile.Lost; closed > 0 {
			profile.WinRate = float64(profile.Won) / float64(closed)
		}
		if acc.closed > 0 {
			profile.AvgDaysToClose = acc.closeDays / float64(acc.closed)
		}
		profiles[owner] = profile
	}

	globalWinRate := defaultGlobalWinRate
	if closed := globalWon + globalLost; closed > 0 {
		globalWinRate = float64(globalWon) / float64(closed)
	}

	return profiles, globalWinRate
}

// ownerProfile resolves the profile used for the owner adjustment. Unowned
// deals and unseen owners fall back to the global win rate with no closed
// history, which lands in the zero-closed penalty bracket.
func ownerProfile(deal *dealdomain.Deal, profiles map[string]PerformanceProfile, globalWinRate float64) PerformanceProfile {
	if deal.AssignedTo != nil {
		if profile, ok := profiles[*deal.AssignedTo]; ok {
			return profile
		}
	}
	return PerformanceProfile{WinRate: globalWinRate}
}

func ownerAdjustment(profile PerformanceProfile) int {
	closed := profile.Closed()
	switch {
	case profile.WinRate > 0.7 && closed >= 5:
		return 15
	case profile.WinRate > 0.5 && closed >= 3:
		return 10
	case profile.WinRate > 0.3 && closed >= 1:
		return 5
	case closed == 0:
		return -10
	default:
		return 0
	}
}

// daysToClose measures creation to last update for a closed deal. Both
// timestamps must parse; otherwise the deal is excluded from the average.
func daysToClose(deal *dealdomain.Deal) (float64, bool) {
	created, ok := parseTimestamp(deal.CreatedAt)
	if !ok {
		return 0, false
	}
	updated, ok := parseTimestamp(deal.UpdatedAt)
	if !ok {
		return 0, false
	}
	elapsed := updated.Sub(created)
	if elapsed < 0 {
		return 0, false
	}
	return elapsed.Hours() / 24, true
}
