package scoring

import (
	"testing"

	dealdomain "stageflow_backend/internal/deals/domain"
)

func TestBuildPerformanceProfiles(t *testing.T) {
	deals := []*dealdomain.Deal{
		{ID: "d1", OrganizationID: "o1", Status: dealdomain.StatusWon, AssignedTo: strptr("rep-1"), CreatedAt: daysAgo(20), UpdatedAt: daysAgo(10)},
		{ID: "d2", OrganizationID: "o1", Status: dealdomain.StatusWon, AssignedTo: strptr("rep-1"), CreatedAt: daysAgo(30), UpdatedAt: daysAgo(10)},
		{ID: "d3", OrganizationID: "o1", Status: dealdomain.StatusLost, AssignedTo: strptr("rep-1"), CreatedAt: daysAgo(5), UpdatedAt: daysAgo(2)},
		{ID: "d4", OrganizationID: "o1", Status: dealdomain.StatusActive, AssignedTo: strptr("rep-1")},
		{ID: "d5", OrganizationID: "o1", Status: dealdomain.StatusLost, AssignedTo: strptr("rep-2")},
		{ID: "d6", OrganizationID: "o1", Status: dealdomain.StatusWon},
	}

	profiles, globalWinRate := BuildPerformanceProfiles(deals)

	rep1 := profiles["rep-1"]
	if rep1.Total != 4 || rep1.Won != 2 || rep1.Lost != 1 {
		t.Errorf("rep-1 counts = %+v", rep1)
	}
	if rep1.WinRate != 2.0/3.0 {
		t.Errorf("rep-1 win rate = %v", rep1.WinRate)
	}
	// (10 + 20 + 3) / 3 closed deals with parseable dates.
	if rep1.AvgDaysToClose != 11 {
		t.Errorf("rep-1 avg days to close = %v, want 11", rep1.AvgDaysToClose)
	}

	rep2 := profiles["rep-2"]
	if rep2.WinRate != 0 || rep2.Closed() != 1 {
		t.Errorf("rep-2 profile = %+v", rep2)
	}

	// 3 won, 2 lost across the whole set, owned or not.
	if globalWinRate != 0.6 {
		t.Errorf("global win rate = %v, want 0.6", globalWinRate)
	}
}

func TestBuildPerformanceProfilesDefaultGlobalRate(t *testing.T) {
	deals := []*dealdomain.Deal{
		{ID: "d1", OrganizationID: "o1", Status: dealdomain.StatusActive, AssignedTo: strptr("rep-1")},
		nil,
	}
	profiles, globalWinRate := BuildPerformanceProfiles(deals)
	if globalWinRate != defaultGlobalWinRate {
		t.Errorf("global win rate = %v, want %v", globalWinRate, defaultGlobalWinRate)
	}
	if profiles["rep-1"].Total != 1 {
		t.Errorf("rep-1 profile = %+v", profiles["rep-1"])
	}
}

func TestBuildPerformanceProfilesSkipsUnparseableCloseDates(t *testing.T) {
	deals := []*dealdomain.Deal{
		{ID: "d1", OrganizationID: "o1", Status: dealdomain.StatusWon, AssignedTo: strptr("rep-1"), CreatedAt: "bogus", UpdatedAt: daysAgo(1)},
		{ID: "d2", OrganizationID: "o1", Status: dealdomain.StatusWon, AssignedTo: strptr("rep-1"), CreatedAt: daysAgo(8), UpdatedAt: daysAgo(4)},
	}
	profiles, _ := BuildPerformanceProfiles(deals)
	if got := profiles["rep-1"].AvgDaysToClose; got != 4 {
		t.Errorf("avg days to close = %v, want 4", got)
	}
}
