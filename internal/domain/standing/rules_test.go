package standing

import (
	"testing"

	"github.com/sportserve/matchcenter/internal/domain/match"
)

func intp(v int) *int { return &v }

func TestComputeRecords_BasicResults(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(2), AwayScore: intp(1)},
		{ID: "2", GroupID: "A", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "c", HomeScore: intp(0), AwayScore: intp(0)},
	}

	records := ComputeRecords(matches, "A", DefaultRules())

	a := records["a"]
	if a.Won != 1 || a.Drawn != 1 || a.Lost != 0 || a.Points != 4 || a.GoalsFor != 2 || a.GoalsAgainst != 1 {
		t.Fatalf("unexpected record for a: %+v", a)
	}
	b := records["b"]
	if b.Lost != 1 || b.Points != 0 || b.GoalsFor != 1 || b.GoalsAgainst != 2 {
		t.Fatalf("unexpected record for b: %+v", b)
	}
	c := records["c"]
	if c.Drawn != 1 || c.Points != 1 || c.GoalsFor != 0 || c.GoalsAgainst != 0 {
		t.Fatalf("unexpected record for c: %+v", c)
	}
}

func TestComputeRecords_FiltersScopeAndStatus(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodPreMatch, HomeTeamID: "a", AwayTeamID: "b"},
		{ID: "2", GroupID: "B", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(4), AwayScore: intp(0)},
		{ID: "3", GroupID: "A", Period: match.PeriodAbandoned, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(1), AwayScore: intp(0)},
		{ID: "4", GroupID: "A", Period: match.PeriodSecondHalf, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(1), AwayScore: intp(1)},
	}

	records := ComputeRecords(matches, "A", DefaultRules())

	a := records["a"]
	if a.Played != 1 || a.Drawn != 1 || a.Points != 1 {
		t.Fatalf("expected only the in-play group-A fixture to count, got %+v", a)
	}
}

func TestComputeRecords_InProgressMatchDefaultsScores(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodFirstHalf, HomeTeamID: "a", AwayTeamID: "b"},
	}

	records := ComputeRecords(matches, "A", DefaultRules())
	a := records["a"]
	if a.Drawn != 1 || a.GoalsFor != 0 || a.GoalsAgainst != 0 {
		t.Fatalf("expected 0-0 draw-in-progress, got %+v", a)
	}
}

func TestRank_TieBreakOrder(t *testing.T) {
	t.Parallel()

	// Three teams level on points; two also level on goal difference.
	records := map[string]TeamRecord{
		"x": {TeamID: "x", Name: "Zebras", Points: 6, GoalsFor: 8, GoalsAgainst: 4},
		"y": {TeamID: "y", Name: "Yaks", Points: 6, GoalsFor: 6, GoalsAgainst: 2},
		"z": {TeamID: "z", Name: "Aardvarks", Points: 6, GoalsFor: 8, GoalsAgainst: 4},
	}

	rows := Rank(records)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// All on GD +4: y wins nothing on GF (6 < 8), so x and z lead on goals
	// for, ordered alphabetically between themselves.
	if rows[0].Name != "Aardvarks" || rows[1].Name != "Zebras" || rows[2].Name != "Yaks" {
		t.Fatalf("unexpected order: %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
	for i, row := range rows {
		if row.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, row.Position)
		}
	}
}

func TestRank_GoalsForBeforeAlphabetical(t *testing.T) {
	t.Parallel()

	records := map[string]TeamRecord{
		"p": {TeamID: "p", Name: "Alpha", Points: 3, GoalsFor: 2, GoalsAgainst: 1},
		"q": {TeamID: "q", Name: "Beta", Points: 3, GoalsFor: 3, GoalsAgainst: 2},
	}

	rows := Rank(records)
	if rows[0].Name != "Beta" {
		t.Fatalf("higher goals-for must rank first, got %s", rows[0].Name)
	}
}

func TestBuildGroup_PrefersOfficialPositions(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(3), AwayScore: intp(0)},
	}
	official := []OfficialRow{
		{TeamID: "a", Position: 2},
		{TeamID: "b", Position: 1},
	}
	names := map[string]string{"a": "Athletic", "b": "Borough"}

	table := BuildGroup("A", matches, official, names, DefaultRules())
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	// Feed position wins for display even when the local computation
	// disagrees; record fields stay local.
	if table.Rows[0].Name != "Borough" || table.Rows[0].Position != 1 || !table.Rows[0].Official {
		t.Fatalf("unexpected top row: %+v", table.Rows[0])
	}
	if table.Rows[1].Name != "Athletic" || table.Rows[1].Points != 3 {
		t.Fatalf("unexpected second row: %+v", table.Rows[1])
	}
}

func TestBuildGroup_OfficialOnlyTeamsKeepRows(t *testing.T) {
	t.Parallel()

	// A knockout phase the fixtures feed has no qualifying matches for is
	// still ranked by the standings feed. Rows come from the feed record.
	official := []OfficialRow{
		{TeamID: "a", Position: 2, Played: 6, Won: 3, Drawn: 1, Lost: 2, Points: 10},
		{TeamID: "b", Position: 1, Played: 6, Won: 4, Drawn: 0, Lost: 2, Points: 12},
	}
	names := map[string]string{"a": "Athletic", "b": "Borough"}

	table := BuildGroup("A", nil, official, names, DefaultRules())
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	top := table.Rows[0]
	if top.Name != "Borough" || top.Position != 1 || !top.Official {
		t.Fatalf("unexpected top row: %+v", top)
	}
	if top.Played != 6 || top.Won != 4 || top.Points != 12 {
		t.Fatalf("expected feed record on official-only row, got %+v", top)
	}
	if table.Rows[1].Name != "Athletic" || table.Rows[1].Points != 10 {
		t.Fatalf("unexpected second row: %+v", table.Rows[1])
	}
}

func TestBuildGroup_MixesComputedAndOfficialOnlyRows(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(1), AwayScore: intp(0)},
	}
	official := []OfficialRow{
		{TeamID: "a", Position: 1},
		{TeamID: "b", Position: 3},
		{TeamID: "c", Position: 2, Played: 2, Won: 1, Drawn: 1, Points: 4},
	}
	names := map[string]string{"a": "Athletic", "b": "Borough", "c": "City"}

	table := BuildGroup("A", matches, official, names, DefaultRules())
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if table.Rows[1].Name != "City" || !table.Rows[1].Official || table.Rows[1].Points != 4 {
		t.Fatalf("expected City slotted at position 2 from the feed, got %+v", table.Rows[1])
	}
	// Computed record fields survive on teams the computation did see.
	if table.Rows[0].Name != "Athletic" || table.Rows[0].GoalsFor != 1 {
		t.Fatalf("unexpected top row: %+v", table.Rows[0])
	}
}

func TestBuildGroup_ComputedRankWithoutFeed(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "1", GroupID: "A", Period: match.PeriodFullTime, HomeTeamID: "a", AwayTeamID: "b", HomeScore: intp(2), AwayScore: intp(0)},
	}

	table := BuildGroup("A", matches, nil, map[string]string{"a": "Athletic", "b": "Borough"}, DefaultRules())
	if table.Rows[0].Name != "Athletic" || table.Rows[0].Official {
		t.Fatalf("expected computed rank to lead with Athletic, got %+v", table.Rows[0])
	}
}
