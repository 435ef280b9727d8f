package usecase

import (
	"testing"

	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/player"
	"github.com/sportserve/matchcenter/internal/domain/team"
)

func TestResolveTeams(t *testing.T) {
	t.Parallel()

	feedTeams := []statsfeed.TeamInfo{
		{FeedID: "t101", Name: "Arsenal FC", Short: "ARS"},
		{FeedID: "t102", Name: "Mystery Town", Short: "MYS"},
		{FeedID: "t103", Name: "Chelsea FC", Short: "CHE"},
	}
	cmsRecords := []team.CMSRecord{
		// CMS stores the raw feed id with prefix; the join must not care.
		{UID: "chelsea", Name: "Chelsea", FeedID: "t103", Country: "England", CrestURL: "https://cdn/che.png"},
		{UID: "arsenal", Name: "Arsenal", FeedID: "101", PrimaryColor: "#EF0107"},
		// No feed counterpart in this response; must be excluded.
		{UID: "leeds", Name: "Leeds United", FeedID: "t999"},
	}

	merged := ResolveTeams(feedTeams, cmsRecords)
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged teams, got %d", len(merged))
	}

	// Output order follows feed order, not CMS order.
	if merged[0].ID != "101" || merged[1].ID != "102" || merged[2].ID != "103" {
		t.Fatalf("unexpected order: %q %q %q", merged[0].ID, merged[1].ID, merged[2].ID)
	}

	arsenal := merged[0]
	if !arsenal.Resolved() || arsenal.CMSUID != "arsenal" {
		t.Fatalf("arsenal should resolve, got %+v", arsenal)
	}
	if arsenal.Name != "Arsenal" {
		t.Fatalf("editorial name should win, got %q", arsenal.Name)
	}
	if arsenal.Short != "ARS" {
		t.Fatalf("feed short name should survive when CMS has none, got %q", arsenal.Short)
	}
	if arsenal.PrimaryColor != "#EF0107" {
		t.Fatalf("missing CMS color, got %+v", arsenal)
	}

	mystery := merged[1]
	if mystery.Resolved() {
		t.Fatalf("team without a CMS record must stay unresolved: %+v", mystery)
	}
	if mystery.Name != "Mystery Town" {
		t.Fatalf("feed fields must survive without a CMS record, got %q", mystery.Name)
	}
}

func TestResolveTeamsDeterministicOrder(t *testing.T) {
	t.Parallel()

	feedTeams := []statsfeed.TeamInfo{
		{FeedID: "t3", Name: "C"},
		{FeedID: "t1", Name: "A"},
		{FeedID: "t2", Name: "B"},
	}
	cmsRecords := []team.CMSRecord{
		{UID: "b", Name: "B", FeedID: "2"},
		{UID: "a", Name: "A", FeedID: "1"},
	}

	first := ResolveTeams(feedTeams, cmsRecords)
	second := ResolveTeams(feedTeams, cmsRecords)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("merge is not deterministic at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].ID != "3" || first[1].ID != "1" || first[2].ID != "2" {
		t.Fatalf("order must follow the feed list, got %q %q %q", first[0].ID, first[1].ID, first[2].ID)
	}
}

func TestResolveTeamsSkipsBlankAndDuplicateIDs(t *testing.T) {
	t.Parallel()

	feedTeams := []statsfeed.TeamInfo{
		{FeedID: "", Name: "Ghost"},
		{FeedID: "t7", Name: "First"},
		{FeedID: "7", Name: "Same Club Again"},
	}

	merged := ResolveTeams(feedTeams, nil)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged team, got %d", len(merged))
	}
	if merged[0].Name != "First" {
		t.Fatalf("first occurrence wins, got %q", merged[0].Name)
	}
}

func TestResolvePlayers(t *testing.T) {
	t.Parallel()

	feedPlayers := []statsfeed.SquadPlayer{
		{FeedID: "p250", Name: "B. Saka", Position: "Forward", ShirtNo: 7},
		{FeedID: "p251", Name: "D. Rice", Position: "Midfielder", ShirtNo: 41},
	}
	cmsRecords := []player.CMSRecord{
		{UID: "saka", Name: "Bukayo Saka", PhotoURL: "https://cdn/saka.jpg", FeedID: "250"},
	}

	merged := ResolvePlayers("101", feedPlayers, cmsRecords)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged players, got %d", len(merged))
	}

	saka := merged[0]
	if saka.ID != "250" || saka.TeamID != "101" || !saka.Resolved() {
		t.Fatalf("unexpected merge %+v", saka)
	}
	if saka.Name != "Bukayo Saka" || saka.PhotoURL == "" {
		t.Fatalf("CMS profile not applied: %+v", saka)
	}

	rice := merged[1]
	if rice.Resolved() || rice.Name != "D. Rice" || rice.ShirtNo != 41 {
		t.Fatalf("unresolved player must keep feed fields: %+v", rice)
	}
}
