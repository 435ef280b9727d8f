package usecase

import (
	"strings"

	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/player"
	"github.com/sportserve/matchcenter/internal/domain/team"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

// ResolveTeams joins feed-sourced teams against CMS records keyed on the
// normalized feed id. The feed side is authoritative for which teams exist
// and for output order; the CMS side only enriches. A feed team with no CMS
// counterpart comes back with CMS fields empty, which callers can detect via
// Resolved().
func ResolveTeams(feedTeams []statsfeed.TeamInfo, cmsRecords []team.CMSRecord) []team.Team {
	byFeedID := make(map[string]team.CMSRecord, len(cmsRecords))
	for _, rec := range cmsRecords {
		key := feedid.Normalize(rec.FeedID)
		if key == "" {
			continue
		}
		byFeedID[key] = rec
	}

	merged := make([]team.Team, 0, len(feedTeams))
	seen := make(map[string]struct{}, len(feedTeams))
	for _, ft := range feedTeams {
		id := feedid.Normalize(ft.FeedID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		t := team.Team{
			ID:     id,
			FeedID: ft.FeedID,
			Name:   ft.Name,
			Short:  ft.Short,
		}
		if rec, ok := byFeedID[id]; ok {
			t.CMSUID = rec.UID
			t.Country = rec.Country
			t.PrimaryColor = rec.PrimaryColor
			t.CrestURL = rec.CrestURL
			// Editorial names win over feed names when present.
			if name := strings.TrimSpace(rec.Name); name != "" {
				t.Name = name
			}
			if short := strings.TrimSpace(rec.Short); short != "" {
				t.Short = short
			}
		}
		merged = append(merged, t)
	}
	return merged
}

// ResolvePlayers is the player-shaped twin of ResolveTeams. teamID is the
// normalized id of the club the squad belongs to.
func ResolvePlayers(teamID string, feedPlayers []statsfeed.SquadPlayer, cmsRecords []player.CMSRecord) []player.Player {
	byFeedID := make(map[string]player.CMSRecord, len(cmsRecords))
	for _, rec := range cmsRecords {
		key := feedid.Normalize(rec.FeedID)
		if key == "" {
			continue
		}
		byFeedID[key] = rec
	}

	merged := make([]player.Player, 0, len(feedPlayers))
	seen := make(map[string]struct{}, len(feedPlayers))
	for _, fp := range feedPlayers {
		id := feedid.Normalize(fp.FeedID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p := player.Player{
			ID:        id,
			FeedID:    fp.FeedID,
			TeamID:    teamID,
			Name:      fp.Name,
			FirstName: fp.FirstName,
			LastName:  fp.LastName,
			Position:  fp.Position,
			ShirtNo:   fp.ShirtNo,
		}
		if rec, ok := byFeedID[id]; ok {
			p.CMSUID = rec.UID
			p.PhotoURL = rec.PhotoURL
			if name := strings.TrimSpace(rec.Name); name != "" {
				p.Name = name
			}
		}
		merged = append(merged, p)
	}
	return merged
}

// teamNamesByID flattens resolved teams into the name lookup the standings
// builder consumes.
func teamNamesByID(teams []team.Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}
