package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/match"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

// Fixtures fetches the fixtures feed for one competition season. Matches
// come back with normalized ids, canonical periods and the score invariant
// applied; the team list carries the feed's own naming for resolution.
func (c *Client) Fixtures(ctx context.Context, competitionID, seasonID string) ([]match.Match, []TeamInfo, error) {
	if strings.TrimSpace(competitionID) == "" || strings.TrimSpace(seasonID) == "" {
		return nil, nil, fmt.Errorf("competition id and season id are required")
	}

	path := fmt.Sprintf("/competition/%s/season/%s/fixtures", url.PathEscape(competitionID), url.PathEscape(seasonID))
	params := url.Values{}

	raw, err := c.doFeed(ctx, FeedFixtures, path, params, c.ttls.Fixtures, snapshot.Payload{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
	})
	if err != nil {
		return nil, nil, err
	}

	var feed fixturesFeed
	if err := decodeFeed(FeedFixtures, raw, &feed); err != nil {
		return nil, nil, err
	}

	matches := make([]match.Match, 0, len(feed.Competition.Matches))
	for _, item := range uniformList(feed.Competition.Matches) {
		m := mapMatchData(item)
		if m.ID == "" {
			continue
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, mapTeamElems(feed.Competition.Teams), nil
}

func mapMatchData(item matchDataElem) match.Match {
	m := match.Match{
		ID:        feedid.Normalize(item.UID),
		GroupID:   groupScope(item.GroupName, item.Info.RoundNumber),
		KickoffAt: parseFeedTime(item.Info.Date),
		Period:    mapPeriod(item.Period),
		Venue:     strings.TrimSpace(item.Venue),
	}

	for _, side := range uniformList(item.TeamData) {
		ref := feedid.Normalize(side.TeamRef)
		switch {
		case strings.EqualFold(side.Side, "Home"):
			m.HomeTeamID = ref
			m.HomeScore = side.Score
		case strings.EqualFold(side.Side, "Away"):
			m.AwayTeamID = ref
			m.AwayScore = side.Score
		}
	}

	m.EnsureScores()
	return m
}

func mapTeamElems(items []teamElem) []TeamInfo {
	out := make([]TeamInfo, 0, len(items))
	for _, item := range uniformList(items) {
		if item.UID == "" {
			continue
		}
		out = append(out, TeamInfo{
			FeedID: feedid.Normalize(item.UID),
			Name:   strings.TrimSpace(item.Name),
			Short:  strings.TrimSpace(item.Short),
		})
	}
	return out
}

func groupScope(groupName, roundNumber string) string {
	if g := strings.TrimSpace(groupName); g != "" {
		return g
	}
	if r := strings.TrimSpace(roundNumber); r != "" {
		return "round-" + r
	}
	return ""
}
