package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

// TeamSeasonStats fetches season aggregates for one team in one competition
// season.
func (c *Client) TeamSeasonStats(ctx context.Context, teamID, competitionID, seasonID string) (SeasonStats, error) {
	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(competitionID) == "" || strings.TrimSpace(seasonID) == "" {
		return SeasonStats{}, fmt.Errorf("team id, competition id and season id are required")
	}

	path := fmt.Sprintf("/team/%s/stats", url.PathEscape(teamID))
	params := url.Values{}
	params.Set("competition", competitionID)
	params.Set("season", seasonID)

	raw, err := c.doFeed(ctx, FeedSeasonStats, path, params, c.ttls.SeasonStats, snapshot.Payload{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
	})
	if err != nil {
		return SeasonStats{}, err
	}

	var feed seasonStatsFeed
	if err := decodeFeed(FeedSeasonStats, raw, &feed); err != nil {
		return SeasonStats{}, err
	}

	values := make(map[string]string, len(feed.Stats))
	for _, stat := range uniformList(feed.Stats) {
		name := strings.TrimSpace(stat.Name)
		if name == "" {
			continue
		}
		values[name] = strings.TrimSpace(stat.Value)
	}

	return SeasonStats{
		TeamID:        feedid.Normalize(firstNonEmpty(feed.TeamRef, teamID)),
		CompetitionID: firstNonEmpty(feed.CompetitionRef, competitionID),
		SeasonID:      firstNonEmpty(feed.Season, seasonID),
		Values:        values,
	}, nil
}
