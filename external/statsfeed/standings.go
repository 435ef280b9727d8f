package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/domain/standing"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

// Standings fetches the official standings feed. Rows come back grouped by
// the feed's group scope; competitions without a group stage collapse into a
// single unnamed group.
func (c *Client) Standings(ctx context.Context, competitionID, seasonID string) (map[string][]standing.OfficialRow, []TeamInfo, error) {
	if strings.TrimSpace(competitionID) == "" || strings.TrimSpace(seasonID) == "" {
		return nil, nil, fmt.Errorf("competition id and season id are required")
	}

	path := fmt.Sprintf("/competition/%s/season/%s/standings", url.PathEscape(competitionID), url.PathEscape(seasonID))

	raw, err := c.doFeed(ctx, FeedStandings, path, url.Values{}, c.ttls.Standings, snapshot.Payload{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
	})
	if err != nil {
		return nil, nil, err
	}

	var feed standingsFeed
	if err := decodeFeed(FeedStandings, raw, &feed); err != nil {
		return nil, nil, err
	}

	byGroup := make(map[string][]standing.OfficialRow, len(feed.Competition.Tables))
	for _, table := range uniformList(feed.Competition.Tables) {
		group := strings.TrimSpace(table.Group)
		rows := make([]standing.OfficialRow, 0, len(table.Records))
		for _, rec := range uniformList(table.Records) {
			if rec.TeamRef == "" || rec.Position <= 0 {
				continue
			}
			rows = append(rows, standing.OfficialRow{
				TeamID:   feedid.Normalize(rec.TeamRef),
				Position: rec.Position,
				Played:   rec.Played,
				Won:      rec.Won,
				Drawn:    rec.Drawn,
				Lost:     rec.Lost,
				Points:   rec.Points,
			})
		}
		if len(rows) > 0 {
			byGroup[group] = append(byGroup[group], rows...)
		}
	}

	return byGroup, mapTeamElems(feed.Competition.Teams), nil
}
