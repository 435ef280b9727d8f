package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
)

// MatchDetail fetches the detail feed for one match.
func (c *Client) MatchDetail(ctx context.Context, matchID string) (MatchDetail, error) {
	if strings.TrimSpace(matchID) == "" {
		return MatchDetail{}, fmt.Errorf("match id is required")
	}

	path := fmt.Sprintf("/match/%s", url.PathEscape(matchID))

	raw, err := c.doFeed(ctx, FeedMatchDetail, path, url.Values{}, c.ttls.MatchDetail, snapshot.Payload{
		MatchID: matchID,
	})
	if err != nil {
		return MatchDetail{}, err
	}

	var feed matchFeed
	if err := decodeFeed(FeedMatchDetail, raw, &feed); err != nil {
		return MatchDetail{}, err
	}

	detail := MatchDetail{
		Match:    mapMatchData(feed.MatchData),
		Teams:    mapTeamElems(feed.Teams),
		Duration: strings.TrimSpace(feed.MatchData.Info.Duration),
	}
	if detail.Match.ID == "" {
		return MatchDetail{}, malformedErr(FeedMatchDetail, fmt.Errorf("document carries no match id"))
	}
	return detail, nil
}
