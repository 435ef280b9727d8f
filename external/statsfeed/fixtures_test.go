package statsfeed

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/sportserve/matchcenter/internal/domain/match"
)

// The provider collapses singleton collections, so a competition document may
// carry zero, one or many MatchData elements. All three shapes must come back
// as a plain list.
func TestClient_Fixtures_UniformListShapes(t *testing.T) {
	t.Parallel()

	shapes := map[string]struct {
		body string
		want int
	}{
		"absent": {
			body: `<SportsFeed><Competition uID="c8" SeasonID="2026"></Competition></SportsFeed>`,
			want: 0,
		},
		"single": {
			body: `<SportsFeed><Competition uID="c8" SeasonID="2026">
				<MatchData uID="g1" Period="PreMatch"><MatchInfo Date="2026-09-01T12:00:00Z"/><TeamData Side="Home" TeamRef="t1"/><TeamData Side="Away" TeamRef="t2"/></MatchData>
			</Competition></SportsFeed>`,
			want: 1,
		},
		"many": {
			body: `<SportsFeed><Competition uID="c8" SeasonID="2026">
				<MatchData uID="g1" Period="PreMatch"><MatchInfo Date="2026-09-01T12:00:00Z"/><TeamData Side="Home" TeamRef="t1"/><TeamData Side="Away" TeamRef="t2"/></MatchData>
				<MatchData uID="g2" Period="PreMatch"><MatchInfo Date="2026-09-01T14:00:00Z"/><TeamData Side="Home" TeamRef="t3"/><TeamData Side="Away" TeamRef="t4"/></MatchData>
			</Competition></SportsFeed>`,
			want: 2,
		},
	}

	for name, tc := range shapes {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprint(w, tc.body)
			})

			matches, teams, err := client.Fixtures(context.Background(), "8", "2026")
			if err != nil {
				t.Fatalf("fetch fixtures: %v", err)
			}
			if matches == nil || teams == nil {
				t.Fatal("lists must never be nil")
			}
			if len(matches) != tc.want {
				t.Fatalf("expected %d matches, got %d", tc.want, len(matches))
			}
		})
	}
}

func TestMapMatchData_UnknownPeriodFallsBackToPreMatch(t *testing.T) {
	t.Parallel()

	m := mapMatchData(matchDataElem{
		UID:    "g55",
		Period: "SomethingNew",
		TeamData: []teamDataElem{
			{Side: "Home", TeamRef: "t1"},
			{Side: "Away", TeamRef: "t2"},
		},
	})
	if m.Period != match.PeriodPreMatch {
		t.Fatalf("unknown period code must map to pre-match, got %s", m.Period)
	}
	if m.HomeScore != nil {
		t.Fatal("pre-match fallback must keep scores nil")
	}
}

func TestMapMatchData_StartedMatchWithoutScoresDefaultsToZero(t *testing.T) {
	t.Parallel()

	m := mapMatchData(matchDataElem{
		UID:    "g56",
		Period: "HalfTime",
		TeamData: []teamDataElem{
			{Side: "Home", TeamRef: "t1"},
			{Side: "Away", TeamRef: "t2"},
		},
	})
	if m.HomeScore == nil || *m.HomeScore != 0 || m.AwayScore == nil || *m.AwayScore != 0 {
		t.Fatalf("started match without reported scores must default to 0-0, got %+v", m)
	}
}

func TestGroupScope(t *testing.T) {
	t.Parallel()

	if got := groupScope("Group B", "4"); got != "Group B" {
		t.Fatalf("group name must win, got %q", got)
	}
	if got := groupScope("", "4"); got != "round-4" {
		t.Fatalf("round number fallback, got %q", got)
	}
	if got := groupScope("", ""); got != "" {
		t.Fatalf("empty scope expected, got %q", got)
	}
}
