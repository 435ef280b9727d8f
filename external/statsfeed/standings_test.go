package statsfeed

import (
	"context"
	"net/http"
	"testing"
)

const standingsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<SportsFeed>
  <Competition uID="c8">
    <TeamStandings Group="Group A">
      <TeamRecord TeamRef="t43" Position="1" Played="3" Won="2" Drawn="1" Lost="0" For="7" Against="2" Points="7"/>
      <TeamRecord TeamRef="t14" Position="2" Played="3" Won="1" Drawn="1" Lost="1" For="4" Against="4" Points="4"/>
    </TeamStandings>
    <TeamStandings Group="Group B">
      <TeamRecord TeamRef="t7" Position="1" Played="3" Won="3" Drawn="0" Lost="0" For="9" Against="1" Points="9"/>
    </TeamStandings>
    <Team uID="t43"><Name>Borough Athletic</Name></Team>
  </Competition>
</SportsFeed>`

func TestClient_Standings_GroupsRows(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(standingsDoc))
	})

	byGroup, teams, err := client.Standings(context.Background(), "8", "2026")
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}

	if len(byGroup) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(byGroup))
	}
	groupA := byGroup["Group A"]
	if len(groupA) != 2 || groupA[0].TeamID != "43" || groupA[0].Position != 1 || groupA[0].Points != 7 {
		t.Fatalf("unexpected group A rows: %+v", groupA)
	}
	groupB := byGroup["Group B"]
	if len(groupB) != 1 || groupB[0].TeamID != "7" {
		t.Fatalf("unexpected group B rows: %+v", groupB)
	}
	if len(teams) != 1 || teams[0].Name != "Borough Athletic" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
}

func TestClient_Standings_SkipsRowsWithoutPosition(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<SportsFeed><Competition uID="c8">
			<TeamStandings Group="Group A">
				<TeamRecord TeamRef="t1" Position="0" Points="3"/>
				<TeamRecord TeamRef="" Position="2" Points="1"/>
			</TeamStandings>
		</Competition></SportsFeed>`))
	})

	byGroup, _, err := client.Standings(context.Background(), "8", "2026")
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}
	if len(byGroup) != 0 {
		t.Fatalf("rows without team or position must be dropped, got %+v", byGroup)
	}
}
