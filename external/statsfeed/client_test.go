package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const fixturesDoc = `<?xml version="1.0" encoding="UTF-8"?>
<SportsFeed TimeStamp="2026-08-30T14:00:00Z">
  <Competition uID="c8" SeasonID="2026">
    <MatchData uID="g1001" Period="FullTime" GroupName="Group A" Venue="Meadow Lane">
      <MatchInfo Date="2026-08-28T15:00:00Z" RoundNumber="2"/>
      <TeamData Side="Home" TeamRef="t43" Score="2"/>
      <TeamData Side="Away" TeamRef="t14" Score="1"/>
    </MatchData>
    <MatchData uID="g1002" Period="PreMatch" GroupName="Group A">
      <MatchInfo Date="2026-09-02T19:45:00Z" RoundNumber="3"/>
      <TeamData Side="Home" TeamRef="t14"/>
      <TeamData Side="Away" TeamRef="t7"/>
    </MatchData>
    <Team uID="t43"><Name>Borough Athletic</Name><ShortName>BOR</ShortName></Team>
    <Team uID="t14"><Name>Riverside United</Name><ShortName>RIV</ShortName></Team>
  </Competition>
</SportsFeed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		Username: "feeduser",
		Password: "feedpass",
		Timeout:  2 * time.Second,
	})
	return client, server
}

func TestClient_Fixtures_ParsesDocument(t *testing.T) {
	t.Parallel()

	var gotUser, gotPsw atomic.Value
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser.Store(r.URL.Query().Get("user"))
		gotPsw.Store(r.URL.Query().Get("psw"))
		_, _ = w.Write([]byte(fixturesDoc))
	})

	matches, teams, err := client.Fixtures(context.Background(), "8", "2026")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if gotUser.Load() != "feeduser" || gotPsw.Load() != "feedpass" {
		t.Fatal("expected feed credentials on the request")
	}

	finished := matches[0]
	if finished.ID != "1001" || finished.HomeTeamID != "43" || finished.AwayTeamID != "14" {
		t.Fatalf("ids must be prefix-stripped, got %+v", finished)
	}
	if finished.HomeScore == nil || *finished.HomeScore != 2 || *finished.AwayScore != 1 {
		t.Fatalf("unexpected score: %+v", finished)
	}
	if finished.GroupID != "Group A" {
		t.Fatalf("unexpected group scope: %q", finished.GroupID)
	}

	upcoming := matches[1]
	if upcoming.HomeScore != nil || upcoming.AwayScore != nil {
		t.Fatal("pre-match fixture must carry nil scores")
	}

	if len(teams) != 2 || teams[0].FeedID != "43" || teams[0].Short != "BOR" {
		t.Fatalf("unexpected team list: %+v", teams)
	}
}

func TestClient_Fixtures_UpstreamFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, _, err := client.Fixtures(context.Background(), "8", "2026")
	if !IsUnavailable(err) {
		t.Fatalf("expected FeedUnavailable, got %v", err)
	}
	if IsMalformed(err) {
		t.Fatal("transport failure must not read as malformed")
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("client must not retry, got %d requests", got)
	}
}

func TestClient_Fixtures_GarbageIsMalformed(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not xml at all"))
	})

	_, _, err := client.Fixtures(context.Background(), "8", "2026")
	if !IsMalformed(err) {
		t.Fatalf("expected FeedMalformed, got %v", err)
	}
}

func TestClient_Fixtures_SecondCallServedFromCache(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(fixturesDoc))
	})

	for i := 0; i < 3; i++ {
		if _, _, err := client.Fixtures(context.Background(), "8", "2026"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}

	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single upstream request inside the TTL window, got %d", got)
	}
}

func TestClient_Fixtures_ContextTimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(fixturesDoc))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := client.Fixtures(ctx, "8", "2026")
	if !IsUnavailable(err) {
		t.Fatalf("expected timeout to read as FeedUnavailable, got %v", err)
	}
}

func TestNewClient_DoesNotMutateCallerHTTPClient(t *testing.T) {
	t.Parallel()

	supplied := &http.Client{}
	client := NewClient(ClientConfig{BaseURL: "https://feeds.example.com", HTTPClient: supplied})

	if supplied.Timeout != 0 {
		t.Fatalf("caller's client was mutated, timeout now %v", supplied.Timeout)
	}
	if client.httpClient.Timeout <= 0 {
		t.Fatal("expected the client's own copy to carry a default timeout")
	}
}

func TestRedactCredentials(t *testing.T) {
	t.Parallel()

	in := "https://feeds.example.com/v2/x?user=feeduser&psw=s3cret&season=2026"
	got := redactCredentials(in)
	if got != "https://feeds.example.com/v2/x?user=REDACTED&psw=REDACTED&season=2026" {
		t.Fatalf("unexpected redaction: %s", got)
	}
}
