package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
)

type archiveMock struct {
	mock.Mock
}

func (m *archiveMock) UpsertMany(ctx context.Context, items []snapshot.Payload) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func TestClient_Fixtures_ArchivesFreshPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(func() http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(fixturesDoc))
		}
	}())
	t.Cleanup(server.Close)

	archived := make(chan []snapshot.Payload, 1)
	archive := &archiveMock{}
	archive.
		On("UpsertMany", mock.Anything, mock.AnythingOfType("[]snapshot.Payload")).
		Run(func(args mock.Arguments) {
			archived <- args.Get(1).([]snapshot.Payload)
		}).
		Return(nil).
		Once()

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		Username: "feeduser",
		Password: "feedpass",
		Timeout:  2 * time.Second,
		Archive:  archive,
	})

	if _, _, err := client.Fixtures(context.Background(), "8", "2026"); err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}

	select {
	case items := <-archived:
		if len(items) != 1 {
			t.Fatalf("expected 1 archived payload, got %d", len(items))
		}
		payload := items[0]
		if payload.Source != "statsfeed" || payload.FeedKind != FeedFixtures {
			t.Fatalf("unexpected payload identity: source=%q kind=%q", payload.Source, payload.FeedKind)
		}
		if payload.CompetitionID != "8" || payload.SeasonID != "2026" {
			t.Fatalf("unexpected payload scope: %+v", payload)
		}
		if payload.Body == "" || payload.BodyHash == "" {
			t.Fatalf("expected body and hash to be recorded")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for archive write")
	}
	archive.AssertExpectations(t)

	// A cache hit must not archive again.
	if _, _, err := client.Fixtures(context.Background(), "8", "2026"); err != nil {
		t.Fatalf("fetch fixtures from cache: %v", err)
	}
	archive.AssertNumberOfCalls(t, "UpsertMany", 1)
}
