package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
)

const channelResponse = `{
  "items": [{
    "id": "UC123",
    "snippet": {
      "title": "Maker Lab",
      "thumbnails": {"high": {"url": "https://img.example/high.jpg"}}
    },
    "statistics": {"subscriberCount": "1500", "viewCount": "90000", "videoCount": "42"}
  }]
}`

type fakeYouTube struct {
	server *httptest.Server
	query  atomic.Value
	header atomic.Value
}

func newFakeYouTube(t *testing.T, status int, payload string) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.query.Store(r.URL.Query())
		f.header.Store(r.Header.Get("X-Goog-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeYouTube) service() *StatsService {
	return NewStatsService(f.server.URL+"/", zap.NewNop())
}

func (f *fakeYouTube) lastQuery() url.Values {
	q, _ := f.query.Load().(url.Values)
	return q
}

func TestLookupMapsChannel(t *testing.T) {
	fake := newFakeYouTube(t, http.StatusOK, channelResponse)

	stats, err := fake.service().Lookup(context.Background(), "UC123", "yt-key")
	require.NoError(t, err)

	assert.Equal(t, "Maker Lab", stats.Name)
	assert.EqualValues(t, 1500, stats.SubscriberCount)
	assert.EqualValues(t, 90000, stats.TotalViewCount)
	assert.EqualValues(t, 42, stats.VideoCount)
	assert.Equal(t, "https://img.example/high.jpg", stats.AvatarURL)
	assert.Equal(t, "https://youtube.com/channel/UC123", stats.ChannelURL)
	assert.Equal(t, "Live data", stats.GrowthLabel)
	assert.Equal(t, []int{30, 45, 40, 60, 55, 70, 65}, stats.RecentViewsTrend)

	q := fake.lastQuery()
	assert.Equal(t, "UC123", q.Get("id"))
	// The key travels as a query parameter or header depending on the auth stack.
	assert.Contains(t, []string{q.Get("key"), fake.header.Load().(string)}, "yt-key")
	assert.Equal(t, "snippet,statistics", strings.Join(q["part"], ","))
}

func TestLookupByHandle(t *testing.T) {
	fake := newFakeYouTube(t, http.StatusOK, channelResponse)

	_, err := fake.service().Lookup(context.Background(), "@makerlab", "yt-key")
	require.NoError(t, err)

	q := fake.lastQuery()
	assert.Equal(t, "makerlab", q.Get("forHandle"))
	assert.Empty(t, q.Get("id"))
}

func TestLookupChannelNotFound(t *testing.T) {
	fake := newFakeYouTube(t, http.StatusOK, `{"items":[]}`)

	_, err := fake.service().Lookup(context.Background(), "UC_missing", "yt-key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrChannelNotFound), "got %v", err)
}

func TestLookupSurfacesAPIError(t *testing.T) {
	fake := newFakeYouTube(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","errors":[{"reason":"badRequest"}]}}`)

	_, err := fake.service().Lookup(context.Background(), "UC123", "bad-key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUpstream))
	assert.Equal(t, "API key not valid. Please pass a valid API key.", apperr.UserMessage(err))
}

func TestLookupRequiresInput(t *testing.T) {
	svc := NewStatsService("", zap.NewNop())

	_, err := svc.Lookup(context.Background(), "  ", "key")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = svc.Lookup(context.Background(), "UC123", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}
