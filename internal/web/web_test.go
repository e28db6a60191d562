package web

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/a2a"
	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/export"
	"github.com/BerylCAtieno/tubearchitect/internal/identity"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
	"github.com/BerylCAtieno/tubearchitect/internal/store"
	"github.com/BerylCAtieno/tubearchitect/internal/strategy"
	"github.com/BerylCAtieno/tubearchitect/internal/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStats struct{}

func (stubStats) Lookup(_ context.Context, identifier, _ string) (*models.ChannelStats, error) {
	if identifier == "UC_missing" {
		return nil, apperr.NewChannelNotFound(identifier)
	}
	return &models.ChannelStats{ChannelID: identifier, Name: "Maker Lab", SubscriberCount: 1500, TotalViewCount: 90000}, nil
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	wf      *workflow.Workflow
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	gen := strategy.NewGeminiClient(strategy.Config{}, logger)
	wf := workflow.New(session.NewManager(), store.NewMemoryStore(), stubStats{}, gen, logger)
	t.Cleanup(wf.Close)

	auth := identity.NewAuthenticator(identity.Config{Secret: []byte("test-secret"), GuestCookie: "tubearchitect_guest"}, logger)
	srv, err := NewServer(wf, auth, a2a.NewA2AHandler(gen, stubStats{}, logger), logger)
	require.NoError(t, err)
	return &testServer{t: t, router: srv.Router(), wf: wf}
}

// do sends a request as the same guest browser every time.
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.t.Helper()
	for _, c := range ts.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		ts.cookies = cookies
	}
	return w
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts *testServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func (ts *testServer) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req)
}

// step posts one onboarding form and expects the redirect back to the app.
func (ts *testServer) step(form url.Values) {
	ts.t.Helper()
	w := ts.post("/app/onboarding", form)
	require.Equal(ts.t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(ts.t, "/app", w.Header().Get("Location"))
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = ts.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgentRoutesAreMounted(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/.well-known/agent.json")
	require.Equal(t, http.StatusOK, w.Code)
	var card a2a.AgentCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.True(t, strings.HasSuffix(card.URL, a2a.Path))
}

func TestBrowserFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Start building")
	require.NotEmpty(t, ts.cookies, "guest cookie issued")

	w = ts.post("/app/start", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = ts.get("/app")
	assert.Contains(t, w.Body.String(), "Step 1 of 7")

	ts.step(url.Values{"name": {"Sara"}, "niche": {"Tech & Coding"}, "action": {"next"}})
	ts.step(url.Values{"passionBio": {"I love explaining how gadgets work inside"}, "action": {"next"}})

	ts.step(url.Values{"toggle": {"Education"}})
	w = ts.get("/app")
	assert.Contains(t, w.Body.String(), "Step 3 of 7")
	assert.Contains(t, w.Body.String(), `aria-pressed="true"`)
	ts.step(url.Values{"action": {"next"}})

	ts.step(url.Values{"experienceLevel": {"Beginner"}, "action": {"next"}})
	ts.step(url.Values{"primaryGoal": {"Monetization"}, "action": {"next"}})
	ts.step(url.Values{"timeCommitment": {"40+ Hours (Full-Time)"}, "action": {"next"}})
	ts.step(url.Values{"action": {"next"}})

	w = ts.get("/app")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Future Tech (Sample)")
	assert.Contains(t, w.Body.String(), "24,500 subscribers")

	w = ts.post("/app/connect/demo", url.Values{"demoIndex": {"0"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	ts.wf.Wait()

	demo := strategy.DemoAnalysis()
	w = ts.get("/app")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Strengths")
	assert.Contains(t, w.Body.String(), template.HTMLEscapeString(demo.Strengths[0]))

	w = ts.post("/app/tab/ideas", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = ts.get("/app")
	assert.Contains(t, w.Body.String(), template.HTMLEscapeString(demo.VideoIdeas[0].Title))

	w = ts.get("/app/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="TubeArchitect_Future Tech (Sample).docx"`)
	rows, err := export.ReadIdeaTable(w.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, rows, len(demo.VideoIdeas)+1)

	w = ts.post("/app/signout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = ts.get("/")
	assert.Contains(t, w.Body.String(), "Continue as Sara")
}

func TestDashboardNavigationMarksActiveTab(t *testing.T) {
	ts := newTestServer(t)
	ts.sendJSON(http.MethodPut, "/api/v1/profile", profileJSON)
	w := ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"demoIndex":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, tab := range session.Tabs() {
		t.Run(string(tab), func(t *testing.T) {
			require.Equal(t, http.StatusSeeOther, ts.post("/app/tab/"+string(tab), nil).Code)
			w := ts.get("/app")
			require.Equal(t, http.StatusOK, w.Code)

			doc, err := goquery.NewDocumentFromReader(w.Body)
			require.NoError(t, err)

			forms := doc.Find("nav.side form")
			assert.Equal(t, len(session.Tabs()), forms.Length())

			active := doc.Find(`nav.side button[aria-current="page"]`)
			require.Equal(t, 1, active.Length())
			action, _ := active.Closest("form").Attr("action")
			assert.Equal(t, "/app/tab/"+string(tab), action)
			assert.False(t, active.HasClass("ghost"))
		})
	}
}

func TestOnboardingShowsValidationError(t *testing.T) {
	ts := newTestServer(t)
	ts.post("/app/start", nil)

	w := ts.post("/app/onboarding", url.Values{"name": {""}, "niche": {"Gaming"}, "action": {"next"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `role="alert"`)
	assert.Contains(t, w.Body.String(), "Step 1 of 7")
}

func TestUnknownTabIsRejected(t *testing.T) {
	ts := newTestServer(t)
	w := ts.sendJSON(http.MethodPut, "/api/v1/profile", profileJSON)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"demoIndex":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.post("/app/tab/billing", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown dashboard tab")
}

func TestActionsFromWrongScreen(t *testing.T) {
	ts := newTestServer(t)

	w := ts.post("/app/connect/demo", url.Values{"demoIndex": {"0"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.post("/app/resume", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

const profileJSON = `{
	"name":"Sara","niche":"Tech & Coding","passionBio":"I love explaining how gadgets work inside",
	"contentStyles":["Education"],"experienceLevel":"Beginner","primaryGoal":"Monetization",
	"timeCommitment":"40+ Hours (Full-Time)","productionConstraints":[],"modelCredential":""
}`

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperr.Response {
	t.Helper()
	var resp apperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAPIDemoAnalysis(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/api/v1/analysis")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.KindNotFound, decodeError(t, w).Error.Code)

	w = ts.sendJSON(http.MethodPut, "/api/v1/profile", profileJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var profile models.ProfileInput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Sara", profile.Name)

	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"demoIndex":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Future Tech (Sample)", result.Channel.Name)
	assert.Equal(t, strategy.DemoAnalysis().VideoIdeas[0].Title, result.Analysis.VideoIdeas[0].Title)

	w = ts.get("/api/v1/session")
	require.Equal(t, http.StatusOK, w.Code)
	var snap struct {
		State struct {
			Stage string `json:"stage"`
			Tab   string `json:"tab"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "dashboard", snap.State.Stage)
	assert.Equal(t, "overview", snap.State.Tab)

	w = ts.get("/api/v1/analysis/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))

	// A second run starts from the dashboard.
	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"demoIndex":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPILiveAnalysis(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.sendJSON(http.MethodPut, "/api/v1/profile", profileJSON).Code)

	w := ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"channelId":"UC_missing","apiKey":"yt-key"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.KindChannelNotFound, decodeError(t, w).Error.Code)

	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"channelId":"UC123","apiKey":"yt-key"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Maker Lab", result.Channel.Name)
}

func TestAPIRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	w := ts.sendJSON(http.MethodPut, "/api/v1/profile", `{"name":"Sara"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.KindInvalidInput, decodeError(t, w).Error.Code)

	w = ts.sendJSON(http.MethodPut, "/api/v1/profile", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No saved profile, so the session cannot leave the welcome screen.
	w = ts.sendJSON(http.MethodPost, "/api/v1/analysis", `{"demoIndex":0}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.KindInvalidTransition, decodeError(t, w).Error.Code)
}

func TestAPIRejectsBadBearer(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.KindUnauthorized, decodeError(t, w).Error.Code)
}

func TestViewForProjectsEveryTab(t *testing.T) {
	channel := models.DemoChannels()[0]
	snap := session.Snapshot{Channel: &channel, Analysis: strategy.DemoAnalysis()}

	templates := map[session.Tab]string{}
	for _, tab := range session.Tabs() {
		templates[tab] = viewFor(tab, snap).template()
	}
	assert.Equal(t, map[session.Tab]string{
		session.TabOverview:   "tab_overview",
		session.TabStrategy:   "tab_strategy",
		session.TabIdeas:      "tab_ideas",
		session.TabProduction: "tab_production",
		session.TabSettings:   "tab_settings",
	}, templates)

	overview, ok := viewFor(session.TabOverview, snap).(overviewTab)
	require.True(t, ok)
	require.Len(t, overview.Trend, len(channel.RecentViewsTrend))
	assert.Equal(t, 100, overview.Trend[5].Percent) // 80 is the peak
	assert.Equal(t, 50, overview.Trend[0].Percent)
}

func TestTrendBarsHandlesEmptyAndZero(t *testing.T) {
	assert.Empty(t, trendBars(nil))
	assert.Equal(t, []trendBar{{Value: 0}, {Value: 0}}, trendBars([]int{0, 0}))
}

func TestIconsRender(t *testing.T) {
	for i := Icon(0); i < iconCount; i++ {
		assert.Contains(t, string(i.SVG()), "<path d=")
	}
	assert.Empty(t, Icon(-1).SVG())
	assert.Empty(t, iconCount.SVG())
}
