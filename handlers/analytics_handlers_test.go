package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/analytics"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/middleware"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
)

type fakeCounter struct {
	sourceType []store.SourceTypeCount
	sources    []models.SourceCount
	countries  []models.CountryCount
	byType     map[string]uint64
	events     []models.AnalyticsEvent

	lastSourceLimit int
}

func (f *fakeCounter) CountBySourceAndType(context.Context) ([]store.SourceTypeCount, error) {
	return f.sourceType, nil
}

func (f *fakeCounter) CountBySource(_ context.Context, limit int) ([]models.SourceCount, error) {
	f.lastSourceLimit = limit
	if limit < len(f.sources) {
		return f.sources[:limit], nil
	}
	return f.sources, nil
}

func (f *fakeCounter) CountByCountry(_ context.Context, limit int) ([]models.CountryCount, error) {
	if limit < len(f.countries) {
		return f.countries[:limit], nil
	}
	return f.countries, nil
}

func (f *fakeCounter) CountByTypeSince(context.Context, time.Time) (map[string]uint64, error) {
	return f.byType, nil
}

func (f *fakeCounter) RecentEvents(_ context.Context, limit int) ([]models.AnalyticsEvent, error) {
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func newAnalyticsRouter(counter *fakeCounter, sessions *store.SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandlers(analytics.NewEngine(counter))

	r := gin.New()
	protected := r.Group("/api/admin")
	protected.Use(middleware.AdminRequired(sessions))
	protected.GET("/analytics", h.GetAnalytics)
	return r
}

func getWithSession(t *testing.T, r *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func loggedInSession(t *testing.T, sessions *store.SessionStore) string {
	t.Helper()
	session, err := sessions.Create()
	require.NoError(t, err)
	return session.Token
}

func TestAnalyticsRequiresSession(t *testing.T) {
	sessions := store.NewSessionStore()
	r := newAnalyticsRouter(&fakeCounter{}, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = getWithSession(t, r, "/api/admin/analytics", "0000000000000000000000000000000000000000000000000000000000000000")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsExpiredSessionRejected(t *testing.T) {
	sessions := store.NewSessionStore()
	token := loggedInSession(t, sessions)
	r := newAnalyticsRouter(&fakeCounter{byType: map[string]uint64{}}, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics?type=summary", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Once the store drops the session (logout or expiry eviction), the
	// same token is a 401. The 24h boundary itself is covered in the
	// session store tests.
	sessions.Delete(token)
	rec = getWithSession(t, r, "/api/admin/analytics?type=summary", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsSummaryDefault(t *testing.T) {
	sessions := store.NewSessionStore()
	token := loggedInSession(t, sessions)
	counter := &fakeCounter{
		byType:  map[string]uint64{models.EventPageView: 5, models.EventFormSuccess: 1},
		sources: []models.SourceCount{{Source: "direct", Count: 6}},
	}
	r := newAnalyticsRouter(counter, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total"`)
	assert.Contains(t, rec.Body.String(), `"topSources"`)
}

func TestAnalyticsInvalidType(t *testing.T) {
	sessions := store.NewSessionStore()
	token := loggedInSession(t, sessions)
	r := newAnalyticsRouter(&fakeCounter{}, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics?type=bogus", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsSourcesLimit(t *testing.T) {
	sessions := store.NewSessionStore()
	token := loggedInSession(t, sessions)
	counter := &fakeCounter{
		sources: []models.SourceCount{
			{Source: "google", Count: 10},
			{Source: "direct", Count: 8},
			{Source: "email", Count: 6},
			{Source: "social", Count: 4},
			{Source: "referral", Count: 2},
		},
	}
	r := newAnalyticsRouter(counter, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics?type=sources&limit=3", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, counter.lastSourceLimit)
	assert.NotContains(t, rec.Body.String(), "social")

	// Out-of-range and junk limits are clamped server-side.
	getWithSession(t, r, "/api/admin/analytics?type=sources&limit=9999", token)
	assert.Equal(t, 500, counter.lastSourceLimit)
	getWithSession(t, r, "/api/admin/analytics?type=sources&limit=abc", token)
	assert.Equal(t, 10, counter.lastSourceLimit)
}

func TestAnalyticsCSVFormat(t *testing.T) {
	sessions := store.NewSessionStore()
	token := loggedInSession(t, sessions)
	counter := &fakeCounter{
		sources: []models.SourceCount{{Source: "google", Count: 10}},
	}
	r := newAnalyticsRouter(counter, sessions)

	rec := getWithSession(t, r, "/api/admin/analytics?type=sources&format=csv", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="analytics-sources-`), "unexpected disposition: %s", disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), "unexpected disposition: %s", disposition)

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Source,Count", lines[0])
	assert.Equal(t, "google,10", lines[1])
}
