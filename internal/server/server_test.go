package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
	"github.com/cleardwell/assess-cli/internal/scoring"
	"github.com/cleardwell/assess-cli/internal/store"
)

type testEnv struct {
	server *Server
	store  store.Store
	http   *httptest.Server
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	cat := catalog.Default()
	w := scoring.DefaultWeights()
	require.NoError(t, w.Validate(cat))
	builder := scoring.NewBuilder(cat, w, catalog.ReferenceBaselines())

	srv := New(st, builder, cat, opts)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: srv, store: st, http: ts}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(e.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(e.http.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	resp, body := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestReportEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	ctx := context.Background()

	p, err := env.store.CreateProperty(ctx, "12 Alder Lane", "northeast")
	require.NoError(t, err)
	_, err = env.store.InsertReading(ctx, model.Reading{
		PropertyID: p.ID, MetricKey: "CO2", Value: 740,
	})
	require.NoError(t, err)

	t.Run("scored report for known property", func(t *testing.T) {
		resp, body := env.get(t, "/api/properties/"+p.ID+"/report")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rep model.Report
		require.NoError(t, json.Unmarshal(body, &rep))
		assert.Equal(t, p.ID, rep.PropertyID)
		assert.Equal(t, 1, rep.ReadingCount)
		air := rep.Category(model.CategoryAir)
		require.NotNil(t, air)
		assert.False(t, air.Insufficient)
		assert.Equal(t, 100, air.Score)
	})

	t.Run("unknown property is 404", func(t *testing.T) {
		resp, _ := env.get(t, "/api/properties/nope/report")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateReadingEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	p, err := env.store.CreateProperty(context.Background(), "3 Birch Court", "")
	require.NoError(t, err)

	t.Run("valid reading is created", func(t *testing.T) {
		resp := env.post(t, "/api/readings",
			`{"property_id":"`+p.ID+`","metric_key":"PM25","value":14}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		readings, err := env.store.ListReadings(context.Background(),
			store.ReadingFilter{PropertyID: p.ID})
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, "PM25", readings[0].MetricKey)
	})

	t.Run("unknown metric is rejected", func(t *testing.T) {
		resp := env.post(t, "/api/readings",
			`{"property_id":"`+p.ID+`","metric_key":"Radon","value":4}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		resp := env.post(t, "/api/readings", `{"value":14}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		resp := env.post(t, "/api/readings", `{not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown property is 404", func(t *testing.T) {
		resp := env.post(t, "/api/readings",
			`{"property_id":"nope","metric_key":"CO2","value":700}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestShareEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{ShareTTL: time.Hour, ShareRatePerMin: 600})
	ctx := context.Background()

	p, err := env.store.CreateProperty(ctx, "21 Elm Street", "")
	require.NoError(t, err)
	_, err = env.store.InsertReading(ctx, model.Reading{
		PropertyID: p.ID, MetricKey: "TDS", Value: 200,
	})
	require.NoError(t, err)

	t.Run("create then fetch shared report", func(t *testing.T) {
		resp := env.post(t, "/api/properties/"+p.ID+"/share", "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var link model.ShareLink
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&link))
		require.NotEmpty(t, link.Token)

		getResp, body := env.get(t, "/api/shared/"+link.Token+"/report")
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		var rep model.Report
		require.NoError(t, json.Unmarshal(body, &rep))
		assert.Equal(t, p.ID, rep.PropertyID)
	})

	t.Run("bogus token is 404", func(t *testing.T) {
		resp, _ := env.get(t, "/api/shared/bogus/report")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("share for unknown property is 404", func(t *testing.T) {
		resp := env.post(t, "/api/properties/nope/share", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestShareRateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{ShareRatePerMin: 1})
	p, err := env.store.CreateProperty(context.Background(), "9 Dogwood Drive", "")
	require.NoError(t, err)

	first := env.post(t, "/api/properties/"+p.ID+"/share", "")
	assert.Equal(t, http.StatusCreated, first.StatusCode)

	second := env.post(t, "/api/properties/"+p.ID+"/share", "")
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
