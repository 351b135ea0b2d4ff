package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func TestGenerateReport(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer debug-token", r.Header.Get("Authorization"))
		w.Header().Set("Location", "https://api.ebay.test/sell/feed/v1/inventory_task/task-99")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer feedServer.Close()
	app.Config().Ebay.FeedAPIBaseURL = feedServer.URL

	resp, err := http.Post(ts.URL+"/api/reports/generate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, "task-99", body["task_id"])
}

func TestGenerateReportUpstreamFailure(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer feedServer.Close()
	app.Config().Ebay.FeedAPIBaseURL = feedServer.URL

	resp, err := http.Post(ts.URL+"/api/reports/generate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestReportStatusRequiresTaskID(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	resp, err := http.Get(ts.URL + "/api/reports/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportStatus(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory_task/task-7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"taskId":"task-7","status":"IN_PROCESS"}`))
	}))
	defer feedServer.Close()
	app.Config().Ebay.FeedAPIBaseURL = feedServer.URL

	resp, err := http.Get(ts.URL + "/api/reports/status?task_id=task-7")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, "IN_PROCESS", body["status"])
}

func TestRecentReportsRejectsBadDays(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	resp, err := http.Get(ts.URL + "/api/reports/recent?days=zero")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecentReports(t *testing.T) {
	app, ts := setupAPITest(t)
	app.Config().Ebay.UserAccessToken = "debug-token"

	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tasks":[{"taskId":"a","status":"COMPLETED"}]}`))
	}))
	defer feedServer.Close()
	app.Config().Ebay.FeedAPIBaseURL = feedServer.URL

	resp, err := http.Get(ts.URL + "/api/reports/recent?days=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Tasks []map[string]interface{} `json:"tasks"`
	}
	require.NoError(t, decodeJSON(resp, &body))
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, "a", body.Tasks[0]["task_id"])
}
