package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/runner"
	"github.com/dwellwatch/dwellwatch/pkg/sources/fixture"
	"github.com/dwellwatch/dwellwatch/pkg/web"
	"github.com/dwellwatch/dwellwatch/pkg/workflow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	source, err := fixture.NewSource(fixture.DefaultEntries(), slog.Default())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source.WithNow(func() time.Time { return now })

	r := runner.NewRunner(
		source,
		nil,
		workflow.NewEngine(slog.Default()),
		models.DefaultPolicy(),
		slog.Default(),
	).WithNow(func() time.Time { return now })

	api := NewAPI(slog.Default(), r, models.DefaultPolicy())

	return api.App()
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	})

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dwellwatch API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestAPI_GetPolicy(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/policy", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var policy web.PolicyResponse

	require.NoError(t, json.Unmarshal(body, &policy))
	assert.InDelta(t, 72.0, policy.ThresholdHours, 0.001)
	assert.InDelta(t, 2.0, policy.WarnWindowHours, 0.001)
}

func TestAPI_TriggerRun(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.TriggerRunResponse

	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 3, result.Summary.Evaluated)
	assert.Equal(t, 1, result.Summary.Overdue)
	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, models.StatusNotified, result.Outcomes[0].Status)
	assert.Equal(t, models.StatusOK, result.Outcomes[1].Status)
}

func TestAPI_TriggerRun_ThresholdOverride(t *testing.T) {
	app := setupTestApp(t)

	payload := bytes.NewBufferString(`{"threshold_hours": 48}`)
	req := httptest.NewRequest(http.MethodPost, "/runs", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.TriggerRunResponse

	require.NoError(t, json.Unmarshal(body, &result))

	// With a 48h threshold the 70h fixture patient becomes overdue too.
	assert.Equal(t, 2, result.Summary.Overdue)
}

func TestAPI_TriggerRun_InvalidOverride(t *testing.T) {
	app := setupTestApp(t)

	payload := bytes.NewBufferString(`{"threshold_hours": -5}`)
	req := httptest.NewRequest(http.MethodPost, "/runs", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TriggerRun_MalformedBody(t *testing.T) {
	app := setupTestApp(t)

	payload := bytes.NewBufferString(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/runs", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
