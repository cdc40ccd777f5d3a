package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoteldesk/internal/config"
	"hoteldesk/internal/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:          "test",
		HTTPAddr:        ":0",
		DataFile:        filepath.Join(t.TempDir(), "hotel.json"),
		LogLevel:        "info",
		LogFormat:       "json",
		AllowedOrigins:  []string{"http://localhost:5173"},
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		MetricsEnabled:  true,
	}
}

func call(t *testing.T, app *App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestApp_FrontDeskDayPersists(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	code, _ := call(t, app, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = call(t, app, http.MethodPost, "/api/v1/rooms", `{"number":"102","type":"DoubleRoom","price":1500}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = call(t, app, http.MethodPut, "/api/v1/rooms/102/status", `{"status":"maintenance"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"2024-05-01","checkOut":"2024-05-03","guestEmail":"asha@example.com"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := call(t, app, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, code)
	stats := body["data"].(map[string]interface{})
	assert.Equal(t, 2000.0, stats["revenue"])
	assert.Equal(t, 50.0, stats["occupancyRate"])

	raw, err := os.ReadFile(cfg.DataFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"guestName": "Asha"`)

	restarted, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	code, body = call(t, restarted, http.MethodGet, "/api/v1/rooms?status=booked", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["count"])
}

func TestApp_LoadsStaleFileReconciled(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.DataFile, []byte(`{
  "rooms": [{"number": "101", "price": 1000, "isBooked": false, "type": "SingleRoom"}],
  "bookings": {"101": {"guestName": "Asha", "checkIn": "2024-05-01", "checkOut": "2024-05-03"}}
}`), 0o644))

	app, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	code, body := call(t, app, http.MethodGet, "/api/v1/rooms/101", "")
	require.Equal(t, http.StatusOK, code)
	room := body["data"].(map[string]interface{})["room"].(map[string]interface{})
	assert.Equal(t, true, room["isBooked"])
	assert.Equal(t, "Asha", room["bookedBy"])
}

func TestApp_CorruptFileFailsStartup(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.DataFile, []byte(`not json`), 0o644))

	_, err := New(cfg, logger.NewNop())

	assert.Error(t, err)
}

func TestApp_HealthAndMetrics(t *testing.T) {
	app, err := New(testConfig(t), logger.NewNop())
	require.NoError(t, err)

	code, body := call(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["data"].(map[string]interface{})["status"])

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hoteldesk_http_requests_total")
	assert.Contains(t, w.Body.String(), "hoteldesk_hotel_rooms")
}

func TestApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	app, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	code, body := call(t, app, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]interface{})["code"])
}

func TestApp_HTTPServer(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	srv := app.HTTPServer()

	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.NotNil(t, srv.Handler)
}
