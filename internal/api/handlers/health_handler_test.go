package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// pingedDB opens gorm over sqlmock with ping monitoring on. The ping gorm
// issues on open is already consumed.
func pingedDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectPing()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db, DriverName: "postgres"}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// ==================== Health Tests ====================

func TestHealth_Services(t *testing.T) {
	tests := []struct {
		name          string
		mailStore     bool
		pingErr       error
		wantCode      int
		wantStatus    string
		wantDatabase  string
		wantMailStore string
	}{
		{"archive with mail store", true, nil, http.StatusOK, "healthy", "healthy", "configured"},
		{"smtp-only archive", false, nil, http.StatusOK, "healthy", "healthy", "not configured"},
		{"database down", true, sql.ErrConnDone, http.StatusServiceUnavailable, "unhealthy", "unhealthy", "configured"},
		{"database down without mail store", false, sql.ErrConnDone, http.StatusServiceUnavailable, "unhealthy", "unhealthy", "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			gormDB, mock := pingedDB(t)
			mock.ExpectPing().WillReturnError(tt.pingErr)
			h := NewHealthHandler(gormDB, tt.mailStore)

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			// Act
			require.NoError(t, h.Health(c))

			// Assert
			assert.Equal(t, tt.wantCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, map[string]string{
				"database":   tt.wantDatabase,
				"mail_store": tt.wantMailStore,
			}, resp.Services)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==================== Ready Tests ====================

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantBody map[string]string
	}{
		{"database reachable", nil, http.StatusOK, map[string]string{"status": "ready"}},
		{"database down", sql.ErrConnDone, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database ping failed",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := pingedDB(t)
			mock.ExpectPing().WillReturnError(tt.pingErr)
			// readiness ignores the mail store
			h := NewHealthHandler(gormDB, false)

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/ready", nil), rec)

			require.NoError(t, h.Ready(c))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
