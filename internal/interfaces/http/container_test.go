package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/subtrack/internal/infrastructure/config"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/testutil"
	sharedConfig "github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: "test", AllowedOrigins: []string{"*"}},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "test-secret", AccessExpMinutes: 60},
			Admin:    sharedConfig.AdminConfig{Email: "admin@example.com", Password: "admin123"},
		},
		Reminder: sharedConfig.ReminderConfig{
			SweepIntervalMinutes: 60,
			DefaultLeadDays:      15,
			HorizonDays:          30,
			Concurrency:          2,
			LockTTLSeconds:       5,
		},
		Cache:    sharedConfig.CacheConfig{ProductSize: 16, ProductTTLSeconds: 60},
		Timezone: "UTC",
	}
}

func newTestContainer(t *testing.T) *Container {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.UserModel{},
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.AssignmentModel{},
		&models.LedgerEntryModel{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c, err := NewContainer(testConfig(), gdb, rdb, logger.NewNopLogger())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)
	return c
}

func do(c *Container, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, c *Container, email, password string) string {
	w := do(c, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, testutil.ParseData(w, &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func TestHealthReportsComponents(t *testing.T) {
	c := newTestContainer(t)

	w := do(c, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database"`)
	assert.Contains(t, w.Body.String(), `"redis"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestContainer(t)
	do(c, http.MethodGet, "/health", "", nil)

	w := do(c, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newTestContainer(t)

	w := do(c, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(c, http.MethodGet, "/api/mappings", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	c := newTestContainer(t)

	w := do(c, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName":        "Grace Hopper",
		"email":           "grace@example.com",
		"phone":           "0123456789",
		"password":        "cobol1959",
		"confirmPassword": "cobol1959",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	token := login(t, c, "grace@example.com", "cobol1959")

	w = do(c, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(c, http.MethodGet, "/api/admin/products", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomerProductMappingFlow(t *testing.T) {
	c := newTestContainer(t)
	token := login(t, c, "admin@example.com", "admin123")

	w := do(c, http.MethodPost, "/api/customers", token, map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "0123456789",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cust struct {
		ID string `json:"id"`
	}
	require.NoError(t, testutil.ParseData(w, &cust))

	w = do(c, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name":   "Hosting",
		"amount": 120,
		"type":   "Recurring",
		"count":  1,
		"period": "Year",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var prod struct {
		ID string `json:"id"`
	}
	require.NoError(t, testutil.ParseData(w, &prod))

	w = do(c, http.MethodPost, "/api/mappings", token, map[string]string{
		"customerId": cust.ID,
		"productId":  prod.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(c, http.MethodGet, "/api/mappings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list testutil.ListData
	require.NoError(t, testutil.ParseData(w, &list))
	assert.Equal(t, int64(1), list.Total)

	w = do(c, http.MethodGet, "/api/admin/products", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
