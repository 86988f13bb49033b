package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"billetterie/config"
	"billetterie/internal/models"
	"billetterie/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))
	config.SeedRoles(db)

	r := gin.New()
	server.SetupRoutes(r, db)
	return r, db
}

func performRequest(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createTestTheme(t *testing.T, db *gorm.DB, title string) models.Theme {
	t.Helper()
	theme := models.Theme{Title: title}
	require.NoError(t, db.Create(&theme).Error)
	return theme
}

func createTestEvent(t *testing.T, db *gorm.DB, theme models.Theme, title, price string, inventory int) models.Event {
	t.Helper()
	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	event := models.Event{
		Title:       title,
		Slug:        strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Description: "Test event",
		UnitPrice:   unitPrice,
		Inventory:   inventory,
		City:        "Paris",
		Location:    "Le Zenith",
		Date:        time.Now().Add(30 * 24 * time.Hour),
		ThemeID:     theme.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func createTestCustomer(t *testing.T, db *gorm.DB, email, roleName string) (models.User, models.Customer) {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	user := models.User{
		Email:     email,
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "User",
		RoleID:    role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	customer := models.Customer{
		Phone:   "0600000000",
		City:    "Paris",
		Country: "France",
		UserID:  user.ID,
	}
	require.NoError(t, db.Create(&customer).Error)
	return user, customer
}

func authToken(t *testing.T, user models.User, roleName string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    roleName,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func createTestCart(t *testing.T, db *gorm.DB) models.Cart {
	t.Helper()
	cart := models.Cart{}
	require.NoError(t, db.Create(&cart).Error)
	return cart
}

func addTestCartTicket(t *testing.T, db *gorm.DB, cart models.Cart, event models.Event, quantity int) models.CartTicket {
	t.Helper()
	ticket := models.CartTicket{
		CartID:   cart.ID,
		EventID:  event.ID,
		Quantity: quantity,
	}
	require.NoError(t, db.Create(&ticket).Error)
	return ticket
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}

// assertDecimalEqual compares money values numerically so "55", "55.0"
// and "55.00" all pass.
func assertDecimalEqual(t *testing.T, expected string, actual interface{}) {
	t.Helper()
	s, ok := actual.(string)
	require.True(t, ok, "expected decimal string, got %T (%v)", actual, actual)
	actualDec, err := decimal.NewFromString(s)
	require.NoError(t, err)
	expectedDec, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	require.True(t, expectedDec.Equal(actualDec), "expected %s, got %s", expected, s)
}

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
