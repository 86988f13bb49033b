package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCreatesOrderWithSnapshots(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	eventE := createTestEvent(t, db, theme, "Event E", "20.00", 50)
	eventF := createTestEvent(t, db, theme, "Event F", "15.00", 50)
	cart := createTestCart(t, db)
	addTestCartTicket(t, db, cart, eventE, 2)
	addTestCartTicket(t, db, cart, eventF, 1)

	user, customer := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{"cart_id": cart.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, models.PaymentStatusPending, body["payment_status"])
	assert.Equal(t, customer.ID.String(), body["customer_id"])
	assertDecimalEqual(t, "55.00", body["total_price"])

	tickets := body["tickets"].([]interface{})
	require.Len(t, tickets, 2)
	pricesByEvent := map[string]interface{}{}
	quantitiesByEvent := map[string]float64{}
	for _, raw := range tickets {
		ticket := raw.(map[string]interface{})
		pricesByEvent[ticket["event_id"].(string)] = ticket["unit_price"]
		quantitiesByEvent[ticket["event_id"].(string)] = ticket["quantity"].(float64)
	}
	assertDecimalEqual(t, "20.00", pricesByEvent[eventE.ID.String()])
	assertDecimalEqual(t, "15.00", pricesByEvent[eventF.ID.String()])
	assert.EqualValues(t, 2, quantitiesByEvent[eventE.ID.String()])
	assert.EqualValues(t, 1, quantitiesByEvent[eventF.ID.String()])

	// The cart and its tickets are gone once the order is placed.
	assert.EqualValues(t, 0, countRows(t, db, &models.Cart{}, "id = ?", cart.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.CartTicket{}, "cart_id = ?", cart.ID))
}

func TestOrderTotalIsPriceSnapshot(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	event := createTestEvent(t, db, theme, "Event E", "20.00", 50)
	cart := createTestCart(t, db)
	addTestCartTicket(t, db, cart, event, 2)

	user, _ := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{"cart_id": cart.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeBody(t, w)["id"].(string)

	// A later catalog price change must not move the order total.
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).Update("unit_price", "99.00").Error)

	w = performRequest(t, r, http.MethodGet, "/v1/orders/"+orderID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assertDecimalEqual(t, "40.00", body["total_price"])
}

func TestCheckoutMissingCart(t *testing.T) {
	r, db := setupTestRouter(t)

	user, _ := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{
		"cart_id": "6a5d0c26-0000-0000-0000-000000000000",
	}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "No cart with the given ID was found.", body["message"])

	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}, ""))
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, db := setupTestRouter(t)

	cart := createTestCart(t, db)
	user, _ := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{"cart_id": cart.ID}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "The cart is empty.", body["message"])

	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}, ""))
	assert.EqualValues(t, 1, countRows(t, db, &models.Cart{}, "id = ?", cart.ID))
}

func TestCheckoutExpiredCart(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	event := createTestEvent(t, db, theme, "Jazz Night", "20.00", 50)
	cart := createTestCart(t, db)
	addTestCartTicket(t, db, cart, event, 1)

	stale := time.Now().Add(-400 * time.Hour)
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("created_at", stale).Error)

	user, _ := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{"cart_id": cart.ID}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "The cart has expired.", body["message"])

	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}, ""))
}

func TestCheckoutRequiresAuth(t *testing.T) {
	r, db := setupTestRouter(t)

	cart := createTestCart(t, db)

	w := performRequest(t, r, http.MethodPost, "/v1/orders", gin.H{"cart_id": cart.ID}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOrdersScopedToCustomer(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	event := createTestEvent(t, db, theme, "Jazz Night", "20.00", 50)

	userA, customerA := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	userB, customerB := createTestCustomer(t, db, "bob@example.com", models.RoleCustomer)
	adminUser, _ := createTestCustomer(t, db, "admin@example.com", models.RoleAdmin)

	for _, customer := range []models.Customer{customerA, customerB} {
		order := models.Order{
			CustomerID:    customer.ID,
			PaymentStatus: models.PaymentStatusPending,
			PlacedAt:      time.Now(),
		}
		require.NoError(t, db.Create(&order).Error)
		require.NoError(t, db.Create(&models.OrderTicket{
			OrderID:   order.ID,
			EventID:   event.ID,
			Quantity:  1,
			UnitPrice: event.UnitPrice,
		}).Error)
	}

	w := performRequest(t, r, http.MethodGet, "/v1/orders", nil, authToken(t, userA, models.RoleCustomer))
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeBody(t, w)["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, customerA.ID.String(), orders[0].(map[string]interface{})["customer_id"])

	w = performRequest(t, r, http.MethodGet, "/v1/orders", nil, authToken(t, userB, models.RoleCustomer))
	require.Equal(t, http.StatusOK, w.Code)
	orders = decodeBody(t, w)["orders"].([]interface{})
	require.Len(t, orders, 1)

	w = performRequest(t, r, http.MethodGet, "/v1/orders", nil, authToken(t, adminUser, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	orders = decodeBody(t, w)["orders"].([]interface{})
	assert.Len(t, orders, 2)
}

func TestGetOrderForbiddenForOtherCustomer(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	event := createTestEvent(t, db, theme, "Jazz Night", "20.00", 50)

	_, customerA := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	userB, _ := createTestCustomer(t, db, "bob@example.com", models.RoleCustomer)

	order := models.Order{
		CustomerID:    customerA.ID,
		PaymentStatus: models.PaymentStatusPending,
		PlacedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderTicket{
		OrderID:   order.ID,
		EventID:   event.ID,
		Quantity:  1,
		UnitPrice: event.UnitPrice,
	}).Error)

	w := performRequest(t, r, http.MethodGet, "/v1/orders/"+order.ID.String(), nil, authToken(t, userB, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderPaymentStatus(t *testing.T) {
	r, db := setupTestRouter(t)

	_, customer := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	adminUser, _ := createTestCustomer(t, db, "admin@example.com", models.RoleAdmin)
	adminToken := authToken(t, adminUser, models.RoleAdmin)

	order := models.Order{
		CustomerID:    customer.ID,
		PaymentStatus: models.PaymentStatusPending,
		PlacedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)

	w := performRequest(t, r, http.MethodPatch, "/v1/orders/"+order.ID.String(), gin.H{
		"payment_status": models.PaymentStatusComplete,
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusComplete, saved.PaymentStatus)

	// Payment status only moves forward.
	w = performRequest(t, r, http.MethodPatch, "/v1/orders/"+order.ID.String(), gin.H{
		"payment_status": models.PaymentStatusPending,
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, r, http.MethodPatch, "/v1/orders/"+order.ID.String(), gin.H{
		"payment_status": "refunded",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderRequiresAdmin(t *testing.T) {
	r, db := setupTestRouter(t)

	user, customer := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)

	order := models.Order{
		CustomerID:    customer.ID,
		PaymentStatus: models.PaymentStatusPending,
		PlacedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)

	w := performRequest(t, r, http.MethodPatch, "/v1/orders/"+order.ID.String(), gin.H{
		"payment_status": models.PaymentStatusComplete,
	}, authToken(t, user, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateOrderTicketQR(t *testing.T) {
	r, db := setupTestRouter(t)

	theme := createTestTheme(t, db, "Jazz")
	event := createTestEvent(t, db, theme, "Jazz Night", "20.00", 50)

	user, customer := createTestCustomer(t, db, "alice@example.com", models.RoleCustomer)
	token := authToken(t, user, models.RoleCustomer)

	order := models.Order{
		CustomerID:    customer.ID,
		PaymentStatus: models.PaymentStatusPending,
		PlacedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)
	ticket := models.OrderTicket{
		OrderID:   order.ID,
		EventID:   event.ID,
		Quantity:  1,
		UnitPrice: event.UnitPrice,
	}
	require.NoError(t, db.Create(&ticket).Error)

	path := "/v1/orders/" + order.ID.String() + "/tickets/" + ticket.ID.String() + "/qr"

	// Pending payment cannot produce an entry pass.
	w := performRequest(t, r, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_status", models.PaymentStatusComplete).Error)

	w = performRequest(t, r, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
