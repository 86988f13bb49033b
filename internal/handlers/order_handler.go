package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"billetterie/config"
	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" binding:"required"`
}

type UpdateOrderRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type OrderResponse struct {
	models.Order
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{
		Order:      *order,
		TotalPrice: order.TotalPrice(),
	}
}

// CreateOrder checks out a cart: the order, its ticket snapshots and the
// cart deletion commit together or not at all.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var cart models.Cart
	if err := gormDB.Preload("Tickets.Event").Where("id = ?", req.CartID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "No cart with the given ID was found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving cart.")
		return
	}

	if len(cart.Tickets) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "The cart is empty.")
		return
	}

	if time.Now().After(cart.ExpiresAt(config.CartTTL())) {
		helpers.RespondWithError(c, http.StatusBadRequest, "The cart has expired.")
		return
	}

	var customer models.Customer
	if err := gormDB.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer profile not found.")
		return
	}

	var order models.Order
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			CustomerID:    customer.ID,
			PaymentStatus: models.PaymentStatusPending,
			PlacedAt:      time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderTickets := make([]models.OrderTicket, 0, len(cart.Tickets))
		for _, ticket := range cart.Tickets {
			orderTickets = append(orderTickets, models.OrderTicket{
				OrderID:   order.ID,
				EventID:   ticket.EventID,
				Quantity:  ticket.Quantity,
				UnitPrice: ticket.Event.UnitPrice,
			})
		}
		if err := tx.Create(&orderTickets).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartTicket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to place order.")
		return
	}

	var placed models.Order
	if err := gormDB.Preload("Tickets.Event").Where("id = ?", order.ID).First(&placed).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	c.JSON(http.StatusCreated, newOrderResponse(&placed))
}

// ListOrders returns the requesting customer's orders, or every order for
// administrators.
func ListOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	role, _ := c.Get("role")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Order{}).Preload("Tickets.Event")
	if role != models.RoleAdmin {
		var customer models.Customer
		if err := gormDB.Where("user_id = ?", userID).First(&customer).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Customer profile not found.")
			return
		}
		query = query.Where("customer_id = ?", customer.ID)
	}

	var orders []models.Order
	if err := query.Order("placed_at").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, newOrderResponse(&orders[i]))
	}

	c.JSON(http.StatusOK, gin.H{"orders": responses})
}

func GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	role, _ := c.Get("role")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Preload("Tickets.Event").Preload("Customer").Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	if role != models.RoleAdmin && order.Customer.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this order.")
		return
	}

	c.JSON(http.StatusOK, newOrderResponse(&order))
}

// UpdateOrder changes the payment status. Transitions only move forward:
// a completed or failed payment never becomes pending again.
func UpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !models.IsValidPaymentStatus(req.PaymentStatus) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment status.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding order.")
		return
	}

	if !order.CanTransitionTo(req.PaymentStatus) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Payment status cannot move backwards.")
		return
	}

	order.PaymentStatus = req.PaymentStatus
	if err := gormDB.Save(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update order.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated successfully.",
		"order":   order,
	})
}

func generateTicketSignature(orderID, ticketID, customerID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", orderID.String(), ticketID.String(), customerID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateOrderTicketQR renders a signed QR code for one order ticket,
// usable as an entry pass once payment is complete.
func GenerateOrderTicketQR(c *gin.Context) {
	orderID := c.Param("id")
	ticketID := c.Param("ticketId")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Preload("Customer").Where("id = ?", orderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	if order.Customer.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate QR codes for this order.")
		return
	}

	if order.PaymentStatus != models.PaymentStatusComplete {
		helpers.RespondWithError(c, http.StatusForbidden, "Payment is not complete.")
		return
	}

	var ticket models.OrderTicket
	if err := gormDB.Where("id = ? AND order_id = ?", ticketID, order.ID).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order ticket not found.")
		return
	}

	signature := generateTicketSignature(order.ID, ticket.ID, order.CustomerID, os.Getenv("JWT_SECRET"))
	qrData := fmt.Sprintf("order:%s;ticket:%s;event:%s;signature:%s",
		order.ID.String(),
		ticket.ID.String(),
		ticket.EventID.String(),
		signature,
	)

	qrImage, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
