package handlers

import (
	"net/http"

	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddCartTicketRequest struct {
	EventID  uuid.UUID `json:"event_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartTicketRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartTicketResponse struct {
	models.CartTicket
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	ID         uuid.UUID            `json:"id"`
	Tickets    []CartTicketResponse `json:"tickets"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

func newCartResponse(cart *models.Cart) CartResponse {
	tickets := make([]CartTicketResponse, 0, len(cart.Tickets))
	for _, ticket := range cart.Tickets {
		tickets = append(tickets, CartTicketResponse{
			CartTicket: ticket,
			TotalPrice: ticket.TotalPrice(),
		})
	}
	return CartResponse{
		ID:         cart.ID,
		Tickets:    tickets,
		TotalPrice: cart.TotalPrice(),
	}
}

func CreateCart(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	cart := models.Cart{}
	if err := gormDB.Create(&cart).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create cart.")
		return
	}

	c.JSON(http.StatusCreated, newCartResponse(&cart))
}

func GetCart(c *gin.Context) {
	cartID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var cart models.Cart
	if err := gormDB.Preload("Tickets.Event").Where("id = ?", cartID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Cart not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving cart.")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(&cart))
}

func DeleteCart(c *gin.Context) {
	cartID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var cart models.Cart
	if err := gormDB.Where("id = ?", cartID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Cart not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding cart.")
		return
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartTicket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete cart.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart deleted successfully."})
}

// AddCartTicket accumulates quantity into the single line for a
// (cart, event) pair. The insert and the quantity bump happen in one
// statement on the (cart_id, event_id) unique index, so two concurrent
// adds both land instead of racing on a read-then-write.
func AddCartTicket(c *gin.Context) {
	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid cart ID.")
		return
	}

	var req AddCartTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var cart models.Cart
	if err := gormDB.Where("id = ?", cartID).First(&cart).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Cart not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "No event with the given ID was found.")
		return
	}

	ticket := models.CartTicket{
		CartID:   cart.ID,
		EventID:  event.ID,
		Quantity: req.Quantity,
	}
	err = gormDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_tickets.quantity + excluded.quantity"),
		}),
	}).Create(&ticket).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add ticket to cart.")
		return
	}

	// Re-read the row: on conflict the persisted id and cumulative
	// quantity differ from the values we attempted to insert.
	var saved models.CartTicket
	if err := gormDB.Preload("Event").Where("cart_id = ? AND event_id = ?", cart.ID, event.ID).First(&saved).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving cart ticket.")
		return
	}

	c.JSON(http.StatusCreated, CartTicketResponse{
		CartTicket: saved,
		TotalPrice: saved.TotalPrice(),
	})
}

// UpdateCartTicket overwrites the stored quantity, unlike AddCartTicket
// which accumulates.
func UpdateCartTicket(c *gin.Context) {
	cartID := c.Param("id")
	ticketID := c.Param("ticketId")

	var req UpdateCartTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.CartTicket
	if err := gormDB.Preload("Event").Where("id = ? AND cart_id = ?", ticketID, cartID).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Cart ticket not found.")
		return
	}

	ticket.Quantity = req.Quantity
	if err := gormDB.Save(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update cart ticket.")
		return
	}

	c.JSON(http.StatusOK, CartTicketResponse{
		CartTicket: ticket,
		TotalPrice: ticket.TotalPrice(),
	})
}

func DeleteCartTicket(c *gin.Context) {
	cartID := c.Param("id")
	ticketID := c.Param("ticketId")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ? AND cart_id = ?", ticketID, cartID).Delete(&models.CartTicket{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete cart ticket.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Cart ticket not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart ticket deleted successfully."})
}
