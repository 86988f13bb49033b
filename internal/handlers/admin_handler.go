package handlers

import (
	"net/http"
	"time"

	"billetterie/config"
	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClearInventoryRequest struct {
	EventIDs []uuid.UUID `json:"event_ids" binding:"required,min=1"`
}

// InventoryReportEntry classifies an event's stock as "Low" or "OK".
type InventoryReportEntry struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Inventory       int       `json:"inventory"`
	InventoryStatus string    `json:"inventory_status"`
}

func InventoryReport(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Event{})
	if c.Query("status") == "low" {
		query = query.Where("inventory < ?", models.LowInventoryThreshold)
	}

	var events []models.Event
	if err := query.Order("title").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	report := make([]InventoryReportEntry, 0, len(events))
	for _, event := range events {
		report = append(report, InventoryReportEntry{
			ID:              event.ID,
			Title:           event.Title,
			Inventory:       event.Inventory,
			InventoryStatus: event.InventoryStatus(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"events": report})
}

// ClearInventory zeroes the stock of the selected events in bulk.
func ClearInventory(c *gin.Context) {
	var req ClearInventoryRequest
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

	result := gormDB.Model(&models.Event{}).Where("id IN ?", req.EventIDs).Update("inventory", 0)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to clear inventory.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Inventory cleared successfully.",
		"updated_count": result.RowsAffected,
	})
}

// PurgeCarts deletes carts older than the cart TTL along with their
// tickets.
func PurgeCarts(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	cutoff := time.Now().Add(-config.CartTTL())

	var purgedCount int64
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		var expired []models.Cart
		if err := tx.Where("created_at < ?", cutoff).Find(&expired).Error; err != nil {
			return err
		}
		for _, cart := range expired {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartTicket{}).Error; err != nil {
				return err
			}
		}
		result := tx.Where("created_at < ?", cutoff).Delete(&models.Cart{})
		purgedCount = result.RowsAffected
		return result.Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to purge carts.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Expired carts purged successfully.",
		"purged_count": purgedCount,
	})
}
