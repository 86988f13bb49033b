package handlers

import (
	"net/http"
	"time"

	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EventRequest struct {
	Title       string          `json:"title" binding:"required"`
	Slug        string          `json:"slug"`
	Description string          `json:"description" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Inventory   *int            `json:"inventory" binding:"required,min=0"`
	City        string          `json:"city" binding:"required"`
	Location    string          `json:"location" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	ThemeID     uuid.UUID       `json:"theme_id" binding:"required"`
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
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

	var theme models.Theme
	if err := gormDB.Where("id = ?", req.ThemeID).First(&theme).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "No theme with the given ID was found.")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = helpers.Slugify(req.Title)
	}

	event := models.Event{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Inventory:   *req.Inventory,
		City:        req.City,
		Location:    req.Location,
		Date:        req.Date,
		ThemeID:     theme.ID,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Images").Preload("Theme").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Event{})

	if themeID := c.Query("theme_id"); themeID != "" {
		query = query.Where("theme_id = ?", themeID)
	}
	if priceGt := c.Query("price_gt"); priceGt != "" {
		bound, err := decimal.NewFromString(priceGt)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price_gt value.")
			return
		}
		query = query.Where("unit_price > ?", bound)
	}
	if priceLt := c.Query("price_lt"); priceLt != "" {
		bound, err := decimal.NewFromString(priceLt)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price_lt value.")
			return
		}
		query = query.Where("unit_price < ?", bound)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Images").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req EventRequest
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

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var theme models.Theme
	if err := gormDB.Where("id = ?", req.ThemeID).First(&theme).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "No theme with the given ID was found.")
		return
	}

	event.Title = req.Title
	if req.Slug != "" {
		event.Slug = req.Slug
	}
	event.Description = req.Description
	event.UnitPrice = req.UnitPrice
	event.Inventory = *req.Inventory
	event.City = req.City
	event.Location = req.Location
	event.Date = req.Date
	event.ThemeID = theme.ID

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	// An event is protected while any order or cart line still references it.
	var orderTicketCount int64
	if err := gormDB.Model(&models.OrderTicket{}).Where("event_id = ?", event.ID).Count(&orderTicketCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking event references.")
		return
	}
	var cartTicketCount int64
	if err := gormDB.Model(&models.CartTicket{}).Where("event_id = ?", event.ID).Count(&cartTicketCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking event references.")
		return
	}
	if orderTicketCount > 0 || cartTicketCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Event cannot be deleted because tickets still reference it.")
		return
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
