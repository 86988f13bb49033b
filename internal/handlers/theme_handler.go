package handlers

import (
	"net/http"

	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ThemeRequest struct {
	Title string `json:"title" binding:"required,min=2"`
}

// ThemeResponse annotates a theme with its event count, computed with an
// aggregate join rather than a stored counter.
type ThemeResponse struct {
	models.Theme
	EventsCount int64 `json:"events_count"`
}

func themesWithEventCount(gormDB *gorm.DB) *gorm.DB {
	return gormDB.Model(&models.Theme{}).
		Select("themes.*, count(events.id) as events_count").
		Joins("left join events on events.theme_id = themes.id").
		Group("themes.id")
}

func ListThemes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var themes []ThemeResponse
	if err := themesWithEventCount(gormDB).Order("themes.title").Find(&themes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving themes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

func GetTheme(c *gin.Context) {
	themeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var theme ThemeResponse
	err := themesWithEventCount(gormDB).Where("themes.id = ?", themeID).First(&theme).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Theme not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving theme.")
		return
	}

	c.JSON(http.StatusOK, theme)
}

func CreateTheme(c *gin.Context) {
	var req ThemeRequest
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

	var existingTheme models.Theme
	if result := gormDB.Where("title = ?", req.Title).First(&existingTheme); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "A theme with this title already exists.")
		return
	}

	theme := models.Theme{Title: req.Title}
	if err := gormDB.Create(&theme).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create theme.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Theme created successfully.",
		"theme_id": theme.ID,
	})
}

func UpdateTheme(c *gin.Context) {
	themeID := c.Param("id")

	var req ThemeRequest
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
	if err := gormDB.Where("id = ?", themeID).First(&theme).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Theme not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding theme.")
		return
	}

	theme.Title = req.Title
	if err := gormDB.Save(&theme).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update theme.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated successfully.",
		"theme":   theme,
	})
}

func DeleteTheme(c *gin.Context) {
	themeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var theme models.Theme
	if err := gormDB.Where("id = ?", themeID).First(&theme).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Theme not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding theme.")
		return
	}

	// A theme is protected while it still owns events.
	var eventCount int64
	if err := gormDB.Model(&models.Event{}).Where("theme_id = ?", theme.ID).Count(&eventCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking theme events.")
		return
	}
	if eventCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Theme cannot be deleted because it still has events.")
		return
	}

	if err := gormDB.Delete(&theme).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete theme.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Theme deleted successfully."})
}
