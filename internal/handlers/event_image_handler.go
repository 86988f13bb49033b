package handlers

import (
	"fmt"
	"net/http"

	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListEventImages(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	var images []models.EventImage
	if err := gormDB.Where("event_id = ?", event.ID).Find(&images).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving images.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func CreateEventImage(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing image file.")
		return
	}

	imagePath, err := helpers.UploadFile(c, imageFile, "event_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	image := models.EventImage{
		EventID: event.ID,
		Image:   imagePath,
	}

	if err := gormDB.Create(&image).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save image.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully.",
		"image":   image,
	})
}

func GetEventImage(c *gin.Context) {
	eventID := c.Param("id")
	imageID := c.Param("imageId")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var image models.EventImage
	if err := gormDB.Where("id = ? AND event_id = ?", imageID, eventID).First(&image).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Image not found.")
		return
	}

	c.JSON(http.StatusOK, image)
}

func DeleteEventImage(c *gin.Context) {
	eventID := c.Param("id")
	imageID := c.Param("imageId")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var image models.EventImage
	if err := gormDB.Where("id = ? AND event_id = ?", imageID, eventID).First(&image).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Image not found.")
		return
	}

	if err := gormDB.Delete(&image).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete image.")
		return
	}

	if err := helpers.DeleteFile(image.Image); err != nil {
		fmt.Printf("Error deleting image file: %v\n", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully."})
}
