package handlers

import (
	"net/http"

	"billetterie/internal/helpers"
	"billetterie/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateCustomerRequest struct {
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CustomerResponse annotates a customer with an aggregate order count.
type CustomerResponse struct {
	models.Customer
	OrdersCount int64 `json:"orders_count"`
}

func GetMyCustomer(c *gin.Context) {
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

	var customer models.Customer
	if err := gormDB.Preload("User").Where("user_id = ?", userID).First(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer profile not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         customer.ID,
		"user_id":    customer.UserID,
		"email":      customer.User.Email,
		"first_name": customer.User.FirstName,
		"last_name":  customer.User.LastName,
		"phone":      customer.Phone,
		"city":       customer.City,
		"country":    customer.Country,
	})
}

func UpdateMyCustomer(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdateCustomerRequest
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

	var customer models.Customer
	if err := gormDB.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer profile not found.")
		return
	}

	customer.Phone = req.Phone
	customer.City = req.City
	customer.Country = req.Country

	if err := gormDB.Save(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer profile updated successfully.",
		"customer": customer,
	})
}

func ListCustomers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var customers []CustomerResponse
	err := gormDB.Model(&models.Customer{}).
		Select("customers.*, count(orders.id) as orders_count").
		Joins("left join orders on orders.customer_id = customers.id").
		Group("customers.id").
		Find(&customers).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customers.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}
