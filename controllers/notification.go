package controllers

import (
	"net/http"
	"strconv"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("notification_id DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	userID, _ := c.Get("userID")

	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
