package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"
	"compliance-assessment-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Reference-data endpoints: clients, sites, POCs, engagements and the
// question bank. Browse tables read these; the assessment builder picks from
// them. The question/rating/filter content itself is managed out of band.

// GetClients lists clients with their sites and POCs.
func GetClients(c *gin.Context) {
	var clients []models.Client
	if err := config.DB.Preload("Sites", "delete_at IS NULL").
		Preload("Pocs", "delete_at IS NULL").
		Where("delete_at IS NULL").
		Order("client_name ASC").
		Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": len(clients)})
}

// CreateClient adds a client (admin only).
func CreateClient(c *gin.Context) {
	var req struct {
		ClientName string  `json:"client_name" binding:"required"`
		Industry   *string `json:"industry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	client := models.Client{
		ClientName: utils.SanitizeInput(req.ClientName),
		Industry:   req.Industry,
		CreateAt:   &now,
		UpdateAt:   &now,
	}
	if err := config.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// GetClientSites lists the sites of one client.
func GetClientSites(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var sites []models.Site
	if err := config.DB.Where("client_id = ? AND delete_at IS NULL", clientID).
		Order("site_name ASC").
		Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites, "total": len(sites)})
}

// CreateSite adds a site to a client (admin only).
func CreateSite(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req struct {
		SiteName string  `json:"site_name" binding:"required"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Country  *string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var client models.Client
	if err := config.DB.Where("client_id = ? AND delete_at IS NULL", clientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}

	now := time.Now()
	site := models.Site{
		ClientID: clientID,
		SiteName: utils.SanitizeInput(req.SiteName),
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := config.DB.Create(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"site": site})
}

// GetClientPocs lists the POCs of one client.
func GetClientPocs(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var pocs []models.Poc
	if err := config.DB.Where("client_id = ? AND delete_at IS NULL", clientID).
		Order("poc_name ASC").
		Find(&pocs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch POCs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pocs": pocs, "total": len(pocs)})
}

// CreatePoc adds a POC to a client (admin only).
func CreatePoc(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req struct {
		PocName string  `json:"poc_name" binding:"required"`
		Email   string  `json:"email" binding:"required"`
		Phone   *string `json:"phone"`
		UserID  *int    `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	now := time.Now()
	poc := models.Poc{
		ClientID: clientID,
		PocName:  utils.SanitizeInput(req.PocName),
		Email:    req.Email,
		Phone:    req.Phone,
		UserID:   req.UserID,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := config.DB.Create(&poc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create POC"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"poc": poc})
}

// GetEngagements lists engagements, optionally by client.
func GetEngagements(c *gin.Context) {
	query := config.DB.Preload("Client").Where("delete_at IS NULL")
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var engagements []models.Engagement
	if err := query.Order("engagement_id DESC").Find(&engagements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch engagements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"engagements": engagements, "total": len(engagements)})
}

// CreateEngagement opens an engagement for a client (admin only).
func CreateEngagement(c *gin.Context) {
	var req struct {
		ClientID       int        `json:"client_id" binding:"required"`
		EngagementName string     `json:"engagement_name" binding:"required"`
		StartDate      *time.Time `json:"start_date"`
		EndDate        *time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not precede start date"})
		return
	}

	now := time.Now()
	engagement := models.Engagement{
		ClientID:       req.ClientID,
		EngagementName: utils.SanitizeInput(req.EngagementName),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreateAt:       &now,
		UpdateAt:       &now,
	}
	if err := config.DB.Create(&engagement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create engagement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"engagement": engagement})
}

// GetTopics lists question bank topics in display order.
func GetTopics(c *gin.Context) {
	var topics []models.Topic
	if err := config.DB.Where("delete_at IS NULL").
		Order("topic_order ASC, topic_id ASC").
		Find(&topics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch topics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics, "total": len(topics)})
}

// GetQuestions lists questions with their rubrics, optionally by topic.
func GetQuestions(c *gin.Context) {
	query := config.DB.Preload("Topic").Preload("Ratings", "delete_at IS NULL").
		Where("delete_at IS NULL")
	if topicID := c.Query("topic_id"); topicID != "" {
		query = query.Where("topic_id = ?", topicID)
	}

	var questions []models.Question
	if err := query.Order("question_number ASC").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions, "total": len(questions)})
}

// GetFilters lists rubric filters with their rating overrides.
func GetFilters(c *gin.Context) {
	var filters []models.Filter
	if err := config.DB.Preload("FilterRatings", "delete_at IS NULL").
		Where("delete_at IS NULL").
		Order("filter_name ASC").
		Find(&filters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch filters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filters": filters, "total": len(filters)})
}
