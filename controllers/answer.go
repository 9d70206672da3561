package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"compliance-assessment-api/config"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OpenAnswer returns the caller's answer for the assessment question in the
// current stage, creating an empty row on first visit. Re-opening reuses the
// existing row.
func OpenAnswer(c *gin.Context) {
	assessmentQuestionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentQuestionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment question ID"})
		return
	}

	userIDValue, _ := c.Get("userID")
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return
	}
	roleIDValue, _ := c.Get("roleID")
	roleID, _ := roleIDValue.(int)

	service := services.NewAnswerService(config.DB)
	answer, created, err := service.Open(assessmentQuestionID, userID, roleID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment question not found"})
		case errors.Is(err, services.ErrAssessmentCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Assessment is completed; answers are read-only"})
		case errors.Is(err, services.ErrAssessmentNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": "Assessment has not been activated yet"})
		case errors.Is(err, services.ErrNotAssigned):
			c.JSON(http.StatusForbidden, gin.H{"error": "Role may not answer in the current stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open answer"})
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"answer":  answer,
		"created": created,
	})
}

// UpdateAnswer saves the editable fields of an answer and journals the
// field-level changes.
func UpdateAnswer(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || answerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	var update services.AnswerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userIDValue, _ := c.Get("userID")
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return
	}

	service := services.NewAnswerService(config.DB)
	answer, err := service.Update(answerID, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		case errors.Is(err, services.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAssessmentCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Assessment is completed; answers are read-only"})
		case errors.Is(err, services.ErrStageClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Answer belongs to a stage that is no longer active"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update answer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Answer saved",
		"answer":  answer,
	})
}

// GetAnswersByStage lists the answers of an assessment question for one
// stage. Used by later stages to display prior-stage answers as read-only
// reference material.
func GetAnswersByStage(c *gin.Context) {
	assessmentQuestionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentQuestionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment question ID"})
		return
	}

	stage := c.Query("status")
	if stage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status query parameter is required"})
		return
	}

	service := services.NewAnswerService(config.DB)
	answers, err := service.ListByStage(assessmentQuestionID, stage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers": answers,
		"total":   len(answers),
	})
}
