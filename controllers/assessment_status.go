package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitAssessment advances an assessment to the next stage of its workflow.
// The caller names the stage it believes is current; a mismatch means the
// client rendered a stale view and the transition is refused.
func SubmitAssessment(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	var req struct {
		CurrentStage string `json:"current_stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return
	}

	// Stage-level role gate: the submit action belongs to the role working
	// the current stage.
	var assessment models.Assessment
	if err := config.DB.Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assessment"})
		return
	}

	wf, err := services.WorkflowByName(assessment.Workflow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	roleIDValue, _ := c.Get("roleID")
	roleID, _ := roleIDValue.(int)
	allowed := false
	for _, allowedRole := range wf.SubmitterRoles(req.CurrentStage) {
		if roleID == allowedRole || roleID == models.RoleAdmin {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Role may not submit this stage"})
		return
	}

	statusService := services.NewStatusService(config.DB)
	updated, unfinished, err := statusService.Submit(assessmentID, req.CurrentStage, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnfinished):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "Unfinished questions remain for the current stage",
				"unfinished": unfinished,
			})
		case errors.Is(err, services.ErrStaleStage):
			c.JSON(http.StatusConflict, gin.H{"error": "Assessment is no longer in the submitted stage"})
		case errors.Is(err, services.ErrNoQuestions):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Assessment has no questions and cannot be completed"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit assessment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Assessment submitted successfully",
		"assessment": updated,
	})
}

// GetUnfinishedAssessmentQuestions backs the completion readout: the list of
// (question, user) pairs still missing a validated answer for the current
// stage. An empty list means the stage is ready to submit.
func GetUnfinishedAssessmentQuestions(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	var assessment models.Assessment
	if err := config.DB.Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assessment"})
		return
	}

	wf, err := services.WorkflowByName(assessment.Workflow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	completion := services.NewCompletionService(config.DB)
	unfinished, err := completion.UnfinishedQuestions(assessmentID, assessment.Status, wf)
	if err != nil {
		if errors.Is(err, services.ErrNoQuestions) {
			c.JSON(http.StatusOK, gin.H{
				"status":      assessment.Status,
				"unfinished":  []services.UnfinishedItem{},
				"completable": false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check completion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      assessment.Status,
		"unfinished":  unfinished,
		"completable": len(unfinished) == 0,
	})
}
