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

// GetAssessments lists assessments, optionally filtered by status, site or
// engagement. Assessors only see assessments they are assigned to.
func GetAssessments(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	userID, _ := c.Get("userID")

	query := config.DB.Preload("Site").Preload("Engagement").
		Where("assessments.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("assessments.status = ?", status)
	}
	if siteID := c.Query("site_id"); siteID != "" {
		query = query.Where("assessments.site_id = ?", siteID)
	}
	if engagementID := c.Query("engagement_id"); engagementID != "" {
		query = query.Where("assessments.engagement_id = ?", engagementID)
	}

	if roleID == models.RoleAssessor {
		query = query.Joins("JOIN assessment_assessors ON assessment_assessors.assessment_id = assessments.assessment_id").
			Where("assessment_assessors.user_id = ? AND assessment_assessors.delete_at IS NULL", userID)
	}

	var assessments []models.Assessment
	if err := query.Order("assessments.assessment_id DESC").Find(&assessments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// GetAssessment returns one assessment with its questions, answers, assessors
// and engagement. Opening an assessment still in created as an assessor
// performs the lazy activation to ongoing.
func GetAssessment(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	roleID, _ := c.Get("roleID")
	userID, _ := c.Get("userID")

	if roleID == models.RoleAssessor {
		statusService := services.NewStatusService(config.DB)
		if _, _, err := statusService.Activate(assessmentID, userID.(int)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open assessment"})
			return
		}
	}

	var assessment models.Assessment
	if err := config.DB.Preload("Site").Preload("Engagement").Preload("Poc").
		Preload("Questions", "delete_at IS NULL").
		Preload("Questions.Question").
		Preload("Questions.Question.Topic").
		Preload("Questions.Filter").
		Preload("Questions.Answers").
		Preload("Assessors", "delete_at IS NULL").
		Preload("Assessors.User").
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// CreateAssessment builds a new assessment (admin only). The question and
// assessor sets are part of the same transactional command.
func CreateAssessment(c *gin.Context) {
	var input services.AssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := services.NewAssessmentService(config.DB)
	assessment, err := service.Create(&input)
	if err != nil {
		status, message := assessmentErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Assessment created successfully",
		"assessment": assessment,
	})
}

// UpdateAssessment edits an assessment still in created (admin only).
func UpdateAssessment(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	var input services.AssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := services.NewAssessmentService(config.DB)
	assessment, err := service.Update(assessmentID, &input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		status, message := assessmentErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Assessment updated successfully",
		"assessment": assessment,
	})
}

func assessmentErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNoQuestionsInput),
		errors.Is(err, services.ErrNoAssessors),
		errors.Is(err, services.ErrInvalidDateOrder):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotEditable):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Failed to save assessment"
	}
}
