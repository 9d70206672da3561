package controllers

import (
	"net/http"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
)

type statusCountRow struct {
	Status string `gorm:"column:status" json:"status"`
	Total  int64  `gorm:"column:total" json:"total"`
}

// GetDashboardStats returns assessment counts per stage plus per-assessment
// completion progress for everything currently in flight.
func GetDashboardStats(c *gin.Context) {
	var counts []statusCountRow
	if err := config.DB.Model(&models.Assessment{}).
		Select("status, COUNT(*) AS total").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	var inFlight []models.Assessment
	if err := config.DB.
		Where("delete_at IS NULL AND status NOT IN ?", []string{services.StageCreated, services.StageCompleted}).
		Order("assessment_id ASC").
		Find(&inFlight).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessments"})
		return
	}

	completion := services.NewCompletionService(config.DB)

	type progressRow struct {
		AssessmentID int    `json:"assessment_id"`
		Status       string `json:"status"`
		Unfinished   int    `json:"unfinished"`
		Completable  bool   `json:"completable"`
	}
	progress := make([]progressRow, 0, len(inFlight))

	for _, assessment := range inFlight {
		wf, err := services.WorkflowByName(assessment.Workflow)
		if err != nil {
			continue
		}
		unfinished, err := completion.UnfinishedQuestions(assessment.AssessmentID, assessment.Status, wf)
		if err != nil {
			// Zero-question assessments are never completable; everything
			// else is a fetch failure worth skipping.
			progress = append(progress, progressRow{
				AssessmentID: assessment.AssessmentID,
				Status:       assessment.Status,
				Completable:  false,
			})
			continue
		}
		progress = append(progress, progressRow{
			AssessmentID: assessment.AssessmentID,
			Status:       assessment.Status,
			Unfinished:   len(unfinished),
			Completable:  len(unfinished) == 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status_counts": counts,
		"in_flight":     progress,
	})
}
