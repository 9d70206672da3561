package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"compliance-assessment-api/config"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExportAssessment streams the completed assessment's answer set as a CSV
// document grouped by topic with rating averages.
func ExportAssessment(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	service := services.NewExportService(config.DB)
	export, err := service.BuildExport(assessmentID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		case errors.Is(err, services.ErrNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Assessment is not completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		}
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{"export": export})
		return
	}

	filename := fmt.Sprintf("assessment-%d.csv", assessmentID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	if err := service.WriteCSV(c.Writer, export); err != nil {
		// Headers already sent; nothing left but to log.
		_ = c.Error(err)
	}
}
