package controllers

import (
	"net/http"
	"strconv"

	"compliance-assessment-api/config"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
)

// GetAnswerChangelogs returns the audit trail of one answer.
func GetAnswerChangelogs(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || answerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	service := services.NewChangelogService(config.DB)
	entries, err := service.ByAnswer(answerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch changelogs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changelogs": entries,
		"total":      len(entries),
	})
}

// GetAssessmentChangelogs returns the combined audit trail of an assessment:
// its status transitions plus every answer-level change.
func GetAssessmentChangelogs(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assessmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	service := services.NewChangelogService(config.DB)
	entries, err := service.ByAssessment(assessmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch changelogs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changelogs": entries,
		"total":      len(entries),
	})
}
