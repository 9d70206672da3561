package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"
	"compliance-assessment-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxEvidenceSize = 20 * 1024 * 1024 // 20 MB

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadEvidence attaches a supporting document to an answer. Rejected once
// the owning assessment is completed.
func UploadEvidence(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || answerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	var answer models.Answer
	if err := config.DB.Where("answer_id = ?", answerID).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load answer"})
		return
	}

	var aq models.AssessmentQuestion
	if err := config.DB.Where("assessment_question_id = ?", answer.AssessmentQuestionID).
		First(&aq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assessment question"})
		return
	}
	var assessment models.Assessment
	if err := config.DB.Where("assessment_id = ?", aq.AssessmentID).
		First(&assessment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assessment"})
		return
	}
	if wf, err := services.WorkflowByName(assessment.Workflow); err == nil && wf.Terminal(assessment.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Assessment is completed; evidence is read-only"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxEvidenceSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20MB limit"})
		return
	}

	userIDValue, _ := c.Get("userID")
	userID, _ := userIDValue.(int)

	// Store under a random name; keep the original for download headers.
	storedName := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	storedPath := filepath.Join(uploadPath(), storedName)

	if err := os.MkdirAll(uploadPath(), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	evidence := models.EvidenceFile{
		AnswerID:     answerID,
		OriginalName: fileHeader.Filename,
		StoredPath:   storedPath,
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   time.Now(),
	}

	if !evidence.IsValidDocumentType() {
		_ = os.Remove(storedPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	if err := config.DB.Create(&evidence).Error; err != nil {
		_ = os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save evidence record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Evidence uploaded",
		"file":    evidence,
	})
}

// DownloadEvidence streams a stored evidence file.
func DownloadEvidence(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var evidence models.EvidenceFile
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&evidence).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load file"})
		return
	}

	if _, err := os.Stat(evidence.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file is missing"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, evidence.OriginalName))
	c.File(evidence.StoredPath)
}
