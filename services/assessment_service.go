package services

import (
	"errors"
	"time"

	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

var (
	// ErrNotEditable rejects structural edits once the assessment has left
	// created; only answers accumulate afterward.
	ErrNotEditable = errors.New("assessment can only be edited while in created")

	// ErrNoAssessors and ErrNoQuestionsInput guard the creation boundary:
	// an assessment is built with at least one question and one assessor.
	ErrNoAssessors      = errors.New("assessment requires at least one assessor")
	ErrNoQuestionsInput = errors.New("assessment requires at least one question")
	ErrInvalidDateOrder = errors.New("end date must not precede start date")
)

// AssessmentQuestionInput selects a question and optionally a filter-specific
// rubric for the assessment build.
type AssessmentQuestionInput struct {
	QuestionID int  `json:"question_id" binding:"required"`
	FilterID   *int `json:"filter_id"`
}

// AssessmentInput is the build/edit payload. Questions and assessors replace
// the existing sets wholesale; the edit applies as one transactional command
// rather than independent per-row mutations.
type AssessmentInput struct {
	SiteID       int                       `json:"site_id" binding:"required"`
	EngagementID int                       `json:"engagement_id" binding:"required"`
	PocID        *int                      `json:"poc_id"`
	Description  *string                   `json:"description"`
	StartDate    *time.Time                `json:"start_date"`
	EndDate      *time.Time                `json:"end_date"`
	Workflow     string                    `json:"workflow"`
	Questions    []AssessmentQuestionInput `json:"questions" binding:"required"`
	AssessorIDs  []int                     `json:"assessor_ids" binding:"required"`
}

type AssessmentService struct {
	db *gorm.DB
}

func NewAssessmentService(db *gorm.DB) *AssessmentService {
	return &AssessmentService{db: db}
}

func validateInput(input *AssessmentInput) error {
	if len(input.Questions) == 0 {
		return ErrNoQuestionsInput
	}
	if len(input.AssessorIDs) == 0 {
		return ErrNoAssessors
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return ErrInvalidDateOrder
	}
	if _, err := WorkflowByName(input.Workflow); err != nil {
		return err
	}
	return nil
}

// Create builds an assessment in the created stage together with its question
// and assessor sets in a single transaction.
func (s *AssessmentService) Create(input *AssessmentInput) (*models.Assessment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	workflow := input.Workflow
	if workflow == "" {
		workflow = WorkflowStandard
	}

	now := time.Now()
	assessment := models.Assessment{
		SiteID:       input.SiteID,
		EngagementID: input.EngagementID,
		PocID:        input.PocID,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Status:       StageCreated,
		Workflow:     workflow,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&assessment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeQuestions(tx, assessment.AssessmentID, input.Questions, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.writeAssessors(tx, assessment.AssessmentID, input.AssessorIDs, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Update replaces the assessment's fields, question set and assessor set.
// Allowed only while the assessment is still in created; the whole edit
// commits or rolls back as one unit.
func (s *AssessmentService) Update(assessmentID int, input *AssessmentInput) (*models.Assessment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var assessment models.Assessment
	if err := tx.Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if assessment.Status != StageCreated {
		tx.Rollback()
		return nil, ErrNotEditable
	}

	now := time.Now()
	if err := tx.Model(&models.Assessment{}).
		Where("assessment_id = ?", assessmentID).
		Updates(map[string]interface{}{
			"site_id":       input.SiteID,
			"engagement_id": input.EngagementID,
			"poc_id":        input.PocID,
			"description":   input.Description,
			"start_date":    input.StartDate,
			"end_date":      input.EndDate,
			"update_at":     now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Replace both sets wholesale: soft-delete the current rows, recreate
	// from the payload.
	if err := tx.Model(&models.AssessmentQuestion{}).
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		Update("delete_at", now).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&models.AssessmentAssessor{}).
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		Update("delete_at", now).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeQuestions(tx, assessmentID, input.Questions, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.writeAssessors(tx, assessmentID, input.AssessorIDs, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("assessment_id = ?", assessmentID).First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (s *AssessmentService) writeQuestions(tx *gorm.DB, assessmentID int, inputs []AssessmentQuestionInput, now time.Time) error {
	for _, q := range inputs {
		row := models.AssessmentQuestion{
			AssessmentID: assessmentID,
			QuestionID:   q.QuestionID,
			FilterID:     q.FilterID,
			CreateAt:     &now,
			UpdateAt:     &now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *AssessmentService) writeAssessors(tx *gorm.DB, assessmentID int, userIDs []int, now time.Time) error {
	seen := make(map[int]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		row := models.AssessmentAssessor{
			AssessmentID: assessmentID,
			UserID:       userID,
			CreateAt:     &now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
