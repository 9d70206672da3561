package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"compliance-assessment-api/config"
	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

var (
	// ErrStaleStage rejects a transition attempted from a stage that no
	// longer matches the assessment's actual status (stale client state or a
	// concurrent transition by another actor).
	ErrStaleStage = errors.New("assessment status does not match the expected stage")

	// ErrUnfinished blocks a transition while unfinished question-answer
	// pairs remain; Submit returns the list alongside.
	ErrUnfinished = errors.New("unfinished questions remain for the current stage")
)

// StatusService owns the assessment status field. All transitions go through
// Activate or Submit; nothing else writes assessments.status.
type StatusService struct {
	db         *gorm.DB
	completion *CompletionService
	changelogs *ChangelogService

	// stageMail is the post-commit notification hook; fire-and-forget.
	stageMail func(assessmentID int, next string)
}

func NewStatusService(db *gorm.DB) *StatusService {
	s := &StatusService{
		db:         db,
		completion: NewCompletionService(db),
		changelogs: NewChangelogService(db),
	}
	s.stageMail = s.sendStageMail
	return s
}

// Activate performs the lazy created → ongoing transition the first time the
// assessment is opened. The conditional update makes concurrent first-openers
// idempotent-safe: only one write flips the status, the rest see rows
// affected zero and just reload.
func (s *StatusService) Activate(assessmentID, actorID int) (*models.Assessment, bool, error) {
	var assessment models.Assessment
	if err := s.db.Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		return nil, false, err
	}

	if assessment.Status != StageCreated && assessment.Status != "" {
		return &assessment, false, nil
	}

	former := assessment.Status
	now := time.Now()
	result := s.db.Model(&models.Assessment{}).
		Where("assessment_id = ? AND (status = ? OR status = '')", assessmentID, StageCreated).
		Updates(map[string]interface{}{
			"status":    StageOngoing,
			"update_at": now,
		})
	if result.Error != nil {
		return nil, false, result.Error
	}

	activated := result.RowsAffected > 0
	if activated {
		if err := s.changelogs.RecordStatusChange(nil, assessmentID, actorID, former, StageOngoing); err != nil {
			// Journaling is secondary to the activation itself.
			log.Printf("Warning: failed to journal activation of assessment %d: %v", assessmentID, err)
		}
	}

	if err := s.db.Where("assessment_id = ?", assessmentID).First(&assessment).Error; err != nil {
		return nil, false, err
	}
	return &assessment, activated, nil
}

// Submit advances the assessment from expectedStage to its successor. The
// transition is refused when the status has moved on (ErrStaleStage), when
// the stage is terminal, or when the completion checker reports unfinished
// question-answer pairs (ErrUnfinished, list returned). The status update is
// conditional on the current value so exactly one concurrent submit per stage
// can ever succeed.
func (s *StatusService) Submit(assessmentID int, expectedStage string, actorID int) (*models.Assessment, []UnfinishedItem, error) {
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
		return nil, nil, err
	}

	wf, err := WorkflowByName(assessment.Workflow)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if assessment.Status != expectedStage {
		tx.Rollback()
		return nil, nil, ErrStaleStage
	}

	next, err := wf.Next(assessment.Status)
	if err != nil {
		tx.Rollback()
		return nil, nil, ErrStaleStage
	}

	unfinished, err := s.completion.UnfinishedQuestionsTx(tx, assessmentID, assessment.Status, wf)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if len(unfinished) > 0 {
		tx.Rollback()
		return nil, unfinished, ErrUnfinished
	}

	now := time.Now()
	result := tx.Model(&models.Assessment{}).
		Where("assessment_id = ? AND status = ?", assessmentID, expectedStage).
		Updates(map[string]interface{}{
			"status":    next,
			"update_at": now,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, nil, ErrStaleStage
	}

	if err := s.changelogs.RecordStatusChange(tx, assessmentID, actorID, expectedStage, next); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := s.notifyStageChange(tx, &assessment, next, now); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	assessment.Status = next
	assessment.UpdateAt = &now

	// Mail is fire-and-forget: a relay failure never rolls back a committed
	// transition.
	go s.stageMail(assessment.AssessmentID, next)

	return &assessment, nil, nil
}

// notifyStageChange creates in-app notifications for every assessor of the
// assessment (and the POC's user account, when linked) on the same
// transaction as the transition.
func (s *StatusService) notifyStageChange(tx *gorm.DB, assessment *models.Assessment, next string, now time.Time) error {
	var assessors []models.AssessmentAssessor
	if err := tx.Where("assessment_id = ? AND delete_at IS NULL", assessment.AssessmentID).
		Find(&assessors).Error; err != nil {
		return err
	}

	userIDs := make([]int, 0, len(assessors)+1)
	for _, assessor := range assessors {
		userIDs = append(userIDs, assessor.UserID)
	}
	if assessment.PocID != nil {
		var poc models.Poc
		if err := tx.Where("poc_id = ?", *assessment.PocID).First(&poc).Error; err == nil && poc.UserID != nil {
			userIDs = append(userIDs, *poc.UserID)
		}
	}

	title := "Assessment stage updated"
	message := fmt.Sprintf("Assessment #%d moved to stage '%s'", assessment.AssessmentID, next)
	for _, userID := range userIDs {
		notification := models.Notification{
			UserID:       userID,
			Title:        title,
			Message:      message,
			AssessmentID: &assessment.AssessmentID,
			CreatedAt:    now,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *StatusService) sendStageMail(assessmentID int, next string) {
	var assessors []models.AssessmentAssessor
	if err := s.db.Preload("User").
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		Find(&assessors).Error; err != nil {
		log.Printf("Warning: failed to load assessors for stage mail: %v", err)
		return
	}

	to := make([]string, 0, len(assessors))
	for _, assessor := range assessors {
		if assessor.User.Email != "" {
			to = append(to, assessor.User.Email)
		}
	}

	subject := fmt.Sprintf("Assessment #%d is now in %s", assessmentID, next)
	body := fmt.Sprintf("<p>Assessment #%d has advanced to the <b>%s</b> stage.</p>", assessmentID, next)
	if err := config.SendMail(to, subject, body); err != nil {
		log.Printf("Warning: failed to send stage mail for assessment %d: %v", assessmentID, err)
	}
}
