package services

import (
	"errors"
	"strconv"
	"time"

	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

var (
	// ErrAssessmentCompleted rejects answer writes once the assessment has
	// reached its terminal stage.
	ErrAssessmentCompleted = errors.New("assessment is completed")

	// ErrStageClosed rejects writes to an answer whose stage no longer
	// matches the assessment's current stage.
	ErrStageClosed = errors.New("answer stage is no longer active")

	// ErrAssessmentNotActive rejects answer creation while the assessment is
	// still in created.
	ErrAssessmentNotActive = errors.New("assessment has not been activated")

	// ErrInvalidRating rejects ratings outside the 1-5 rubric.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNotAssigned rejects answer creation by actors who do not work the
	// current stage: non-assessors in the ongoing stage, wrong roles later.
	ErrNotAssigned = errors.New("actor is not assigned to answer in this stage")
)

// AnswerUpdate carries the editable answer fields of a save action. Nil
// pointers leave the current value untouched.
type AnswerUpdate struct {
	Rating    *int    `json:"rating"`
	Rationale *string `json:"rationale"`
	Notes     *string `json:"notes"`
}

type AnswerService struct {
	db         *gorm.DB
	changelogs *ChangelogService
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db, changelogs: NewChangelogService(db)}
}

// Open returns the actor's answer for the assessment question in the
// assessment's current stage, creating an empty row on first visit. The
// created row carries the stage as its immutable status and a start
// timestamp; re-opening reuses the existing row and writes nothing. Only
// assigned assessors may answer in the ongoing stage; later stages require
// one of the stage's working roles.
func (s *AnswerService) Open(assessmentQuestionID, actorID, roleID int) (*models.Answer, bool, error) {
	var aq models.AssessmentQuestion
	if err := s.db.Where("assessment_question_id = ? AND delete_at IS NULL", assessmentQuestionID).
		First(&aq).Error; err != nil {
		return nil, false, err
	}

	var assessment models.Assessment
	if err := s.db.Where("assessment_id = ? AND delete_at IS NULL", aq.AssessmentID).
		First(&assessment).Error; err != nil {
		return nil, false, err
	}

	wf, err := WorkflowByName(assessment.Workflow)
	if err != nil {
		return nil, false, err
	}

	stage := assessment.Status
	if wf.Terminal(stage) {
		return nil, false, ErrAssessmentCompleted
	}
	if stage == StageCreated || stage == "" {
		return nil, false, ErrAssessmentNotActive
	}

	// Per-assessor stages key the row by user; later stages hold one
	// role-scoped row with a null user reference.
	var userID *int
	if wf.PerAssessor(stage) {
		var assigned int64
		if err := s.db.Model(&models.AssessmentAssessor{}).
			Where("assessment_id = ? AND user_id = ? AND delete_at IS NULL", aq.AssessmentID, actorID).
			Count(&assigned).Error; err != nil {
			return nil, false, err
		}
		if assigned == 0 {
			return nil, false, ErrNotAssigned
		}
		id := actorID
		userID = &id
	} else if !stageRoleAllowed(wf, stage, roleID) {
		return nil, false, ErrNotAssigned
	}

	query := s.db.Where("assessment_question_id = ? AND status = ?", assessmentQuestionID, stage)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	var answer models.Answer
	err = query.First(&answer).Error
	if err == nil {
		return &answer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now()
	answer = models.Answer{
		AssessmentQuestionID: assessmentQuestionID,
		UserID:               userID,
		Status:               stage,
		StartedAt:            now,
		CreateAt:             &now,
		UpdateAt:             &now,
	}
	if err := s.db.Create(&answer).Error; err != nil {
		return nil, false, err
	}
	return &answer, true, nil
}

// Update saves the editable fields of an answer, journaling one changelog
// entry per changed field. Writes are refused once the assessment is
// completed or has moved past the answer's stage.
func (s *AnswerService) Update(answerID, actorID int, update AnswerUpdate) (*models.Answer, error) {
	if update.Rating != nil && (*update.Rating < 1 || *update.Rating > 5) {
		return nil, ErrInvalidRating
	}

	var answer models.Answer
	if err := s.db.Where("answer_id = ?", answerID).First(&answer).Error; err != nil {
		return nil, err
	}

	var aq models.AssessmentQuestion
	if err := s.db.Where("assessment_question_id = ?", answer.AssessmentQuestionID).
		First(&aq).Error; err != nil {
		return nil, err
	}

	var assessment models.Assessment
	if err := s.db.Where("assessment_id = ? AND delete_at IS NULL", aq.AssessmentID).
		First(&assessment).Error; err != nil {
		return nil, err
	}

	wf, err := WorkflowByName(assessment.Workflow)
	if err != nil {
		return nil, err
	}
	if wf.Terminal(assessment.Status) {
		return nil, ErrAssessmentCompleted
	}
	if answer.Status != assessment.Status {
		return nil, ErrStageClosed
	}

	former := answerSnapshot(&answer)

	if update.Rating != nil {
		answer.Rating = update.Rating
	}
	if update.Rationale != nil {
		answer.Rationale = update.Rationale
	}
	if update.Notes != nil {
		answer.Notes = update.Notes
	}

	changes := DiffFields(former, answerSnapshot(&answer))
	if len(changes) == 0 {
		return &answer, nil
	}

	now := time.Now()
	answer.UpdateAt = &now

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Answer{}).
		Where("answer_id = ?", answer.AnswerID).
		Updates(map[string]interface{}{
			"rating":    answer.Rating,
			"rationale": answer.Rationale,
			"notes":     answer.Notes,
			"update_at": now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.changelogs.RecordAnswerChanges(tx, answer.AnswerID, actorID, changes); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListByStage returns the answers of an assessment question for one stage,
// oldest first. Prior-stage answers are read-only reference material for the
// stage currently being authored.
func (s *AnswerService) ListByStage(assessmentQuestionID int, stage string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.Preload("User").
		Where("assessment_question_id = ? AND status = ?", assessmentQuestionID, stage).
		Order("answer_id ASC").
		Find(&answers).Error
	return answers, err
}

// stageRoleAllowed reports whether the role works the given role-singleton
// stage. Admins can author anywhere, mirroring the submit gate.
func stageRoleAllowed(wf *Workflow, stage string, roleID int) bool {
	if roleID == models.RoleAdmin {
		return true
	}
	for _, allowed := range wf.SubmitterRoles(stage) {
		if roleID == allowed {
			return true
		}
	}
	return false
}

// answerSnapshot captures the tracked scalar fields for changelog diffing.
func answerSnapshot(a *models.Answer) map[string]*string {
	var rating *string
	if a.Rating != nil {
		v := strconv.Itoa(*a.Rating)
		rating = &v
	}
	return map[string]*string{
		"rating":    rating,
		"rationale": copyStrPtr(a.Rationale),
		"notes":     copyStrPtr(a.Notes),
	}
}

func copyStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
