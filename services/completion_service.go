package services

import (
	"errors"

	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

// ErrNoQuestions marks an assessment that can never be completed because it
// has no questions attached.
var ErrNoQuestions = errors.New("assessment has no questions")

// UnfinishedItem identifies one (question, user) pair still missing a
// validated answer for the current stage. UserID is nil in role-singleton
// stages.
type UnfinishedItem struct {
	AssessmentQuestionID int    `json:"assessment_question_id"`
	QuestionID           int    `json:"question_id"`
	QuestionNumber       string `json:"question_number"`
	UserID               *int   `json:"user_id,omitempty"`
}

type CompletionService struct {
	db *gorm.DB
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{db: db}
}

// UnfinishedQuestions lists every (question, user) pair of the assessment
// that lacks a validated answer for the given stage. An empty list means the
// stage is ready to submit. In the ongoing stage every assessor must have
// answered every question; later stages need one validated answer per
// question regardless of author.
func (s *CompletionService) UnfinishedQuestions(assessmentID int, stage string, wf *Workflow) ([]UnfinishedItem, error) {
	return s.unfinishedQuestions(s.db, assessmentID, stage, wf)
}

// UnfinishedQuestionsTx is the transaction-scoped variant used while gating a
// stage transition.
func (s *CompletionService) UnfinishedQuestionsTx(tx *gorm.DB, assessmentID int, stage string, wf *Workflow) ([]UnfinishedItem, error) {
	return s.unfinishedQuestions(tx, assessmentID, stage, wf)
}

func (s *CompletionService) unfinishedQuestions(db *gorm.DB, assessmentID int, stage string, wf *Workflow) ([]UnfinishedItem, error) {
	var questions []models.AssessmentQuestion
	if err := db.Preload("Question").
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		Order("assessment_question_id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	questionIDs := make([]int, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.AssessmentQuestionID)
	}

	var answers []models.Answer
	if err := db.Where("assessment_question_id IN ? AND status = ?", questionIDs, stage).
		Find(&answers).Error; err != nil {
		return nil, err
	}

	requireRationale := wf.RationaleRequired(stage)
	complete := func(a *models.Answer) bool {
		if !a.HasRating() {
			return false
		}
		if requireRationale && !a.HasRationale() {
			return false
		}
		return true
	}

	unfinished := make([]UnfinishedItem, 0)

	if wf.PerAssessor(stage) {
		var assessors []models.AssessmentAssessor
		if err := db.Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
			Order("assessment_assessor_id ASC").
			Find(&assessors).Error; err != nil {
			return nil, err
		}

		answered := make(map[[2]int]bool)
		for i := range answers {
			a := &answers[i]
			if a.UserID == nil || !complete(a) {
				continue
			}
			answered[[2]int{a.AssessmentQuestionID, *a.UserID}] = true
		}

		for _, q := range questions {
			for _, assessor := range assessors {
				if answered[[2]int{q.AssessmentQuestionID, assessor.UserID}] {
					continue
				}
				userID := assessor.UserID
				unfinished = append(unfinished, UnfinishedItem{
					AssessmentQuestionID: q.AssessmentQuestionID,
					QuestionID:           q.QuestionID,
					QuestionNumber:       q.Question.QuestionNumber,
					UserID:               &userID,
				})
			}
		}
		return unfinished, nil
	}

	answered := make(map[int]bool)
	for i := range answers {
		a := &answers[i]
		if complete(a) {
			answered[a.AssessmentQuestionID] = true
		}
	}

	for _, q := range questions {
		if answered[q.AssessmentQuestionID] {
			continue
		}
		unfinished = append(unfinished, UnfinishedItem{
			AssessmentQuestionID: q.AssessmentQuestionID,
			QuestionID:           q.QuestionID,
			QuestionNumber:       q.Question.QuestionNumber,
		})
	}
	return unfinished, nil
}
