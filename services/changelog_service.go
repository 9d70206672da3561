package services

import (
	"sort"
	"time"

	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

// housekeepingFields never produce changelog entries.
var housekeepingFields = map[string]bool{
	"create_at":  true,
	"update_at":  true,
	"created_at": true,
	"updated_at": true,
	"delete_at":  true,
	"started_at": true,
}

// FieldChange is one scalar field's before/after pair from a save action.
type FieldChange struct {
	Field  string
	Former *string
	New    *string
}

// DiffFields compares two field snapshots and returns one change per field
// whose value differs. Housekeeping timestamps are excluded. Output is sorted
// by field name so callers persist entries in a stable order.
func DiffFields(former, updated map[string]*string) []FieldChange {
	fields := make([]string, 0, len(updated))
	for field := range updated {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	changes := make([]FieldChange, 0)
	for _, field := range fields {
		if housekeepingFields[field] {
			continue
		}
		oldVal := former[field]
		newVal := updated[field]
		if strPtrEqual(oldVal, newVal) {
			continue
		}
		changes = append(changes, FieldChange{Field: field, Former: oldVal, New: newVal})
	}
	return changes
}

func strPtrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

type ChangelogService struct {
	db *gorm.DB
}

func NewChangelogService(db *gorm.DB) *ChangelogService {
	return &ChangelogService{db: db}
}

// RecordAnswerChanges persists one changelog row per changed answer field.
// Runs on the caller's transaction handle so the rows commit with the save.
func (s *ChangelogService) RecordAnswerChanges(tx *gorm.DB, answerID, actorID int, changes []FieldChange) error {
	return s.record(tx, actorID, changes, func(entry *models.Changelog) {
		id := answerID
		entry.AnswerID = &id
	})
}

// RecordQuestionChanges persists changelog rows for question bank edits.
func (s *ChangelogService) RecordQuestionChanges(tx *gorm.DB, questionID, actorID int, changes []FieldChange) error {
	return s.record(tx, actorID, changes, func(entry *models.Changelog) {
		id := questionID
		entry.QuestionID = &id
	})
}

// RecordStatusChange journals a stage transition against the assessment.
func (s *ChangelogService) RecordStatusChange(tx *gorm.DB, assessmentID, actorID int, former, updated string) error {
	change := FieldChange{Field: "status", Former: &former, New: &updated}
	return s.record(tx, actorID, []FieldChange{change}, func(entry *models.Changelog) {
		id := assessmentID
		entry.AssessmentID = &id
	})
}

func (s *ChangelogService) record(tx *gorm.DB, actorID int, changes []FieldChange, link func(*models.Changelog)) error {
	if tx == nil {
		tx = s.db
	}
	now := time.Now()
	for _, change := range changes {
		entry := models.Changelog{
			FieldName:   change.Field,
			FormerValue: change.Former,
			NewValue:    change.New,
			ChangedBy:   actorID,
			CreatedAt:   now,
		}
		link(&entry)
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// ByAnswer returns the audit trail of a single answer, oldest first.
func (s *ChangelogService) ByAnswer(answerID int) ([]models.Changelog, error) {
	var entries []models.Changelog
	err := s.db.Preload("ChangedByUser").
		Where("answer_id = ?", answerID).
		Order("created_at ASC, changelog_id ASC").
		Find(&entries).Error
	return entries, err
}

// ByAssessment returns every changelog entry related to an assessment: its
// status transitions plus the entries of all its answers.
func (s *ChangelogService) ByAssessment(assessmentID int) ([]models.Changelog, error) {
	answerIDs := s.db.Model(&models.Answer{}).
		Select("answers.answer_id").
		Joins("JOIN assessment_questions ON assessment_questions.assessment_question_id = answers.assessment_question_id").
		Where("assessment_questions.assessment_id = ?", assessmentID)

	var entries []models.Changelog
	err := s.db.Preload("ChangedByUser").
		Where("assessment_id = ? OR answer_id IN (?)", assessmentID, answerIDs).
		Order("created_at ASC, changelog_id ASC").
		Find(&entries).Error
	return entries, err
}
