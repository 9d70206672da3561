package models

import "time"

// Changelog is an audit-trail entry capturing a single field's before/after
// value on a tracked mutation. One row per changed scalar field per save;
// untouched fields produce no row. Status transitions link the assessment
// instead of an answer or question.
type Changelog struct {
	ChangelogID  int       `gorm:"primaryKey;column:changelog_id" json:"changelog_id"`
	FieldName    string    `gorm:"column:field_name" json:"field_name"`
	FormerValue  *string   `gorm:"column:former_value" json:"former_value,omitempty"`
	NewValue     *string   `gorm:"column:new_value" json:"new_value,omitempty"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	AnswerID     *int      `gorm:"column:answer_id" json:"answer_id,omitempty"`
	QuestionID   *int      `gorm:"column:question_id" json:"question_id,omitempty"`
	AssessmentID *int      `gorm:"column:assessment_id" json:"assessment_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	ChangedByUser *User `gorm:"foreignKey:ChangedBy;references:UserID" json:"changed_by_user,omitempty"`
}

func (Changelog) TableName() string {
	return "changelogs"
}
