package models

import "time"

// Answer is one actor's response to an assessment question within a single
// stage. Rows are append-style: progressing to the next stage creates a new
// row rather than mutating the old one, so the set of answers per question is
// the full per-stage history. Status is fixed at creation and never changes.
type Answer struct {
	AnswerID             int        `gorm:"primaryKey;column:answer_id" json:"answer_id"`
	AssessmentQuestionID int        `gorm:"column:assessment_question_id" json:"assessment_question_id"`
	UserID               *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	Status               string     `gorm:"column:status" json:"status"`
	Rating               *int       `gorm:"column:rating" json:"rating,omitempty"`
	Rationale            *string    `gorm:"column:rationale" json:"rationale,omitempty"`
	Notes                *string    `gorm:"column:notes" json:"notes,omitempty"`
	StartedAt            time.Time  `gorm:"column:started_at" json:"started_at"`
	CreateAt             *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	AssessmentQuestion AssessmentQuestion `gorm:"foreignKey:AssessmentQuestionID;references:AssessmentQuestionID" json:"assessment_question,omitempty"`
	User               *User              `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}

// HasRating reports whether a non-zero rating was recorded.
func (a *Answer) HasRating() bool {
	return a.Rating != nil && *a.Rating != 0
}

// HasRationale reports whether a non-empty rationale was recorded.
func (a *Answer) HasRationale() bool {
	return a.Rationale != nil && *a.Rationale != ""
}
