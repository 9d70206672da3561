package models

import "time"

// Assessment is evaluated against a site through a sequential review
// pipeline. Status holds exactly one stage of the configured workflow and is
// only ever mutated by the status service.
type Assessment struct {
	AssessmentID int        `gorm:"primaryKey;column:assessment_id" json:"assessment_id"`
	SiteID       int        `gorm:"column:site_id" json:"site_id"`
	EngagementID int        `gorm:"column:engagement_id" json:"engagement_id"`
	PocID        *int       `gorm:"column:poc_id" json:"poc_id,omitempty"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	StartDate    *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Status       string     `gorm:"column:status" json:"status"`
	Workflow     string     `gorm:"column:workflow" json:"workflow"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Site       Site                 `gorm:"foreignKey:SiteID;references:SiteID" json:"site,omitempty"`
	Engagement Engagement           `gorm:"foreignKey:EngagementID;references:EngagementID" json:"engagement,omitempty"`
	Poc        *Poc                 `gorm:"foreignKey:PocID;references:PocID" json:"poc,omitempty"`
	Questions  []AssessmentQuestion `gorm:"foreignKey:AssessmentID;references:AssessmentID" json:"questions,omitempty"`
	Assessors  []AssessmentAssessor `gorm:"foreignKey:AssessmentID;references:AssessmentID" json:"assessors,omitempty"`
}

// AssessmentQuestion binds a question (and optionally a filter-specific
// rubric) to an assessment. Immutable once the assessment leaves created.
type AssessmentQuestion struct {
	AssessmentQuestionID int        `gorm:"primaryKey;column:assessment_question_id" json:"assessment_question_id"`
	AssessmentID         int        `gorm:"column:assessment_id" json:"assessment_id"`
	QuestionID           int        `gorm:"column:question_id" json:"question_id"`
	FilterID             *int       `gorm:"column:filter_id" json:"filter_id,omitempty"`
	CreateAt             *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt             *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Question Question `gorm:"foreignKey:QuestionID;references:QuestionID" json:"question,omitempty"`
	Filter   *Filter  `gorm:"foreignKey:FilterID;references:FilterID" json:"filter,omitempty"`
	Answers  []Answer `gorm:"foreignKey:AssessmentQuestionID;references:AssessmentQuestionID" json:"answers,omitempty"`
}

type AssessmentAssessor struct {
	AssessmentAssessorID int        `gorm:"primaryKey;column:assessment_assessor_id" json:"assessment_assessor_id"`
	AssessmentID         int        `gorm:"column:assessment_id" json:"assessment_id"`
	UserID               int        `gorm:"column:user_id" json:"user_id"`
	CreateAt             *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt             *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	User User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

func (AssessmentAssessor) TableName() string {
	return "assessment_assessors"
}
