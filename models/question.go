package models

import "time"

// Topic groups question bank entries; TopicOrder drives display and export
// ordering.
type Topic struct {
	TopicID    int        `gorm:"primaryKey;column:topic_id" json:"topic_id"`
	TopicName  string     `gorm:"column:topic_name" json:"topic_name"`
	TopicOrder int        `gorm:"column:topic_order" json:"topic_order"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Question struct {
	QuestionID     int        `gorm:"primaryKey;column:question_id" json:"question_id"`
	TopicID        int        `gorm:"column:topic_id" json:"topic_id"`
	QuestionNumber string     `gorm:"column:question_number" json:"question_number"`
	QuestionText   string     `gorm:"column:question_text" json:"question_text"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Topic   Topic    `gorm:"foreignKey:TopicID;references:TopicID" json:"topic,omitempty"`
	Ratings []Rating `gorm:"foreignKey:QuestionID;references:QuestionID" json:"ratings,omitempty"`
}

// Rating is one rubric criterion of a question: what a given score means.
type Rating struct {
	RatingID   int        `gorm:"primaryKey;column:rating_id" json:"rating_id"`
	QuestionID int        `gorm:"column:question_id" json:"question_id"`
	Value      int        `gorm:"column:value" json:"value"`
	Criteria   string     `gorm:"column:criteria" json:"criteria"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Filter names an alternate rubric. An assessment question carrying a filter
// shows the filter's rating criteria instead of the question's defaults.
type Filter struct {
	FilterID   int        `gorm:"primaryKey;column:filter_id" json:"filter_id"`
	FilterName string     `gorm:"column:filter_name" json:"filter_name"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	FilterRatings []FilterRating `gorm:"foreignKey:FilterID;references:FilterID" json:"filter_ratings,omitempty"`
}

// FilterRating overrides the rubric text of one score under a filter.
type FilterRating struct {
	FilterRatingID int        `gorm:"primaryKey;column:filter_rating_id" json:"filter_rating_id"`
	FilterID       int        `gorm:"column:filter_id" json:"filter_id"`
	QuestionID     int        `gorm:"column:question_id" json:"question_id"`
	Value          int        `gorm:"column:value" json:"value"`
	Criteria       string     `gorm:"column:criteria" json:"criteria"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}

func (Question) TableName() string {
	return "questions"
}

func (Rating) TableName() string {
	return "ratings"
}

func (Filter) TableName() string {
	return "filters"
}

func (FilterRating) TableName() string {
	return "filter_ratings"
}
