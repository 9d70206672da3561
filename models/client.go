package models

import "time"

type Client struct {
	ClientID   int        `gorm:"primaryKey;column:client_id" json:"client_id"`
	ClientName string     `gorm:"column:client_name" json:"client_name"`
	Industry   *string    `gorm:"column:industry" json:"industry,omitempty"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Sites []Site `gorm:"foreignKey:ClientID;references:ClientID" json:"sites,omitempty"`
	Pocs  []Poc  `gorm:"foreignKey:ClientID;references:ClientID" json:"pocs,omitempty"`
}

type Site struct {
	SiteID   int        `gorm:"primaryKey;column:site_id" json:"site_id"`
	ClientID int        `gorm:"column:client_id" json:"client_id"`
	SiteName string     `gorm:"column:site_name" json:"site_name"`
	Address  *string    `gorm:"column:address" json:"address,omitempty"`
	City     *string    `gorm:"column:city" json:"city,omitempty"`
	Country  *string    `gorm:"column:country" json:"country,omitempty"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Poc is a client-side point of contact. UserID links the POC to a login
// account when the client participates in review stages.
type Poc struct {
	PocID    int        `gorm:"primaryKey;column:poc_id" json:"poc_id"`
	ClientID int        `gorm:"column:client_id" json:"client_id"`
	PocName  string     `gorm:"column:poc_name" json:"poc_name"`
	Email    string     `gorm:"column:email" json:"email"`
	Phone    *string    `gorm:"column:phone" json:"phone,omitempty"`
	UserID   *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

type Engagement struct {
	EngagementID   int        `gorm:"primaryKey;column:engagement_id" json:"engagement_id"`
	ClientID       int        `gorm:"column:client_id" json:"client_id"`
	EngagementName string     `gorm:"column:engagement_name" json:"engagement_name"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Client Client `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

func (Site) TableName() string {
	return "sites"
}

func (Poc) TableName() string {
	return "pocs"
}

func (Engagement) TableName() string {
	return "engagements"
}
