package models

import "time"

// Post is a publication by a single author, optionally attached to a group
// and illustrated with an uploaded image. PubDate is assigned on creation
// and never changes afterwards; feeds sort on it descending.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time `gorm:"index;not null;autoCreateTime" json:"pub_date"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Image     string    `gorm:"size:1024" json:"image"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
