package models

import "time"

// Comment is an immutable reply to a post. It disappears only when its
// post or its author is deleted.
type Comment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PostID  uint      `gorm:"index;not null" json:"post_id"`
	UserID  uint      `gorm:"index;not null" json:"user_id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	Created time.Time `gorm:"index;not null;autoCreateTime" json:"created"`
	Author  User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
