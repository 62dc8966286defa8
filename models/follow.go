package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSelfFollow is returned when a user attempts to follow themselves.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// Follow is a directed edge in the user graph: UserID receives AuthorID's
// posts in their follow feed. The pair is unique and self-edges are rejected
// both by the hook and by a storage-level CHECK so concurrent requests cannot
// slip one through.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;check:chk_no_self_follow,user_id <> author_id" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate rejects self-follow edges before they reach the database.
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.UserID == f.AuthorID {
		return ErrSelfFollow
	}
	return nil
}
