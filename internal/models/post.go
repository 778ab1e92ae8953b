package models

import (
	"time"
)

// Tombstone replaces the content of soft-deleted posts and comments.
const Tombstone = "[deleted]"

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHTML string    `gorm:"type:text" json:"content_html"`
	Excerpt     string    `gorm:"size:300" json:"excerpt"`
	IsDeleted   bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 查询时填充
	LikeCount    int  `gorm:"-" json:"like_count"`
	CommentCount int  `gorm:"-" json:"comment_count"`
	LikedByMe    bool `gorm:"-" json:"liked_by_me"`
}

type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
