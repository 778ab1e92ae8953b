package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"civicos/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity actions.
const (
	ActionVoteCast          = "vote_cast"
	ActionPetitionSigned    = "petition_signed"
	ActionPetitionCreated   = "petition_created"
	ActionPostCreated       = "post_created"
	ActionCommentCreated    = "comment_created"
	ActionPoliticianTracked = "politician_tracked"
)

// Civic points per action.
const (
	PointsVoteCast          = 2
	PointsPetitionSigned    = 3
	PointsPetitionCreated   = 5
	PointsPostCreated       = 1
	PointsCommentCreated    = 1
	PointsPoliticianTracked = 1
)

// 每日限制
const (
	DailyPostLimit    = 3 // only the first three posts a day earn points
	DailyCommentLimit = 3
)

// RecordActivity appends an activity row and adds its points to the user's
// civic balance. Pass the transaction of the action being recorded so both
// commit together.
func RecordActivity(tx *gorm.DB, userID uint, action, description string, points int, meta map[string]interface{}) error {
	entry := models.UserActivity{
		UserID:      userID,
		Action:      action,
		Description: description,
		Points:      points,
	}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		entry.Metadata = datatypes.JSON(raw)
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	if points == 0 {
		return nil
	}
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("civic_points", gorm.Expr("civic_points + ?", points)).
		Error
}

// todayRange 获取今日的开始和结束时间
func todayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}

// pointsForDailyLimited returns points unless the user already earned points
// for action limit times today, in which case it returns 0.
func pointsForDailyLimited(tx *gorm.DB, userID uint, action string, points, limit int, now time.Time) (int, error) {
	start, end := todayRange(now)
	var count int64
	if err := tx.Model(&models.UserActivity{}).
		Where("user_id = ? AND action = ? AND points > 0 AND created_at >= ? AND created_at < ?", userID, action, start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count daily %s: %w", action, err)
	}
	if count >= int64(limit) {
		return 0, nil
	}
	return points, nil
}

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Recent returns the user's newest activity rows.
func (s *ActivityService) Recent(ctx context.Context, userID uint, limit int) ([]models.UserActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	activities := make([]models.UserActivity, 0, limit)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
