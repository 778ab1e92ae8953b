package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"civicos/internal/models"
	"civicos/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SortNew = "new"
	SortHot = "hot"

	maxPostLength    = 5000
	maxCommentLength = 2000
	excerptLength    = 200
	feedLimit        = 50
	hotWindow        = 7 * 24 * time.Hour
)

type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	ParentID *uint
	Content  string
}

type SocialService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewSocialService(db *gorm.DB, notifications *NotificationService) *SocialService {
	return &SocialService{db: db, notifications: notifications, now: time.Now}
}

// ListPosts returns the feed. Like and comment counts for the whole page come
// from one grouped aggregate each, and "hot" re-orders recent posts by a
// time-decayed engagement score.
func (s *SocialService) ListPosts(ctx context.Context, sortBy string, viewerID uint) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	q := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Order("id DESC")
	if sortBy == SortHot {
		q = q.Where("created_at > ?", s.now().Add(-hotWindow)).Limit(feedLimit * 4)
	} else {
		q = q.Limit(feedLimit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	if err := s.fillCounts(ctx, posts, viewerID); err != nil {
		return nil, err
	}

	if sortBy == SortHot {
		now := s.now()
		sort.SliceStable(posts, func(i, j int) bool {
			return utils.HotScore(posts[i].CreatedAt, now, posts[i].LikeCount, posts[i].CommentCount) >
				utils.HotScore(posts[j].CreatedAt, now, posts[j].LikeCount, posts[j].CommentCount)
		})
		if len(posts) > feedLimit {
			posts = posts[:feedLimit]
		}
	}
	return posts, nil
}

func (s *SocialService) fillCounts(ctx context.Context, posts []models.Post, viewerID uint) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := CountByItems(ctx, s.db, &models.PostLike{}, "post_id", ids)
	if err != nil {
		return err
	}
	comments, err := CountByItems(ctx, s.db, &models.Comment{}, "post_id", ids, WhereEq("is_deleted", false))
	if err != nil {
		return err
	}

	liked := map[uint]bool{}
	if viewerID != 0 {
		var likedIDs []uint
		if err := s.db.WithContext(ctx).Model(&models.PostLike{}).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &likedIDs).Error; err != nil {
			return err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for i := range posts {
		posts[i].LikeCount = int(likes[posts[i].ID])
		posts[i].CommentCount = int(comments[posts[i].ID])
		posts[i].LikedByMe = liked[posts[i].ID]
	}
	return nil
}

func (s *SocialService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	posts := []models.Post{post}
	if err := s.fillCounts(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// CreatePost stores a markdown post. Only the first few posts each day earn
// civic points.
func (s *SocialService) CreatePost(ctx context.Context, userID uint, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len([]rune(content)) > maxPostLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, maxPostLength)
	}

	html := utils.RenderMarkdown(content)
	post := models.Post{
		UserID:      userID,
		Content:     content,
		ContentHTML: html,
		Excerpt:     utils.Excerpt(html, excerptLength),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(&post).Error; err != nil {
			return err
		}
		points, err := pointsForDailyLimited(tx, userID, ActionPostCreated, PointsPostCreated, DailyPostLimit, s.now())
		if err != nil {
			return err
		}
		return RecordActivity(tx, userID, ActionPostCreated, "Shared a post", points,
			map[string]interface{}{"post_id": post.ID})
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

func (s *SocialService) postExists(ctx context.Context, postID uint) error {
	n, err := CountRows(ctx, s.db, &models.Post{}, WhereEq("id", postID), WhereEq("is_deleted", false))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Like adds the user's like. A second like returns ErrAlreadyLiked.
func (s *SocialService) Like(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostLike{UserID: userID, PostID: postID})
	if res.Error != nil {
		return nil, fmt.Errorf("like post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyLiked
	}
	count, err := CountRows(ctx, s.db, &models.PostLike{}, WhereEq("post_id", postID))
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: true, LikeCount: count}, nil
}

// Unlike removes the user's like if present.
func (s *SocialService) Unlike(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error; err != nil {
		return nil, err
	}
	count, err := CountRows(ctx, s.db, &models.PostLike{}, WhereEq("post_id", postID))
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: false, LikeCount: count}, nil
}

func (s *SocialService) Comment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, maxCommentLength)
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, in.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.IsDeleted {
		return nil, ErrNotFound
	}
	if in.ParentID != nil {
		n, err := CountRows(ctx, s.db, &models.Comment{}, WhereEq("id", *in.ParentID), WhereEq("post_id", in.PostID))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: parent comment not on this post", ErrInvalidInput)
		}
	}

	comment := models.Comment{
		PostID:      in.PostID,
		UserID:      in.UserID,
		ParentID:    in.ParentID,
		Content:     content,
		ContentHTML: utils.RenderMarkdown(content),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Post").Create(&comment).Error; err != nil {
			return err
		}
		points, err := pointsForDailyLimited(tx, in.UserID, ActionCommentCreated, PointsCommentCreated, DailyCommentLimit, s.now())
		if err != nil {
			return err
		}
		return RecordActivity(tx, in.UserID, ActionCommentCreated, "Commented on a post", points,
			map[string]interface{}{"post_id": in.PostID, "comment_id": comment.ID})
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if post.UserID != in.UserID && s.notifications != nil {
		actor := in.UserID
		err := s.notifications.Notify(ctx, &models.Notification{
			UserID:  post.UserID,
			ActorID: &actor,
			Type:    models.NotificationCommentPost,
			Message: "New comment on your post",
			Link:    fmt.Sprintf("/social/posts/%d", post.ID),
		})
		if err != nil {
			log.Error().Err(err).Uint("post_id", post.ID).Msg("failed to notify post owner")
		}
	}
	return &comment, nil
}

// ListComments returns a post's comments oldest first, tombstones included so
// threads keep their shape.
func (s *SocialService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	n, err := CountRows(ctx, s.db, &models.Post{}, WhereEq("id", postID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	comments := make([]models.Comment, 0)
	err = s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func canModerate(actor *models.User, ownerID uint) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

func (s *SocialService) actor(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Select("id", "role").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return &u, nil
}

// DeletePost tombstones a post. Only the author or an admin may delete.
func (s *SocialService) DeletePost(ctx context.Context, userID, postID uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id", "user_id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	actor, err := s.actor(ctx, userID)
	if err != nil {
		return err
	}
	if !canModerate(actor, post.UserID) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		Updates(map[string]interface{}{
			"content":      models.Tombstone,
			"content_html": models.Tombstone,
			"excerpt":      models.Tombstone,
			"is_deleted":   true,
		}).Error
}

// DeleteComment tombstones a comment. Only the author or an admin may delete.
func (s *SocialService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Select("id", "user_id").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	actor, err := s.actor(ctx, userID)
	if err != nil {
		return err
	}
	if !canModerate(actor, comment.UserID) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).
		Updates(map[string]interface{}{
			"content":      models.Tombstone,
			"content_html": models.Tombstone,
			"is_deleted":   true,
		}).Error
}
