package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civicos/internal/models"
	"civicos/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PetitionView is a petition with its derived display fields.
type PetitionView struct {
	models.Petition
	Urgency  Urgency `json:"urgency"`
	DaysLeft *int    `json:"daysLeft"`
	Progress int     `json:"progress"` // percent of target, capped at 100
}

type CreatePetitionInput struct {
	CreatorID        uint
	Title            string
	Description      string
	TargetSignatures int
	Deadline         *time.Time
}

type SignResult struct {
	CurrentSignatures int     `json:"currentSignatures"`
	Urgency           Urgency `json:"urgency"`
	GoalReached       bool    `json:"goalReached"`
}

type PetitionService struct {
	db            *gorm.DB
	notifications *NotificationService
	mailer        Mailer
	now           func() time.Time
}

func NewPetitionService(db *gorm.DB, notifications *NotificationService, mailer Mailer) *PetitionService {
	return &PetitionService{db: db, notifications: notifications, mailer: mailer, now: time.Now}
}

func (s *PetitionService) view(p models.Petition) PetitionView {
	progress := 0
	if p.TargetSignatures > 0 {
		progress = p.CurrentSignatures * 100 / p.TargetSignatures
		if progress > 100 {
			progress = 100
		}
	}
	return PetitionView{
		Petition: p,
		Urgency:  ClassifyUrgency(p.CurrentSignatures, p.TargetSignatures),
		DaysLeft: DaysLeft(p.Deadline, s.now()),
		Progress: progress,
	}
}

func (s *PetitionService) List(ctx context.Context, status string) ([]PetitionView, error) {
	var petitions []models.Petition
	q := s.db.WithContext(ctx).Preload("Creator").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Limit(100).Find(&petitions).Error; err != nil {
		return nil, err
	}

	views := make([]PetitionView, len(petitions))
	for i, p := range petitions {
		views[i] = s.view(p)
	}
	return views, nil
}

func (s *PetitionService) Get(ctx context.Context, id uint) (*PetitionView, error) {
	var p models.Petition
	if err := s.db.WithContext(ctx).Preload("Creator").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	v := s.view(p)
	return &v, nil
}

func (s *PetitionService) Create(ctx context.Context, in CreatePetitionInput) (*PetitionView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.TargetSignatures <= 0 {
		return nil, fmt.Errorf("%w: targetSignatures must be positive", ErrInvalidInput)
	}
	if in.Deadline != nil && !in.Deadline.After(s.now()) {
		return nil, fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	}

	p := models.Petition{
		Title:            title,
		Description:      in.Description,
		DescriptionHTML:  utils.RenderMarkdown(in.Description),
		TargetSignatures: in.TargetSignatures,
		Status:           models.PetitionActive,
		Deadline:         in.Deadline,
		CreatorID:        in.CreatorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator").Create(&p).Error; err != nil {
			return err
		}
		return RecordActivity(tx, in.CreatorID, ActionPetitionCreated,
			"Started petition: "+title, PointsPetitionCreated,
			map[string]interface{}{"petition_id": p.ID})
	})
	if err != nil {
		return nil, fmt.Errorf("create petition: %w", err)
	}
	v := s.view(p)
	return &v, nil
}

// Sign adds the user's signature and bumps the counter in one transaction.
// The (petition, user) unique index decides duplicates, so a second signature
// returns ErrAlreadySigned and leaves the counter unchanged.
func (s *PetitionService) Sign(ctx context.Context, userID, petitionID uint, verificationID string) (*SignResult, error) {
	verificationID = strings.TrimSpace(verificationID)
	if verificationID == "" {
		return nil, fmt.Errorf("%w: verificationId is required", ErrInvalidInput)
	}

	var (
		petition    models.Petition
		goalReached bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&petition, petitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if petition.Status == models.PetitionClosed ||
			(petition.Deadline != nil && petition.Deadline.Before(s.now())) {
			return ErrPetitionClosed
		}

		sig := models.PetitionSignature{
			PetitionID:     petitionID,
			UserID:         userID,
			VerificationID: verificationID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sig)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadySigned
		}

		if err := tx.Model(&models.Petition{}).
			Where("id = ?", petitionID).
			UpdateColumn("current_signatures", gorm.Expr("current_signatures + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Select("current_signatures").First(&petition, petitionID).Error; err != nil {
			return err
		}

		if petition.Status == models.PetitionActive && petition.CurrentSignatures >= petition.TargetSignatures {
			if err := tx.Model(&models.Petition{}).Where("id = ?", petitionID).
				UpdateColumn("status", models.PetitionSuccessful).Error; err != nil {
				return err
			}
			petition.Status = models.PetitionSuccessful
			goalReached = true
		}

		return RecordActivity(tx, userID, ActionPetitionSigned,
			"Signed petition: "+petition.Title, PointsPetitionSigned,
			map[string]interface{}{"petition_id": petitionID})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPetitionClosed) || errors.Is(err, ErrAlreadySigned) {
			return nil, err
		}
		return nil, fmt.Errorf("sign petition: %w", err)
	}

	if goalReached {
		s.announceGoal(ctx, petition)
	}

	return &SignResult{
		CurrentSignatures: petition.CurrentSignatures,
		Urgency:           ClassifyUrgency(petition.CurrentSignatures, petition.TargetSignatures),
		GoalReached:       goalReached,
	}, nil
}

func (s *PetitionService) announceGoal(ctx context.Context, p models.Petition) {
	link := fmt.Sprintf("/petitions/%d", p.ID)
	if s.notifications != nil {
		err := s.notifications.Notify(ctx, &models.Notification{
			UserID:  p.CreatorID,
			Type:    models.NotificationPetitionGoal,
			Message: fmt.Sprintf("Your petition \"%s\" reached %d signatures.", p.Title, p.CurrentSignatures),
			Link:    link,
		})
		if err != nil {
			log.Error().Err(err).Uint("petition_id", p.ID).Msg("failed to notify petition creator")
		}
	}

	if s.mailer == nil {
		return
	}
	var creator models.User
	if err := s.db.WithContext(ctx).First(&creator, p.CreatorID).Error; err != nil {
		log.Warn().Err(err).Uint("petition_id", p.ID).Msg("petition creator not found")
		return
	}
	s.mailer.SendPetitionGoalReached(creator.Email, creator.Username, p.Title, p.CurrentSignatures, link)
}

// CloseExpired closes active petitions whose deadline has passed and tells
// their creators.
func (s *PetitionService) CloseExpired(ctx context.Context) (int, error) {
	var expired []models.Petition
	if err := s.db.WithContext(ctx).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.PetitionActive, s.now()).
		Find(&expired).Error; err != nil {
		return 0, err
	}

	closed := 0
	for _, p := range expired {
		res := s.db.WithContext(ctx).Model(&models.Petition{}).
			Where("id = ? AND status = ?", p.ID, models.PetitionActive).
			UpdateColumn("status", models.PetitionClosed)
		if res.Error != nil {
			return closed, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		closed++
		if s.notifications != nil {
			err := s.notifications.Notify(ctx, &models.Notification{
				UserID:  p.CreatorID,
				Type:    models.NotificationPetitionClosed,
				Message: fmt.Sprintf("Your petition \"%s\" closed with %d of %d signatures.", p.Title, p.CurrentSignatures, p.TargetSignatures),
				Link:    fmt.Sprintf("/petitions/%d", p.ID),
			})
			if err != nil {
				log.Error().Err(err).Uint("petition_id", p.ID).Msg("failed to notify petition creator")
			}
		}
	}
	return closed, nil
}
