package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civicos/internal/models"
	"civicos/internal/utils"

	"gorm.io/gorm"
)

const BillPageSize = 20

// BillView is a bill with its citizen vote tally.
type BillView struct {
	models.Bill
	Tally VoteTally `json:"tally"`
}

type BillPage struct {
	Bills    []BillView `json:"bills"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int64      `json:"total"`
}

type BillService struct {
	db       *gorm.DB
	tally    *TallyService
	cache    utils.Cache
	cacheTTL time.Duration
}

func NewBillService(db *gorm.DB, tally *TallyService, cache utils.Cache, cacheTTL time.Duration) *BillService {
	return &BillService{db: db, tally: tally, cache: cache, cacheTTL: cacheTTL}
}

func billListKey(status string, page int) string {
	return fmt.Sprintf("bills:list:%s:%d", status, page)
}

type billRows struct {
	Bills []models.Bill
	Total int64
}

// List returns one page of bills, newest first. The bill rows may come from
// the cache; tallies are always attached fresh with one grouped aggregate.
func (s *BillService) List(ctx context.Context, status string, page int) (*BillPage, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.page(ctx, status, page)
	if err != nil {
		return nil, err
	}
	views, err := s.withTallies(ctx, rows.Bills)
	if err != nil {
		return nil, err
	}
	return &BillPage{Bills: views, Page: page, PageSize: BillPageSize, Total: rows.Total}, nil
}

func (s *BillService) page(ctx context.Context, status string, page int) (*billRows, error) {
	key := billListKey(status, page)
	if s.cache != nil {
		var cached billRows
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	var scopes []Scope
	if status != "" {
		scopes = append(scopes, WhereEq("status", status))
	}
	total, err := CountRows(ctx, s.db, &models.Bill{}, scopes...)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx)
	for _, sc := range scopes {
		q = sc(q)
	}
	bills := make([]models.Bill, 0)
	if err := q.Preload("Sponsor").
		Order("introduced_at DESC").Order("id DESC").
		Offset((page - 1) * BillPageSize).Limit(BillPageSize).
		Find(&bills).Error; err != nil {
		return nil, err
	}

	rows := &billRows{Bills: bills, Total: total}
	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(ctx, key, rows, s.cacheTTL)
	}
	return rows, nil
}

// Search matches the query against number, title and summary.
func (s *BillService) Search(ctx context.Context, query string) ([]BillView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}
	like := "%" + strings.ToLower(query) + "%"

	var bills []models.Bill
	if err := s.db.WithContext(ctx).Preload("Sponsor").
		Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", like, like, like).
		Order("introduced_at DESC").
		Limit(50).
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return s.withTallies(ctx, bills)
}

func (s *BillService) Get(ctx context.Context, id uint) (*BillView, error) {
	var bill models.Bill
	if err := s.db.WithContext(ctx).Preload("Sponsor").First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tally, err := s.tally.Tally(ctx, models.ItemTypeBill, bill.ID)
	if err != nil {
		return nil, err
	}
	return &BillView{Bill: bill, Tally: tally}, nil
}

func (s *BillService) withTallies(ctx context.Context, bills []models.Bill) ([]BillView, error) {
	ids := make([]uint, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	tallies, err := s.tally.TallyMany(ctx, models.ItemTypeBill, ids)
	if err != nil {
		return nil, err
	}
	views := make([]BillView, len(bills))
	for i, b := range bills {
		views[i] = BillView{Bill: b, Tally: tallies[b.ID]}
	}
	return views, nil
}
