package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"civicos/internal/models"
	"civicos/internal/utils"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bill numbers look like C-21 (Commons) or S-209 (Senate).
var billNumberRe = regexp.MustCompile(`^\s*([CS]-\d+)\b`)

type IngestResult struct {
	Seen    int `json:"seen"`
	Created int `json:"created"`
}

// BillIngester pulls bills from a parliament RSS or Atom feed. Entries are
// keyed by GUID (or link), so re-running an ingest never duplicates a bill.
type BillIngester struct {
	db        *gorm.DB
	parser    *gofeed.Parser
	client    *http.Client
	sanitizer *bluemonday.Policy
	fullText  bool
	now       func() time.Time
}

func NewBillIngester(db *gorm.DB, fullText bool) *BillIngester {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}
	parser := gofeed.NewParser()
	parser.Client = client

	return &BillIngester{
		db:        db,
		parser:    parser,
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		fullText:  fullText,
		now:       time.Now,
	}
}

// Ingest fetches feedURL and stores entries not seen before.
func (b *BillIngester) Ingest(ctx context.Context, feedURL string) (*IngestResult, error) {
	feed, err := b.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse bill feed: %w", err)
	}

	result := &IngestResult{}
	for _, item := range feed.Items {
		result.Seen++
		bill := b.billFromItem(ctx, item)
		if bill == nil {
			continue
		}
		res := b.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Omit("Sponsor").Create(bill)
		if res.Error != nil {
			log.Error().Err(res.Error).Str("guid", *bill.ExternalID).Msg("failed to store bill")
			continue
		}
		if res.RowsAffected > 0 {
			result.Created++
		}
	}

	log.Info().Str("feed", feedURL).Int("seen", result.Seen).Int("created", result.Created).Msg("bill feed ingested")
	return result, nil
}

func (b *BillIngester) billFromItem(ctx context.Context, item *gofeed.Item) *models.Bill {
	guid := item.GUID
	if guid == "" {
		guid = item.Link // 没有 GUID 时使用 Link 作为唯一标识
	}
	title := strings.TrimSpace(item.Title)
	if guid == "" || title == "" {
		return nil
	}

	bill := &models.Bill{
		Title:      title,
		Status:     models.BillActive,
		ExternalID: &guid,
		SourceURL:  item.Link,
	}
	if m := billNumberRe.FindStringSubmatch(title); m != nil {
		bill.Number = m[1]
		bill.Title = strings.TrimLeft(strings.TrimPrefix(strings.TrimSpace(title), m[1]), " :-–")
		if bill.Title == "" {
			bill.Title = title
		}
	}

	introduced := b.now()
	if item.PublishedParsed != nil {
		introduced = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		introduced = *item.UpdatedParsed
	}
	bill.IntroducedAt = &introduced

	if len(item.Categories) > 0 {
		bill.Stage = item.Categories[0]
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	if b.fullText && item.Link != "" {
		if text := b.fetchSummary(ctx, item.Link); text != "" {
			summary = text
		}
	}
	bill.Summary = utils.Excerpt(b.sanitizer.Sanitize(summary), 2000)
	return bill
}

// fetchSummary extracts the readable text of a bill page; failures fall back
// to the feed description.
func (b *BillIngester) fetchSummary(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "civicos-ingest/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := b.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", link).Msg("bill page fetch failed")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("url", link).Msg("bill page fetch failed")
		return ""
	}

	article, err := readability.FromReader(resp.Body, resp.Request.URL)
	if err != nil {
		return ""
	}
	return article.Content
}
