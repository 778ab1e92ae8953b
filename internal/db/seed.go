package db

import (
	"fmt"
	"time"

	"civicos/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seed inserts the starter directory of politicians and bills, with their
// recorded votes, statements and positions. It does nothing when politicians
// already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Politician{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("directory already seeded, skipping")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		politicians := []models.Politician{
			{Name: "Avery Tremblay", Party: "Liberal", Position: "Member of Parliament", Riding: "Ottawa Centre", ParliamentMemberID: "MP-1001"},
			{Name: "Jordan Singh", Party: "Conservative", Position: "Member of Parliament", Riding: "Calgary Nose Hill", ParliamentMemberID: "MP-1002"},
			{Name: "Morgan Leblanc", Party: "NDP", Position: "Member of Parliament", Riding: "Vancouver East", ParliamentMemberID: "MP-1003"},
			{Name: "Riley Chen", Party: "Bloc Québécois", Position: "Member of Parliament", Riding: "Laurier—Sainte-Marie", ParliamentMemberID: "MP-1004"},
			{Name: "Casey MacDonald", Party: "Green", Position: "Member of Parliament", Riding: "Saanich—Gulf Islands", ParliamentMemberID: "MP-1005"},
		}
		if err := tx.Create(&politicians).Error; err != nil {
			return fmt.Errorf("seed politicians: %w", err)
		}

		introduced := time.Now().AddDate(0, -2, 0)
		bills := []models.Bill{
			{Number: "C-21", Title: "Firearms Amendment Act", Summary: "Amends firearms licensing and storage rules.", Status: models.BillActive, Stage: "Second reading", SponsorID: &politicians[0].ID, IntroducedAt: &introduced},
			{Number: "C-11", Title: "Online Streaming Act", Summary: "Brings online streaming services under broadcasting regulation.", Status: models.BillPassed, Stage: "Royal assent", SponsorID: &politicians[0].ID, IntroducedAt: &introduced},
			{Number: "C-234", Title: "Farm Fuel Carbon Pricing Exemption", Summary: "Exempts farm heating and drying fuel from carbon pricing.", Status: models.BillActive, Stage: "Committee", SponsorID: &politicians[1].ID, IntroducedAt: &introduced},
			{Number: "C-50", Title: "Sustainable Jobs Act", Summary: "Creates a framework for a sustainable jobs transition.", Status: models.BillActive, Stage: "Third reading", SponsorID: &politicians[2].ID, IntroducedAt: &introduced},
			{Number: "S-5", Title: "Strengthening Environmental Protection Act", Summary: "Updates toxic substance assessment under CEPA.", Status: models.BillPassed, Stage: "Royal assent", SponsorID: &politicians[4].ID, IntroducedAt: &introduced},
		}
		if err := tx.Create(&bills).Error; err != nil {
			return fmt.Errorf("seed bills: %w", err)
		}

		positions := []string{models.PositionYes, models.PositionNo, models.PositionAbstain, models.PositionAbsent}
		var records []models.PoliticianVote
		for i, p := range politicians {
			for j, b := range bills {
				records = append(records, models.PoliticianVote{
					PoliticianID: p.ID,
					BillID:       b.ID,
					Position:     positions[(i+j)%len(positions)],
					VotedAt:      introduced.AddDate(0, 0, 14+j),
				})
			}
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("seed politician votes: %w", err)
		}

		verdicts := []string{models.FactTrue, models.FactMostlyTrue, models.FactMixed, models.FactMostlyFalse, models.FactUnverified}
		var statements []models.PoliticianStatement
		var stances []models.PoliticianPosition
		for i, p := range politicians {
			statements = append(statements,
				models.PoliticianStatement{PoliticianID: p.ID, Content: "Housing starts rose last year in my riding.", FactCheck: verdicts[i%len(verdicts)], StatedAt: introduced},
				models.PoliticianStatement{PoliticianID: p.ID, Content: "Our party has never supported this measure.", FactCheck: verdicts[(i+2)%len(verdicts)], StatedAt: introduced},
			)
			stances = append(stances,
				models.PoliticianPosition{PoliticianID: p.ID, Topic: "Carbon pricing", Stance: "Supports a consumer rebate.", Changed: i%2 == 1},
				models.PoliticianPosition{PoliticianID: p.ID, Topic: "Housing", Stance: "Supports federal co-investment.", Changed: false},
			)
		}
		if err := tx.Create(&statements).Error; err != nil {
			return fmt.Errorf("seed statements: %w", err)
		}
		if err := tx.Create(&stances).Error; err != nil {
			return fmt.Errorf("seed positions: %w", err)
		}

		log.Info().Int("politicians", len(politicians)).Int("bills", len(bills)).Msg("initial directory created")
		return nil
	})
}
