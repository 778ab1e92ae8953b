package cli

import (
	"context"

	"civicos/internal/auth"
	"civicos/internal/config"
	"civicos/internal/router"
	"civicos/internal/services"
	"civicos/internal/utils"

	"gorm.io/gorm"
)

// app is the fully wired service graph behind the API and the background jobs.
type app struct {
	cfg       config.Config
	db        *gorm.DB
	cache     utils.Cache
	trust     *services.TrustScoreService
	queue     *services.RefreshQueue
	petitions *services.PetitionService
	ingester  *services.BillIngester
	deps      router.Deps
}

func newApp(ctx context.Context, cfg config.Config, gdb *gorm.DB) *app {
	cache := utils.NewCache(ctx, cfg.RedisURL)

	tally := services.NewTallyService(gdb)
	activity := services.NewActivityService(gdb)
	notifications := services.NewNotificationService(gdb)
	mailer := services.NewMailService(cfg.SMTP)
	trust := services.NewTrustScoreService(gdb, cfg.TrustScoreRefreshInterval)
	queue := services.NewRefreshQueue(trust)
	petitions := services.NewPetitionService(gdb, notifications, mailer)

	return &app{
		cfg:       cfg,
		db:        gdb,
		cache:     cache,
		trust:     trust,
		queue:     queue,
		petitions: petitions,
		ingester:  services.NewBillIngester(gdb, cfg.BillFetchFullText),
		deps: router.Deps{
			DB:            gdb,
			Tokens:        auth.NewTokenManager(cfg.SessionSecret, cfg.TokenTTL),
			Users:         services.NewUserService(gdb),
			Bills:         services.NewBillService(gdb, tally, cache, cfg.CacheTTL),
			Politicians:   services.NewPoliticianService(gdb, trust, queue, cache, cfg.CacheTTL),
			Petitions:     petitions,
			Voting:        services.NewVotingService(gdb, tally),
			Tally:         tally,
			Dashboard:     services.NewDashboardService(gdb, activity),
			Activity:      activity,
			Social:        services.NewSocialService(gdb, notifications),
			Notifications: notifications,
		},
	}
}

func (a *app) jobs() services.BackgroundJobs {
	return services.BackgroundJobs{
		Ingester:  a.ingester,
		FeedURL:   a.cfg.BillFeedURL,
		FeedCron:  a.cfg.BillFeedSchedule,
		Trust:     a.trust,
		Petitions: a.petitions,
	}
}
