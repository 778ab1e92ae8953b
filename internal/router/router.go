package router

import (
	"civicos/internal/auth"
	"civicos/internal/handlers"
	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the services the routes are built on.
type Deps struct {
	DB            *gorm.DB
	Tokens        *auth.TokenManager
	Users         *services.UserService
	Bills         *services.BillService
	Politicians   *services.PoliticianService
	Petitions     *services.PetitionService
	Voting        *services.VotingService
	Tally         *services.TallyService
	Dashboard     *services.DashboardService
	Activity      *services.ActivityService
	Social        *services.SocialService
	Notifications *services.NotificationService
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens)
	billHandler := handlers.NewBillHandler(d.Bills)
	politicianHandler := handlers.NewPoliticianHandler(d.Politicians)
	petitionHandler := handlers.NewPetitionHandler(d.Petitions)
	voteHandler := handlers.NewVoteHandler(d.Voting, d.Tally)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboard, d.Activity)
	socialHandler := handlers.NewSocialHandler(d.Social)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications)
	healthHandler := handlers.NewHealthHandler(d.DB)

	requireAuth := middleware.AuthRequired(d.Tokens)

	r.GET("/healthz", healthHandler.Check)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(d.Tokens))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	bills := api.Group("/bills")
	{
		bills.GET("", billHandler.List)
		bills.GET("/search", billHandler.Search)
		bills.GET("/:id", billHandler.Get)
	}

	politicians := api.Group("/politicians")
	{
		politicians.GET("", politicianHandler.List)
		politicians.GET("/:id", politicianHandler.Get)         // refreshes trust score
		politicians.GET("/:id/votes", politicianHandler.Votes) // parliamentary voting record
		politicians.POST("/:id/track", requireAuth, politicianHandler.Track)
		politicians.DELETE("/:id/track", requireAuth, politicianHandler.Untrack)
		politicians.POST("/:id/statements", requireAuth, middleware.AdminRequired(), politicianHandler.AddStatement)
	}

	petitions := api.Group("/petitions")
	{
		petitions.GET("", petitionHandler.List)
		petitions.GET("/:id", petitionHandler.Get)
		petitions.POST("", requireAuth, petitionHandler.Create)
		petitions.POST("/:id/sign", requireAuth, petitionHandler.Sign)
	}

	voting := api.Group("/voting")
	{
		voting.POST("/vote", requireAuth, voteHandler.Cast)
		voting.GET("/tally/:itemType/:itemId", voteHandler.Tally)
		voting.GET("/history", requireAuth, voteHandler.History)
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use(requireAuth)
	{
		dashboard.GET("/stats", dashboardHandler.Stats)
		dashboard.GET("/activity", dashboardHandler.Activity)
	}

	social := api.Group("/social")
	{
		social.GET("/posts", socialHandler.ListPosts) // ?sort=new|hot
		social.GET("/posts/:id", socialHandler.GetPost)
		social.GET("/posts/:id/comments", socialHandler.ListComments)
		social.POST("/posts", requireAuth, socialHandler.CreatePost)
		social.POST("/posts/:id/like", requireAuth, socialHandler.Like)
		social.DELETE("/posts/:id/like", requireAuth, socialHandler.Unlike)
		social.POST("/posts/:id/comment", requireAuth, socialHandler.Comment)
		social.DELETE("/posts/:id", requireAuth, socialHandler.DeletePost)       // tombstone
		social.DELETE("/comments/:id", requireAuth, socialHandler.DeleteComment) // tombstone
	}

	notifications := api.Group("/notifications")
	notifications.Use(requireAuth)
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.Read)
		notifications.POST("/read-all", notificationHandler.ReadAll)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}
}
