package router

import (
	"log"
	"os"

	"firebase.google.com/go/v4/auth"
	"github.com/campuslink/backend/internal/handlers"
	"github.com/campuslink/backend/internal/middleware"
	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(
	e *echo.Echo,
	pgdb *gorm.DB,
	mgClient *mongo.Client,
	firebaseAuthClient *auth.Client,
	rdb *redis.Client,
	logger *zap.Logger,
	sched *scheduler.Scheduler,
) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
		&models.Repost{},
		&models.Bookmark{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.Job{},
		&models.JobApplication{},
		&models.Paper{},
		&models.PaperAuthor{},
		&models.Event{},
		&models.EventRSVP{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Story{},
		&models.StoryView{},
		&models.Poll{},
		&models.PollVote{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.ReputationEvent{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	mongoDB := mgClient.Database("campuslink")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	feedRepo := repositories.NewMongoFeedRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	repostRepo := repositories.NewPostgresRepostRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	jobRepo := repositories.NewPostgresJobRepository(pgdb)
	paperRepo := repositories.NewPostgresPaperRepository(pgdb)
	eventRepo := repositories.NewPostgresEventRepository(pgdb)
	communityRepo := repositories.NewPostgresCommunityRepository(pgdb)
	storyRepo := repositories.NewPostgresStoryRepository(pgdb)
	pollRepo := repositories.NewPostgresPollRepository(pgdb)
	conversationRepo := repositories.NewPostgresConversationRepository(pgdb)
	reputationRepo := repositories.NewPostgresReputationRepository(pgdb)

	// --- Initialize Services ---
	counterService := services.NewCounterService(logger, userRepo, postRepo, commentRepo, reactionRepo, jobRepo, eventRepo, communityRepo)
	notifier := services.NewNotifier(logger, notificationRepo)
	fanoutService := services.NewFanoutService(logger, feedRepo, followRepo)
	mentionScanner := services.NewMentionScanner(logger, userRepo, notifier)
	reputationService := services.NewReputationService(logger, userRepo, reputationRepo, rdb)
	reactionService := services.NewReactionService(logger, sched, counterService, notifier, reputationService, reactionRepo, postRepo, commentRepo, userRepo)
	cleanupService := services.NewCleanupService(logger, sched, counterService, services.CleanupRepos{
		Users:         userRepo,
		Posts:         postRepo,
		Comments:      commentRepo,
		Reactions:     reactionRepo,
		Reposts:       repostRepo,
		Bookmarks:     bookmarkRepo,
		Follows:       followRepo,
		Feed:          feedRepo,
		Notifications: notificationRepo,
		Jobs:          jobRepo,
		Events:        eventRepo,
		Papers:        paperRepo,
		Communities:   communityRepo,
		Stories:       storyRepo,
		Polls:         pollRepo,
		Conversations: conversationRepo,
		Reputation:    reputationRepo,
	})

	// --- Identity webhook (HMAC-signed, no session) ---
	webhookGroup := e.Group("/webhooks")
	webhookHandler := handlers.NewWebhookHandler(os.Getenv("WEBHOOK_SECRET"), userRepo, cleanupService, sched)
	webhookHandler.RegisterWebhookRoutes(webhookGroup)
	log.Println("Webhook routes configured.")

	// --- Unprotected-by-session auth routes (token verified in middleware) ---
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, cleanupService, sched)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, counterService, notifier, sched)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, fanoutService, mentionScanner, reputationService, cleanupService, sched)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedRepo, postRepo, userRepo, reactionRepo, bookmarkRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, counterService, notifier, mentionScanner, reputationService, cleanupService, sched)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionService, userRepo)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Repost routes
	repostHandler := handlers.NewRepostHandler(repostRepo, postRepo, userRepo, counterService, notifier, sched)
	repostHandler.RegisterRepostRoutes(api)
	log.Println("Repost routes configured.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo, userRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Jobs board routes
	jobHandler := handlers.NewJobHandler(jobRepo, userRepo, counterService, sched)
	jobHandler.RegisterJobRoutes(api)
	log.Println("Job routes configured.")

	// Paper routes
	paperHandler := handlers.NewPaperHandler(paperRepo, userRepo, reputationService, sched)
	paperHandler.RegisterPaperRoutes(api)
	log.Println("Paper routes configured.")

	// Event routes
	eventHandler := handlers.NewEventHandler(eventRepo, userRepo, counterService, notifier, sched)
	eventHandler.RegisterEventRoutes(api)
	log.Println("Event routes configured.")

	// Community routes
	communityHandler := handlers.NewCommunityHandler(communityRepo, userRepo, counterService, sched)
	communityHandler.RegisterCommunityRoutes(api)
	log.Println("Community routes configured.")

	// Story routes
	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	// Poll routes
	pollHandler := handlers.NewPollHandler(pollRepo, userRepo)
	pollHandler.RegisterPollRoutes(api)
	log.Println("Poll routes configured.")

	// Conversation routes
	conversationHandler := handlers.NewConversationHandler(conversationRepo, userRepo, notifier, sched)
	conversationHandler.RegisterConversationRoutes(api)
	log.Println("Conversation routes configured.")

	// Leaderboard routes
	leaderboardHandler := handlers.NewLeaderboardHandler(reputationService)
	leaderboardHandler.RegisterLeaderboardRoutes(api)
	log.Println("Leaderboard routes configured.")
}
