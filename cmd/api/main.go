package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"pratorinaldo/internal/adapter/api"
	"pratorinaldo/internal/adapter/api/handler"
	apimiddleware "pratorinaldo/internal/adapter/api/middleware"
	"pratorinaldo/internal/adapter/api/router"
	"pratorinaldo/internal/adapter/repository"
	"pratorinaldo/internal/infrastructure/firebase"
	"pratorinaldo/internal/infrastructure/websocket"
	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	articleRepo := repository.NewFirestoreArticleRepository(firestoreClient)
	forumRepo := repository.NewFirestoreForumRepository(firestoreClient)
	marketplaceRepo := repository.NewFirestoreMarketplaceRepository(firestoreClient)
	serviceProfileRepo := repository.NewFirestoreServiceProfileRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	eventRepo := repository.NewFirestoreEventRepository(firestoreClient)
	proposalRepo := repository.NewFirestoreProposalRepository(firestoreClient)
	moderationRepo := repository.NewFirestoreModerationRepository(firestoreClient)

	// Every persisted notification is also pushed to the recipient's
	// websocket channel.
	notificationRepo := repository.NewNotifyingNotificationRepository(
		repository.NewFirestoreNotificationRepository(firestoreClient),
		wsManager.SendToUser,
	)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	devTokenIssuer := firebase.NewDevTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)

	authUseCase := usecase.NewAuthUseCase(userRepo, notificationRepo, firebaseAuthClient, cfg.DefaultTenant)
	userUseCase := usecase.NewUserUseCase(userRepo, notificationRepo)
	articleUseCase := usecase.NewArticleUseCase(articleRepo, moderationRepo, userRepo)
	forumUseCase := usecase.NewForumUseCase(forumRepo, userRepo, wsManager, websocket.CategoryRoom, websocket.ThreadRoom)
	marketplaceUseCase := usecase.NewMarketplaceUseCase(marketplaceRepo, moderationRepo, userRepo)
	serviceProfileUseCase := usecase.NewServiceProfileUseCase(serviceProfileRepo, moderationRepo, userRepo)
	conversationUseCase := usecase.NewConversationUseCase(conversationRepo, marketplaceRepo, userRepo, wsManager, websocket.ConversationRoom)
	eventUseCase := usecase.NewEventUseCase(eventRepo, userRepo, wsManager, websocket.EventsRoom)
	proposalUseCase := usecase.NewProposalUseCase(proposalRepo, userRepo, notificationRepo, wsManager, websocket.ProposalsRoom)
	moderationUseCase := usecase.NewModerationUseCase(moderationRepo, marketplaceRepo, serviceProfileRepo, articleRepo, userRepo, notificationRepo)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userRepo)
	feedUseCase := usecase.NewFeedUseCase(articleRepo, eventRepo, marketplaceRepo, proposalRepo)

	// Conversation rooms are participants-only; tenant-wide rooms
	// (proposals, events, categories) are open to any connected client.
	wsManager.Authorize = func(ctx context.Context, userID, roomName string) error {
		if conversationID, ok := strings.CutPrefix(roomName, "conversation:"); ok {
			return conversationUseCase.AuthorizeRoom(ctx, userID, conversationID)
		}
		return nil
	}
	wsManager.SendMessage = func(ctx context.Context, userID, conversationID, content, tempID string) error {
		_, err := conversationUseCase.SendMessage(ctx, userID, usecase.SendMessageInput{
			ConversationID: conversationID,
			Content:        content,
			TempID:         tempID,
		})
		return err
	}
	wsManager.MarkRead = conversationUseCase.MarkRead
	wsManager.SetEnricher("messages", conversationUseCase.EnrichMessage)

	notificationUseCase.StartCleanupRoutine(ctx)

	handler.Setup(
		cfg.DefaultTenant,
		authUseCase,
		userUseCase,
		feedUseCase,
		articleUseCase,
		forumUseCase,
		marketplaceUseCase,
		serviceProfileUseCase,
		conversationUseCase,
		proposalUseCase,
		eventUseCase,
		moderationUseCase,
		notificationUseCase,
	)
	handler.SetupDevTokenHandler(devTokenIssuer, userRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	verifiers := []apimiddleware.TokenVerifier{firebaseAuthClient}
	if cfg.Environment == "development" {
		verifiers = append([]apimiddleware.TokenVerifier{devTokenIssuer}, verifiers...)
	}
	authMiddleware := apimiddleware.NewAuthMiddleware(verifiers...)
	roleMiddleware := apimiddleware.NewRoleMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware, roleMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)
	router.SetupDevRouter(e, cfg.Environment)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
