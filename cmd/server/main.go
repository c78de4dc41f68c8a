package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"moneymate_backend/internal/app/di"
	"moneymate_backend/internal/app/router"
	analyticshandler "moneymate_backend/internal/feature/analytics/transport/handler"
	analyticsusecase "moneymate_backend/internal/feature/analytics/usecase"
	"moneymate_backend/internal/feature/assistant/adapters/elevenlabs"
	"moneymate_backend/internal/feature/assistant/adapters/gemini"
	assistanthandler "moneymate_backend/internal/feature/assistant/transport/handler"
	assistantusecase "moneymate_backend/internal/feature/assistant/usecase"
	authadapters "moneymate_backend/internal/feature/auth/adapters"
	"moneymate_backend/internal/feature/auth/adapters/google"
	authhandler "moneymate_backend/internal/feature/auth/transport/handler"
	authusecase "moneymate_backend/internal/feature/auth/usecase"
	dashboardhandler "moneymate_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "moneymate_backend/internal/feature/dashboard/usecase"
	financeadapters "moneymate_backend/internal/feature/finance/adapters"
	"moneymate_backend/internal/feature/finance/adapters/vision"
	financehandler "moneymate_backend/internal/feature/finance/transport/handler"
	financeusecase "moneymate_backend/internal/feature/finance/usecase"
	gamificationadapters "moneymate_backend/internal/feature/gamification/adapters"
	gamificationhandler "moneymate_backend/internal/feature/gamification/transport/handler"
	gamificationusecase "moneymate_backend/internal/feature/gamification/usecase"
	savingsadapters "moneymate_backend/internal/feature/savings/adapters"
	savingshandler "moneymate_backend/internal/feature/savings/transport/handler"
	savingsusecase "moneymate_backend/internal/feature/savings/usecase"
	"moneymate_backend/internal/platform/cache"
	infradb "moneymate_backend/internal/platform/db"
	platformhttp "moneymate_backend/internal/platform/http"
	jwtmw "moneymate_backend/internal/platform/jwt"
	infraredis "moneymate_backend/internal/platform/redis"
	"moneymate_backend/internal/shared/ratelimiter"
)

const tokenLifetime = 30 * 24 * time.Hour

func main() {
	// .envがあれば読み込む（本番では環境変数を直接設定する）
	_ = godotenv.Load()

	ctx := context.Background()

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	badgeRepo := gamificationadapters.NewBadgeMySQL(db)
	txRepo := financeadapters.NewTransactionMySQL(db)
	goalRepo := savingsadapters.NewGoalMySQL(db)

	// 外部プロバイダー（未設定の構成ではnilのまま動作します）
	limiter := ratelimiter.NewRateLimiter(60, time.Minute)

	var identity authusecase.IdentityVerifier
	if v := google.NewVerifier(); v != nil {
		identity = v
	}

	var chat assistantusecase.ChatProvider
	if c, err := gemini.NewGeminiChat(ctx, limiter); err != nil {
		slog.Warn("Gemini unavailable, chat will use canned fallbacks", "error", err)
	} else {
		chat = c
	}

	var speech assistantusecase.SpeechSynthesizer
	elCfg := elevenlabs.LoadConfig()
	if elCfg.APIKey != "" {
		speech = elevenlabs.NewElevenLabsSpeech(elCfg, platformhttp.NewHTTPClient(elCfg.Timeout), limiter)
	} else {
		slog.Warn("ELEVENLABS_API_KEY is not set, voice synthesis disabled")
	}

	var scanner financeusecase.ReceiptScanner
	if os.Getenv("ENABLE_RECEIPT_SCAN") == "true" {
		if s, err := vision.NewVisionReceiptScanner(ctx); err != nil {
			slog.Warn("Vision unavailable, receipt scanning disabled", "error", err)
		} else {
			scanner = s
			defer func() {
				if err := s.Close(); err != nil {
					slog.Warn("failed to close vision client", "error", err)
				}
			}()
		}
	}

	// Usecase
	gamUC := gamificationusecase.NewGamificationUsecase(userRepo, badgeRepo)
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), tokenLifetime)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtGen, gamUC, gamUC, identity, goalRepo)
	dashboardUC := dashboardusecase.NewDashboardUsecase(userRepo, txRepo, goalRepo, badgeRepo)
	analyticsUC := analyticsusecase.NewAnalyticsUsecase(userRepo, txRepo, goalRepo, badgeRepo)

	// アナリティクスをRedisキャッシュでラップ（台帳書き込み時に失効されます）
	cachedAnalytics := cache.NewCachingAnalytics(rdb, 5*time.Minute, analyticsUC, "analytics")

	financeUC := financeusecase.NewFinanceUsecase(userRepo, txRepo, goalRepo, gamUC, cachedAnalytics, scanner)
	savingsUC := savingsusecase.NewSavingsUsecase(goalRepo)
	assistantUC := assistantusecase.NewAssistantUsecase(userRepo, goalRepo, txRepo, chat, speech, gamUC)

	// Handler
	handlers := router.Handlers{
		Auth:         authhandler.NewAuthHandler(authUC),
		Gamification: gamificationhandler.NewGamificationHandler(gamUC),
		Finance:      financehandler.NewFinanceHandler(financeUC, dashboardUC),
		Savings:      savingshandler.NewSavingsHandler(savingsUC, dashboardUC),
		Dashboard:    dashboardhandler.NewDashboardHandler(dashboardUC),
		Analytics:    analyticshandler.NewAnalyticsHandler(cachedAnalytics),
		Assistant:    assistanthandler.NewAssistantHandler(assistantUC),
	}

	// ルータ生成
	r := router.NewRouter(handlers)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
