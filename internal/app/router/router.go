// Package router はHTTPルーティングを構成します。
package router

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analyticshandler "moneymate_backend/internal/feature/analytics/transport/handler"
	assistanthandler "moneymate_backend/internal/feature/assistant/transport/handler"
	authhandler "moneymate_backend/internal/feature/auth/transport/handler"
	dashboardhandler "moneymate_backend/internal/feature/dashboard/transport/handler"
	financehandler "moneymate_backend/internal/feature/finance/transport/handler"
	gamificationhandler "moneymate_backend/internal/feature/gamification/transport/handler"
	savingshandler "moneymate_backend/internal/feature/savings/transport/handler"
	"moneymate_backend/internal/platform/http/handler"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *authhandler.AuthHandler
	Gamification *gamificationhandler.GamificationHandler
	Finance      *financehandler.FinanceHandler
	Savings      *savingshandler.SavingsHandler
	Dashboard    *dashboardhandler.DashboardHandler
	Analytics    *analyticshandler.AnalyticsHandler
	Assistant    *assistanthandler.AssistantHandler
}

// NewRouter は全ルートとミドルウェアを構成したGinエンジンを返します。
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	// 導通確認用
	r.GET("/healthz", handler.Health)

	api := r.Group("/api")

	// 認証不要
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/google", h.Auth.GoogleLogin)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// 認証必須のルート
	auth := api.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.GET("/auth/me", h.Auth.Me)
		auth.PATCH("/auth/me", h.Auth.UpdateProfile)
		auth.PATCH("/onboarding", h.Auth.UpdateOnboarding)
		auth.PATCH("/preferences", h.Auth.UpdatePreferences)

		auth.GET("/dashboard", h.Dashboard.GetDashboard)

		auth.POST("/finance/income", h.Finance.RecordIncome)
		auth.POST("/finance/expense", h.Finance.RecordExpense)
		auth.POST("/finance/receipt", h.Finance.ScanReceipt)
		auth.GET("/transactions/export", h.Finance.ExportTransactions)

		auth.POST("/savings/new-goal", h.Savings.CreateGoal)

		auth.POST("/xp", h.Gamification.AddXP)
		auth.POST("/streak", h.Gamification.CheckIn)
		auth.GET("/badges", h.Gamification.Badges)

		auth.GET("/analytics", h.Analytics.GetAnalytics)
		auth.GET("/suggestions", h.Analytics.GetSuggestions)

		auth.POST("/ask-ai", h.Assistant.Ask)
		auth.POST("/voice", h.Assistant.Speak)
		auth.POST("/voice-assistant", h.Assistant.VoiceAssistant)
	}

	return r
}

// corsMiddleware はALLOWED_ORIGINS（カンマ区切り）に基づくCORS設定を返します。
// 未設定の場合は全オリジンを許可します（開発用）。
func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
