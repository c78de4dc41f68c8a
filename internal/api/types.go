// Package api はHTTP層で共有されるリクエスト/レスポンス型を定義します。
package api

// ErrorResponse は失敗レスポンスの共通形式です。
// Successは常にfalseで、Messageに人間可読なエラー内容を格納します。
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error は指定メッセージのErrorResponseを生成します。
func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse はペイロードを持たない成功レスポンスの共通形式です。
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK は指定メッセージのMessageResponseを生成します。
func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// UserSummary は認証レスポンスに含めるユーザーの要約です。
type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak,omitempty"`
}

// SignupRequest はユーザー登録リクエストです。
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest はログインリクエストです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest はパスワード再設定リクエストです。
type ForgotPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest はGoogle IDトークンによるサインインリクエストです。
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// RefreshRequest はリフレッシュトークンによるJWT再発行リクエストです。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest はプロフィール更新リクエストです。空フィールドは無視されます。
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// OnboardingRequest はオンボーディング情報の保存リクエストです。
// 全フィールド任意で、指定されたものだけが反映されます。
type OnboardingRequest struct {
	Name           string   `json:"name"`
	AgeGroup       string   `json:"ageGroup"`
	MonthlyIncome  string   `json:"monthlyIncome"`
	SpendingHabits []string `json:"spendingHabits"`
	TrackingLevel  string   `json:"trackingLevel"`
	SavingGoal     string   `json:"savingGoal"`
	GoalAmount     float64  `json:"goalAmount"`
	GoalDeadline   string   `json:"goalDeadline"`
	AlreadySaved   float64  `json:"alreadySaved"`
	ReminderFreq   string   `json:"reminderFreq"`
	Motivation     []string `json:"motivation"`
}

// PreferencesRequest はユーザー設定の更新リクエストです。
type PreferencesRequest struct {
	MonthlyBudget *float64 `json:"monthlyBudget"`
	Currency      string   `json:"currency"`
	Notifications *bool    `json:"notifications"`
	VoiceEnabled  *bool    `json:"voiceEnabled"`
	Theme         string   `json:"theme"`
}

// IncomeRequest は収入登録リクエストです。
type IncomeRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Note   string  `json:"note"`
}

// ExpenseRequest は支出登録リクエストです。
type ExpenseRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Note     string  `json:"note"`
	Category string  `json:"category"`
}

// NewGoalRequest は貯蓄目標の作成リクエストです。
type NewGoalRequest struct {
	GoalName     string  `json:"goalName" binding:"required"`
	TargetAmount float64 `json:"targetAmount" binding:"required"`
	TargetDate   string  `json:"targetDate"`
	CurrentSaved float64 `json:"currentSaved"`
}

// XPRequest はXP手動付与リクエストです。
type XPRequest struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason"`
}

// QuestionRequest はAIアシスタントへの質問リクエストです。
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// VoiceRequest は音声合成リクエストです。
type VoiceRequest struct {
	Text string `json:"text" binding:"required"`
}
