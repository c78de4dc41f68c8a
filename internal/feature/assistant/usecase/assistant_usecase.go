// Package usecase はAIアシスタント（チャット・音声合成）のビジネスロジックを提供します。
package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

const (
	// chatXP はアシスタントとの対話1回あたりの付与XPです。
	chatXP = 5

	// maxSpeechRunes は音声合成に渡すテキストの最大文字数です。
	maxSpeechRunes = 500

	// promptTransactionLimit はプロンプトに含める直近取引の件数です。
	promptTransactionLimit = 5
)

// fallbackAnswers はチャットプロバイダー障害時に返す定型応答です。
// 障害時もレスポンスは成功として扱い、fallbackフラグで区別します。
var fallbackAnswers = []string{
	"I'm having trouble reaching my brain right now, but here's a tip: track every expense, no matter how small. Awareness is the first step to saving!",
	"I couldn't process that just now. In the meantime, try the 50/30/20 rule: 50% needs, 30% wants, 20% savings.",
	"Something went wrong on my end. A quick win while I recover: review your biggest spending category this month and set a limit for it.",
}

// UserRepository はユーザーの読み取りを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// GoalRepository は貯蓄目標の読み取りを抽象化します。
type GoalRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]goalentity.SavingsGoal, error)
}

// TransactionRepository は取引履歴の読み取りを抽象化します。
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]financeentity.Transaction, error)
}

// ChatProvider はチャット補完プロバイダーを抽象化します。
type ChatProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer は音声合成プロバイダーを抽象化します。
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// XPService はXP付与を抽象化します。実装はgamificationフィーチャーのユースケースです。
type XPService interface {
	AddXP(ctx context.Context, userID uint, points int, reason string) (levelUp bool, newLevel int, err error)
}

// ChatResult はチャット応答です。Fallbackはプロバイダー障害時にtrueになります。
type ChatResult struct {
	Answer   string
	Fallback bool
}

// assistantUsecase はAIアシスタント操作を実装します。
type assistantUsecase struct {
	users        UserRepository
	goals        GoalRepository
	transactions TransactionRepository
	chat         ChatProvider
	speech       SpeechSynthesizer
	xp           XPService
}

// NewAssistantUsecase はassistantUsecaseの新しいインスタンスを生成します。
// chatとspeechはプロバイダー未設定の構成ではnilを許容します。
func NewAssistantUsecase(users UserRepository, goals GoalRepository, transactions TransactionRepository,
	chat ChatProvider, speech SpeechSynthesizer, xp XPService) *assistantUsecase {
	return &assistantUsecase{
		users:        users,
		goals:        goals,
		transactions: transactions,
		chat:         chat,
		speech:       speech,
		xp:           xp,
	}
}

// Ask は財務スナップショット付きプロンプトでチャットプロバイダーに質問します。
// プロバイダー障害時は定型応答にフォールバックし、エラーは返しません。
// 対話ごとに5XPを付与します（ベストエフォート）。
func (a *assistantUsecase) Ask(ctx context.Context, userID uint, question string) (*ChatResult, error) {
	answer, err := a.generate(ctx, userID, question)
	result := &ChatResult{Answer: answer}
	if err != nil {
		slog.Warn("chat provider failed, falling back to canned answer", "userID", userID, "error", err)
		result.Answer = fallbackAnswers[int(time.Now().UnixNano())%len(fallbackAnswers)]
		result.Fallback = true
	}

	if _, _, err := a.xp.AddXP(ctx, userID, chatXP, "AI chat"); err != nil {
		slog.Warn("failed to award chat XP", "userID", userID, "error", err)
	}
	return result, nil
}

// Speak はテキストを音声合成し、data URI形式のMP3を返します。
// プロバイダー障害はそのままエラーとして伝播します（フォールバックなし）。
func (a *assistantUsecase) Speak(ctx context.Context, text string) (string, error) {
	if a.speech == nil {
		return "", fmt.Errorf("speech synthesis is not configured")
	}

	runes := []rune(text)
	if len(runes) > maxSpeechRunes {
		text = string(runes[:maxSpeechRunes])
	}

	audio, err := a.speech.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}

// AskAndSpeak はチャットと音声合成を連鎖させます。
// ここではチャット障害もエラーとして伝播します。
func (a *assistantUsecase) AskAndSpeak(ctx context.Context, userID uint, question string) (string, string, error) {
	answer, err := a.generate(ctx, userID, question)
	if err != nil {
		return "", "", fmt.Errorf("chat provider: %w", err)
	}

	if _, _, err := a.xp.AddXP(ctx, userID, chatXP, "AI chat"); err != nil {
		slog.Warn("failed to award chat XP", "userID", userID, "error", err)
	}

	audio, err := a.Speak(ctx, answer)
	if err != nil {
		return "", "", fmt.Errorf("speech provider: %w", err)
	}
	return answer, audio, nil
}

func (a *assistantUsecase) generate(ctx context.Context, userID uint, question string) (string, error) {
	if a.chat == nil {
		return "", fmt.Errorf("chat provider is not configured")
	}

	prompt, err := a.buildPrompt(ctx, userID, question)
	if err != nil {
		return "", err
	}
	return a.chat.Generate(ctx, prompt)
}

// buildPrompt はペルソナ・財務スナップショット・質問からプロンプトを組み立てます。
func (a *assistantUsecase) buildPrompt(ctx context.Context, userID uint, question string) (string, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	goals, err := a.goals.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	transactions, err := a.transactions.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are MoneyMate, a friendly personal-finance coach. ")
	b.WriteString("Answer in 2-4 short sentences, encouraging and practical. ")
	b.WriteString("Use the user's data below when relevant.\n\n")

	fmt.Fprintf(&b, "User: %s (level %d, %d XP, %d-day streak)\n", user.Name, user.Level, user.XP, user.Streak)
	fmt.Fprintf(&b, "Balance: %.2f %s, monthly budget: %.2f, total saved: %.2f\n",
		user.CurrentBalance, user.Preferences.Currency, user.MonthlyBudget, user.TotalSaved)

	for _, g := range goals {
		if g.IsCompleted {
			continue
		}
		fmt.Fprintf(&b, "Goal: %s — %.2f of %.2f by %s\n",
			g.GoalName, g.CurrentSaved, g.TargetAmount, g.TargetDate.Format("2006-01-02"))
	}

	if len(transactions) > 0 {
		b.WriteString("Recent transactions:\n")
		limit := len(transactions)
		if limit > promptTransactionLimit {
			limit = promptTransactionLimit
		}
		for _, tx := range transactions[:limit] {
			fmt.Fprintf(&b, "- %s %.2f (%s) %s\n", tx.Type, tx.Amount, tx.Category, tx.Description)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String(), nil
}
