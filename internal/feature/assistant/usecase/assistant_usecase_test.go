package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// --- mocks ---

type mockUserRepository struct {
	FindByIDFunc func(ctx context.Context, id uint) (*userentity.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*userentity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &userentity.User{
		ID:             id,
		Name:           "Asha",
		XP:             350,
		Level:          1,
		Streak:         3,
		CurrentBalance: 4200,
		MonthlyBudget:  5000,
		TotalSaved:     1200,
		Preferences:    userentity.Preferences{Currency: "INR"},
	}, nil
}

type mockGoalRepository struct {
	goals []goalentity.SavingsGoal
}

func (m *mockGoalRepository) ListByUser(ctx context.Context, userID uint) ([]goalentity.SavingsGoal, error) {
	return m.goals, nil
}

type mockTransactionRepository struct {
	transactions []financeentity.Transaction
}

func (m *mockTransactionRepository) ListByUser(ctx context.Context, userID uint) ([]financeentity.Transaction, error) {
	return m.transactions, nil
}

type mockChatProvider struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *mockChatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "Keep tracking those expenses!", nil
}

type mockSpeechSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)
	texts          []string
}

func (m *mockSpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.texts = append(m.texts, text)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return []byte("mp3-bytes"), nil
}

type mockXPService struct {
	grants []int
	err    error
}

func (m *mockXPService) AddXP(ctx context.Context, userID uint, points int, reason string) (bool, int, error) {
	m.grants = append(m.grants, points)
	return false, 1, m.err
}

// --- tests ---

func TestAssistantUsecase_Ask(t *testing.T) {
	t.Run("returns the provider answer and awards XP", func(t *testing.T) {
		chat := &mockChatProvider{}
		xp := &mockXPService{}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, chat, nil, xp)

		result, err := uc.Ask(context.Background(), 1, "How am I doing?")

		require.NoError(t, err, "failed to ask")
		assert.Equal(t, "Keep tracking those expenses!", result.Answer)
		assert.False(t, result.Fallback, "provider answer must not be marked fallback")
		assert.Equal(t, []int{5}, xp.grants, "one chat should grant 5 XP")
	})

	t.Run("builds the prompt from the financial snapshot", func(t *testing.T) {
		chat := &mockChatProvider{}
		goals := &mockGoalRepository{goals: []goalentity.SavingsGoal{
			{GoalName: "Goa trip", TargetAmount: 20000, CurrentSaved: 5000, TargetDate: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)},
			{GoalName: "Done", TargetAmount: 100, CurrentSaved: 100, IsCompleted: true},
		}}
		transactions := &mockTransactionRepository{transactions: []financeentity.Transaction{
			{Type: financeentity.TypeExpense, Amount: 350, Category: "Food", Description: "Lunch"},
		}}
		uc := NewAssistantUsecase(&mockUserRepository{}, goals, transactions, chat, nil, &mockXPService{})

		_, err := uc.Ask(context.Background(), 1, "Can I afford the trip?")

		require.NoError(t, err)
		require.Len(t, chat.prompts, 1)
		prompt := chat.prompts[0]
		assert.Contains(t, prompt, "Asha", "prompt should name the user")
		assert.Contains(t, prompt, "Goa trip", "prompt should include active goals")
		assert.NotContains(t, prompt, "Done", "completed goals are omitted")
		assert.Contains(t, prompt, "Lunch", "prompt should include recent transactions")
		assert.Contains(t, prompt, "Can I afford the trip?", "prompt should end with the question")
	})

	t.Run("caps recent transactions in the prompt", func(t *testing.T) {
		chat := &mockChatProvider{}
		var txs []financeentity.Transaction
		for i := 0; i < 8; i++ {
			txs = append(txs, financeentity.Transaction{
				Type: financeentity.TypeExpense, Amount: float64(i + 1), Category: "Food",
			})
		}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{transactions: txs}, chat, nil, &mockXPService{})

		_, err := uc.Ask(context.Background(), 1, "hi")

		require.NoError(t, err)
		require.Len(t, chat.prompts, 1)
		lines := strings.Count(chat.prompts[0], "- expense")
		assert.Equal(t, 5, lines, "prompt should include at most five transactions")
	})

	t.Run("falls back to a canned answer on provider error", func(t *testing.T) {
		chat := &mockChatProvider{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		xp := &mockXPService{}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, chat, nil, xp)

		result, err := uc.Ask(context.Background(), 1, "hello")

		require.NoError(t, err, "provider failure must not surface as an error")
		assert.True(t, result.Fallback, "fallback flag should be set")
		assert.Contains(t, fallbackAnswers, result.Answer, "answer should be one of the canned replies")
		assert.Equal(t, []int{5}, xp.grants, "XP is still granted on fallback")
	})

	t.Run("falls back when no provider is configured", func(t *testing.T) {
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, nil, nil, &mockXPService{})

		result, err := uc.Ask(context.Background(), 1, "hello")

		require.NoError(t, err)
		assert.True(t, result.Fallback)
	})

	t.Run("XP failure does not break the answer", func(t *testing.T) {
		chat := &mockChatProvider{}
		xp := &mockXPService{err: errors.New("db down")}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, chat, nil, xp)

		result, err := uc.Ask(context.Background(), 1, "hello")

		require.NoError(t, err)
		assert.Equal(t, "Keep tracking those expenses!", result.Answer)
	})
}

func TestAssistantUsecase_Speak(t *testing.T) {
	t.Run("returns a data URI with the encoded audio", func(t *testing.T) {
		speech := &mockSpeechSynthesizer{}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, nil, speech, &mockXPService{})

		out, err := uc.Speak(context.Background(), "Hello there")

		require.NoError(t, err, "failed to synthesize")
		expected := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))
		assert.Equal(t, expected, out)
		assert.Equal(t, []string{"Hello there"}, speech.texts)
	})

	t.Run("truncates long text before synthesis", func(t *testing.T) {
		speech := &mockSpeechSynthesizer{}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, nil, speech, &mockXPService{})

		long := strings.Repeat("あ", 600)
		_, err := uc.Speak(context.Background(), long)

		require.NoError(t, err)
		require.Len(t, speech.texts, 1)
		assert.Equal(t, 500, len([]rune(speech.texts[0])), "text should be cut at 500 runes")
	})

	t.Run("unconfigured synthesizer", func(t *testing.T) {
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, nil, nil, &mockXPService{})

		_, err := uc.Speak(context.Background(), "hi")

		assert.Error(t, err, "should fail without a synthesizer")
	})

	t.Run("synthesizer error propagates", func(t *testing.T) {
		speechErr := errors.New("voice service down")
		speech := &mockSpeechSynthesizer{
			SynthesizeFunc: func(ctx context.Context, text string) ([]byte, error) {
				return nil, speechErr
			},
		}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, nil, speech, &mockXPService{})

		_, err := uc.Speak(context.Background(), "hi")

		assert.ErrorIs(t, err, speechErr)
	})
}

func TestAssistantUsecase_AskAndSpeak(t *testing.T) {
	t.Run("chains chat and synthesis", func(t *testing.T) {
		chat := &mockChatProvider{}
		speech := &mockSpeechSynthesizer{}
		xp := &mockXPService{}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, chat, speech, xp)

		answer, audio, err := uc.AskAndSpeak(context.Background(), 1, "How am I doing?")

		require.NoError(t, err, "failed to ask and speak")
		assert.Equal(t, "Keep tracking those expenses!", answer)
		assert.True(t, strings.HasPrefix(audio, "data:audio/mpeg;base64,"), "audio should be a data URI")
		assert.Equal(t, []string{"Keep tracking those expenses!"}, speech.texts, "the answer is what gets spoken")
		assert.Equal(t, []int{5}, xp.grants)
	})

	t.Run("chat error propagates instead of falling back", func(t *testing.T) {
		chat := &mockChatProvider{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, chat, &mockSpeechSynthesizer{}, &mockXPService{})

		_, _, err := uc.AskAndSpeak(context.Background(), 1, "hello")

		require.Error(t, err, "voice flow must surface chat failures")
		assert.Contains(t, err.Error(), "chat provider")
	})

	t.Run("speech error propagates", func(t *testing.T) {
		speech := &mockSpeechSynthesizer{
			SynthesizeFunc: func(ctx context.Context, text string) ([]byte, error) {
				return nil, errors.New("voice service down")
			},
		}
		uc := NewAssistantUsecase(&mockUserRepository{}, &mockGoalRepository{}, &mockTransactionRepository{}, &mockChatProvider{}, speech, &mockXPService{})

		_, _, err := uc.AskAndSpeak(context.Background(), 1, "hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "speech provider")
	})
}
