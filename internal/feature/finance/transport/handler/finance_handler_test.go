package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashentity "moneymate_backend/internal/feature/dashboard/domain/entity"
	"moneymate_backend/internal/feature/finance/domain/entity"
	"moneymate_backend/internal/feature/finance/usecase"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// mockFinanceUsecase is a mock implementation of the FinanceUsecase interface.
type mockFinanceUsecase struct {
	RecordTransactionFunc func(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error)
	ScanReceiptFunc       func(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error)
	ExportCSVFunc         func(ctx context.Context, userID uint) ([]byte, error)
}

func (m *mockFinanceUsecase) RecordTransaction(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error) {
	if m.RecordTransactionFunc != nil {
		return m.RecordTransactionFunc(ctx, userID, in)
	}
	return &entity.Transaction{ID: 1, UserID: userID, Amount: in.Amount, Type: in.Type}, nil
}

func (m *mockFinanceUsecase) ScanReceipt(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error) {
	if m.ScanReceiptFunc != nil {
		return m.ScanReceiptFunc(ctx, userID, imageData)
	}
	return &entity.Transaction{ID: 1, UserID: userID, Type: entity.TypeExpense}, nil
}

func (m *mockFinanceUsecase) ExportCSV(ctx context.Context, userID uint) ([]byte, error) {
	if m.ExportCSVFunc != nil {
		return m.ExportCSVFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// mockDashboardProvider returns a fixed dashboard projection.
type mockDashboardProvider struct {
	err error
}

func (m *mockDashboardProvider) GetDashboard(ctx context.Context, userID uint) (*dashentity.Dashboard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dashentity.Dashboard{User: dashentity.UserSummary{Name: "Asha"}}, nil
}

// newFinanceRouter mounts the handler behind a stub auth middleware for user 1.
func newFinanceRouter(h *FinanceHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, uint(1))
	})
	router.POST("/api/finance/income", h.RecordIncome)
	router.POST("/api/finance/expense", h.RecordExpense)
	router.POST("/api/finance/receipt", h.ScanReceipt)
	router.GET("/api/transactions/export", h.ExportTransactions)
	return router
}

func postJSON(router *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFinanceHandler_RecordIncome(t *testing.T) {
	t.Run("success returns the transaction and a fresh dashboard", func(t *testing.T) {
		var got usecase.TransactionInput
		uc := &mockFinanceUsecase{
			RecordTransactionFunc: func(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error) {
				got = in
				return &entity.Transaction{ID: 7, UserID: userID, Amount: in.Amount, Type: in.Type, Category: "Income"}, nil
			},
		}
		router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

		w := postJSON(router, "/api/finance/income", gin.H{"amount": 5000, "note": "Salary"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, entity.TypeIncome, got.Type)
		assert.Equal(t, "Salary", got.Description)

		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Income added!", body["message"])
		assert.NotNil(t, body["transaction"])
		assert.NotNil(t, body["dashboard"])
	})

	t.Run("missing amount fails binding", func(t *testing.T) {
		router := newFinanceRouter(NewFinanceHandler(&mockFinanceUsecase{}, &mockDashboardProvider{}))

		w := postJSON(router, "/api/finance/income", gin.H{"note": "no amount"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid amount from the usecase maps to 400", func(t *testing.T) {
		uc := &mockFinanceUsecase{
			RecordTransactionFunc: func(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error) {
				return nil, usecase.ErrInvalidAmount
			},
		}
		router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

		w := postJSON(router, "/api/finance/income", gin.H{"amount": -50})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Amount must be a positive number", body["message"])
	})

	t.Run("dashboard failure maps to 500", func(t *testing.T) {
		router := newFinanceRouter(NewFinanceHandler(&mockFinanceUsecase{}, &mockDashboardProvider{err: errors.New("db down")}))

		w := postJSON(router, "/api/finance/income", gin.H{"amount": 100})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFinanceHandler_RecordExpense(t *testing.T) {
	var got usecase.TransactionInput
	uc := &mockFinanceUsecase{
		RecordTransactionFunc: func(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error) {
			got = in
			return &entity.Transaction{ID: 2, UserID: userID, Amount: in.Amount, Type: in.Type}, nil
		},
	}
	router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

	w := postJSON(router, "/api/finance/expense", gin.H{"amount": 350, "category": "Food", "note": "Lunch"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.TypeExpense, got.Type)
	assert.Equal(t, "Food", got.Category)

	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Expense added!", body["message"])
}

// postReceipt uploads the given bytes as a multipart "receipt" field.
func postReceipt(router *gin.Engine, field string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile(field, "receipt.jpg")
	_, _ = part.Write(data)
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/finance/receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFinanceHandler_ScanReceipt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotImage []byte
		uc := &mockFinanceUsecase{
			ScanReceiptFunc: func(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error) {
				gotImage = imageData
				return &entity.Transaction{ID: 3, UserID: userID, Amount: 1205.50, Type: entity.TypeExpense}, nil
			},
		}
		router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

		w := postReceipt(router, "receipt", []byte("fake-jpeg-bytes"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte("fake-jpeg-bytes"), gotImage)

		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Receipt recorded!", body["message"])
	})

	t.Run("missing file field", func(t *testing.T) {
		router := newFinanceRouter(NewFinanceHandler(&mockFinanceUsecase{}, &mockDashboardProvider{}))

		w := postReceipt(router, "wrong-field", []byte("data"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unreadable receipt maps to 400", func(t *testing.T) {
		uc := &mockFinanceUsecase{
			ScanReceiptFunc: func(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error) {
				return nil, usecase.ErrEmptyReceipt
			},
		}
		router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

		w := postReceipt(router, "receipt", []byte("blurry"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "No amount could be read from the receipt", body["message"])
	})
}

func TestFinanceHandler_ExportTransactions(t *testing.T) {
	csv := "amount,type,category,description,date\n100,income,Income,,2026-01-01T00:00:00Z\n"
	uc := &mockFinanceUsecase{
		ExportCSVFunc: func(ctx context.Context, userID uint) ([]byte, error) {
			return []byte(csv), nil
		},
	}
	router := newFinanceRouter(NewFinanceHandler(uc, &mockDashboardProvider{}))

	req, _ := http.NewRequest(http.MethodGet, "/api/transactions/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, csv, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}
