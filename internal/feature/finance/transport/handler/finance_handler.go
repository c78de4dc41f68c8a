// Package handler は取引台帳のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	dashentity "moneymate_backend/internal/feature/dashboard/domain/entity"
	"moneymate_backend/internal/feature/finance/domain/entity"
	"moneymate_backend/internal/feature/finance/usecase"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// FinanceUsecase はハンドラーが必要とするユースケースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type FinanceUsecase interface {
	RecordTransaction(ctx context.Context, userID uint, in usecase.TransactionInput) (*entity.Transaction, error)
	ScanReceipt(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error)
	ExportCSV(ctx context.Context, userID uint) ([]byte, error)
}

// DashboardProvider は取引登録後に返却するダッシュボード射影を提供します。
type DashboardProvider interface {
	GetDashboard(ctx context.Context, userID uint) (*dashentity.Dashboard, error)
}

// FinanceHandler は収支登録・レシート読み取り・CSVエクスポートのHTTPハンドラーです。
type FinanceHandler struct {
	usecase   FinanceUsecase
	dashboard DashboardProvider
}

// NewFinanceHandler はFinanceHandlerの新しいインスタンスを生成します。
func NewFinanceHandler(u FinanceUsecase, d DashboardProvider) *FinanceHandler {
	return &FinanceHandler{usecase: u, dashboard: d}
}

// RecordIncome はPOST /api/finance/incomeを処理します。
func (h *FinanceHandler) RecordIncome(c *gin.Context) {
	var req api.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Amount is required"))
		return
	}

	h.record(c, usecase.TransactionInput{
		Amount:      req.Amount,
		Type:        entity.TypeIncome,
		Description: req.Note,
	}, "Income added!")
}

// RecordExpense はPOST /api/finance/expenseを処理します。
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	var req api.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Amount is required"))
		return
	}

	h.record(c, usecase.TransactionInput{
		Amount:      req.Amount,
		Type:        entity.TypeExpense,
		Category:    req.Category,
		Description: req.Note,
	}, "Expense added!")
}

// record は取引を登録し、更新後のダッシュボードを含む成功レスポンスを返します。
func (h *FinanceHandler) record(c *gin.Context, in usecase.TransactionInput, message string) {
	userID := c.GetUint(jwtmw.ContextUserID)

	tx, err := h.usecase.RecordTransaction(c.Request.Context(), userID, in)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAmount) || errors.Is(err, usecase.ErrInvalidType) {
			c.JSON(http.StatusBadRequest, api.Error("Amount must be a positive number"))
			return
		}
		slog.Error("failed to record transaction", "userID", userID, "type", in.Type, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to record transaction"))
		return
	}

	dashboard, err := h.dashboard.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to refresh dashboard", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"transaction": tx,
		"dashboard":   dashboard,
	})
}

// ScanReceipt はPOST /api/finance/receiptを処理します。
// multipart/form-dataの"receipt"フィールドで画像を受け取ります。
func (h *FinanceHandler) ScanReceipt(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Receipt image is required"))
		return
	}
	defer file.Close()

	if header.Size > usecase.MaxReceiptSize {
		c.JSON(http.StatusBadRequest, api.Error("Receipt image is too large (max 10MB)"))
		return
	}

	imageData, err := io.ReadAll(io.LimitReader(file, usecase.MaxReceiptSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Failed to read receipt image"))
		return
	}

	tx, err := h.usecase.ScanReceipt(c.Request.Context(), userID, imageData)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyReceipt) {
			c.JSON(http.StatusBadRequest, api.Error("No amount could be read from the receipt"))
			return
		}
		slog.Error("failed to scan receipt", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to scan receipt"))
		return
	}

	dashboard, err := h.dashboard.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to refresh dashboard", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Receipt recorded!",
		"transaction": tx,
		"dashboard":   dashboard,
	})
}

// ExportTransactions はGET /api/transactions/exportを処理し、CSVをダウンロードさせます。
func (h *FinanceHandler) ExportTransactions(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	data, err := h.usecase.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to export transactions", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to export transactions"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
