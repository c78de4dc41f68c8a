package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvHeader はエクスポートCSVの固定ヘッダーです。
var csvHeader = []string{"Amount", "Type", "Category", "Description", "Date"}

// ExportCSV はユーザーの全取引をRFC4180準拠のCSVとして書き出します。
// カテゴリと摘要から絵文字を除去し、日付はISO-8601（UTC）で出力します。
func (f *financeUsecase) ExportCSV(ctx context.Context, userID uint) ([]byte, error) {
	transactions, err := f.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		record := []string{
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Type,
			stripEmojis(t.Category),
			stripEmojis(t.Description),
			t.Date.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// stripEmojis は文字列から絵文字と関連する結合用コードポイントを除去します。
// カテゴリ名はフロントエンドで "🍔 Food" のように絵文字付きで入力されるため、
// 表計算ソフトで扱いやすいようエクスポート時に落とします。
func stripEmojis(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x2700 && r <= 0x27BF: // Dingbats
		case r >= 0xE000 && r <= 0xF8FF: // Private use area
		case r > 0xFFFF: // Astral plane (emoji, symbols)
		case r == 0xFE0F: // Variation selector
		case r == 0x200D: // Zero-width joiner
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
