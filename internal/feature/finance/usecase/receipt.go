package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern はレシート上の金額らしい数値列にマッチします。
// 桁区切りカンマと小数点2桁までを許容します（例: "1,234.50"、"599"）。
var amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?`)

// parseReceipt はOCRテキストから課金額と店舗名を推定します。
// 金額はテキスト中の最大値を採用します。合計金額は品目単価より
// 大きいため、ほとんどのレシートでこれが支払額に一致します。
// 店舗名は最初の空でない行を採用します。
func parseReceipt(text string) (float64, string) {
	var max float64
	for _, m := range amountPattern.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}

	merchant := ""
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			merchant = trimmed
			break
		}
	}
	return max, merchant
}
