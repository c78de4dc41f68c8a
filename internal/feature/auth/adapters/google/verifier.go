// Package google はGoogle IDトークンの検証クライアントを提供します。
package google

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/idtoken"

	"moneymate_backend/internal/feature/auth/usecase"
)

// Verifier はGoogleのidtokenライブラリでIDトークンを検証します。
type Verifier struct {
	clientID string
}

// VerifierがIdentityVerifierを実装していることをコンパイル時に検証します。
var _ usecase.IdentityVerifier = (*Verifier)(nil)

// NewVerifier は環境変数 GOOGLE_CLIENT_ID からVerifierの新しいインスタンスを生成します。
// クライアントIDが未設定の場合はnilを返し、Googleサインインは無効になります。
func NewVerifier() *Verifier {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return nil
	}
	return &Verifier{clientID: clientID}
}

// Verify はIDトークンを検証し、ペイロードからユーザー情報を抽出します。
func (v *Verifier) Verify(ctx context.Context, token string) (*usecase.GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("id token validation failed: %w", err)
	}

	ident := &usecase.GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		ident.Name = name
	}
	return ident, nil
}
