// Package vision はGoogle Cloud Vision APIを使用したレシートOCRクライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"moneymate_backend/internal/feature/finance/usecase"
)

// VisionReceiptScanner はGoogle Cloud Vision APIを使用してレシート画像からテキストを抽出します。
type VisionReceiptScanner struct {
	client *gvision.ImageAnnotatorClient
}

// VisionReceiptScannerがReceiptScannerを実装していることをコンパイル時に検証します。
var _ usecase.ReceiptScanner = (*VisionReceiptScanner)(nil)

// NewVisionReceiptScanner はADCを使用してVisionReceiptScannerの新しいインスタンスを生成します。
func NewVisionReceiptScanner(ctx context.Context) (*VisionReceiptScanner, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionReceiptScanner{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionReceiptScanner) Close() error {
	return v.client.Close()
}

// DetectText は画像バイト列から全文テキストを抽出します。
// テキストが見つからない場合は空文字列を返します。
func (v *VisionReceiptScanner) DetectText(ctx context.Context, imageData []byte) (string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}

	if resp.Responses[0].Error != nil {
		return "", fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	annotation := resp.Responses[0].FullTextAnnotation
	if annotation == nil {
		return "", nil
	}
	return annotation.Text, nil
}
