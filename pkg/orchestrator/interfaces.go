package orchestrator

import (
	"context"

	"reelgrab/pkg/extractor"
)

// Extractor resolves a reel link through the remote extraction service
type Extractor interface {
	Extract(ctx context.Context, reelURL string) (*extractor.ExtractResponse, error)
}

// AssetFetcher downloads the bytes of a direct video URL
type AssetFetcher interface {
	FetchAsset(ctx context.Context, assetURL string) ([]byte, error)
}

// FileSaver hands downloaded bytes to the host and returns where they went
type FileSaver interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// ClipboardReader reads text from the host clipboard
type ClipboardReader interface {
	ReadText(ctx context.Context) (string, error)
}

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(n Notification)
}
