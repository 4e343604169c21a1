package extractor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrab/internal/testutil"
	"reelgrab/pkg/config"
	"reelgrab/pkg/errors"
	"reelgrab/pkg/logger"
)

const reelURL = "https://www.instagram.com/reels/C1a2b3c4d5/"

func newTestClient(t *testing.T, mock *testutil.MockExtractionServer) (*Client, *logger.TestLogger) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Extraction.Endpoint = mock.Endpoint()
	cfg.Extraction.RequestsPerMinute = 0
	cfg.Extraction.Timeout = 5 * time.Second
	cfg.Download.Timeout = 5 * time.Second

	log := logger.NewTestLogger()
	return NewClient(cfg.Extraction, cfg.Download, log), log
}

func TestExtractSuccess(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()

	client, _ := newTestClient(t, mock)

	resp, err := client.Extract(context.Background(), reelURL)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	u, ok := resp.FirstVideoURL()
	require.True(t, ok)
	assert.Equal(t, mock.VideoURL(), u)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, reelURL, calls[0].URL)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.Empty(t, calls[0].Authorization)
}

func TestExtractSendsBearerToken(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()

	client, _ := newTestClient(t, mock)
	client.SetAPIToken("s3cret")

	_, err := client.Extract(context.Background(), reelURL)
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", mock.Calls()[0].Authorization)
}

func TestExtractRemoteFailureIsNotAnError(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetRemoteFailure("This reel is private")

	client, _ := newTestClient(t, mock)

	resp, err := client.Extract(context.Background(), reelURL)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "This reel is private", resp.ErrorMessage())
}

func TestExtractHonorsJSONWhateverTheStatus(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetExtractResponse(http.StatusInternalServerError, `{"success":false,"msg":"Upstream blocked"}`)

	client, _ := newTestClient(t, mock)

	resp, err := client.Extract(context.Background(), reelURL)
	require.NoError(t, err)
	assert.Equal(t, "Upstream blocked", resp.ErrorMessage())
}

func TestExtractNonJSONIsNetworkError(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetExtractResponse(http.StatusBadGateway, "<html>bad gateway</html>")

	client, log := newTestClient(t, mock)

	_, err := client.Extract(context.Background(), reelURL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork))

	typed, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.MsgNetwork, typed.Message)
	assert.Equal(t, http.StatusBadGateway, typed.Code)
	assert.True(t, log.HasMessage("failed to parse extraction response"))
}

func TestExtractTransportFailure(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	client, _ := newTestClient(t, mock)
	mock.Close()

	_, err := client.Extract(context.Background(), reelURL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
}

func TestExtractCancelledWhileRateLimited(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()

	cfg := config.DefaultConfig()
	cfg.Extraction.Endpoint = mock.Endpoint()
	cfg.Extraction.RequestsPerMinute = 1
	client := NewClient(cfg.Extraction, cfg.Download, logger.NewNopLogger())

	_, err := client.Extract(context.Background(), reelURL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Extract(ctx, reelURL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
	assert.Equal(t, 1, mock.ExtractCount())
}

func TestFetchAsset(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()

	client, _ := newTestClient(t, mock)

	data, err := client.FetchAsset(context.Background(), mock.VideoURL())
	require.NoError(t, err)
	assert.Equal(t, testutil.DefaultVideo, data)
	assert.Equal(t, 1, mock.VideoCount())
}

func TestFetchAssetBadStatus(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetVideoResponse(http.StatusForbidden, nil)

	client, _ := newTestClient(t, mock)

	_, err := client.FetchAsset(context.Background(), mock.VideoURL())
	require.Error(t, err)

	typed, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeNetwork, typed.Type)
	assert.Equal(t, http.StatusForbidden, typed.Code)
}

func TestFetchAssetSizeLimit(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetVideoResponse(http.StatusOK, make([]byte, 4096))

	cfg := config.DefaultConfig()
	cfg.Download.MaxFileSize = 1024
	client := NewClient(cfg.Extraction, cfg.Download, logger.NewNopLogger())

	_, err := client.FetchAsset(context.Background(), mock.VideoURL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
}

func TestFetchAssetTimeout(t *testing.T) {
	mock := testutil.NewMockExtractionServer()
	defer mock.Close()
	mock.SetDelay("/videos/", 300*time.Millisecond)

	cfg := config.DefaultConfig()
	cfg.Download.Timeout = 50 * time.Millisecond
	client := NewClient(cfg.Extraction, cfg.Download, logger.NewNopLogger())

	_, err := client.FetchAsset(context.Background(), mock.VideoURL())
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
}
