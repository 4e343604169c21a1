package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"reelgrab/pkg/extractor"
)

type fakeExtractor struct {
	calls   int32
	urls    []string
	mu      sync.Mutex
	resp    *extractor.ExtractResponse
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeExtractor) Extract(ctx context.Context, reelURL string) (*extractor.ExtractResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.urls = append(f.urls, reelURL)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeExtractor) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

type fakeFetcher struct {
	calls int32
	urls  []string
	mu    sync.Mutex
	data  []byte
	err   error
}

func (f *fakeFetcher) FetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.urls = append(f.urls, assetURL)
	f.mu.Unlock()
	return f.data, f.err
}

func (f *fakeFetcher) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

type savedFile struct {
	filename string
	data     []byte
}

type fakeSaver struct {
	mu    sync.Mutex
	saves []savedFile
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saves = append(f.saves, savedFile{filename: filename, data: data})
	return "/downloads/" + filename, nil
}

func (f *fakeSaver) Saves() []savedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]savedFile, len(f.saves))
	copy(out, f.saves)
	return out
}

type fakeClipboard struct {
	text string
	err  error
}

func (f fakeClipboard) ReadText(ctx context.Context) (string, error) {
	return f.text, f.err
}

func successResponse(videoURL string) *extractor.ExtractResponse {
	return &extractor.ExtractResponse{
		Success: true,
		Msg:     extractor.Message{Videos: []extractor.Descriptor{{Video: videoURL}}},
	}
}
