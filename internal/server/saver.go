package server

import (
	"context"
	"path/filepath"
	"sync"
)

// browserLocation is reported as the save location for web downloads
const browserLocation = "your browser's downloads"

// responseSaver keeps the reel in memory so the handler can send it as an
// attachment once the attempt has finished
type responseSaver struct {
	mu       sync.Mutex
	filename string
	data     []byte
}

func (r *responseSaver) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filename = filepath.Base(filename)
	r.data = data
	return browserLocation, nil
}

func (r *responseSaver) file() (string, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filename, r.data
}
