package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// maxCollisions bounds the "name (n).ext" search
const maxCollisions = 10000

// Manager saves downloaded reels into an output directory
type Manager struct {
	outputDir string
	overwrite bool
	saved     []string
	mu        sync.Mutex
}

// NewManager creates a storage manager, creating outputDir if needed
func NewManager(outputDir string, overwrite bool) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		overwrite: overwrite,
	}, nil
}

// Save writes data under filename and returns the path it ended up at.
// Unless overwriting is enabled an existing file is kept and the new one
// is numbered the way browsers number repeated downloads.
func (m *Manager) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	tmp, err := m.writeTemp(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target, err := m.pickTarget(name)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.saved = append(m.saved, target)
	return target, nil
}

// writeTemp writes data into a temporary file inside the output directory
func (m *Manager) writeTemp(data []byte) (string, error) {
	out, err := os.CreateTemp(m.outputDir, ".reelgrab-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write reel data: %w", err)
	}
	if closeErr != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	return out.Name(), nil
}

// pickTarget returns the path the next save of name should use
func (m *Manager) pickTarget(name string) (string, error) {
	target := filepath.Join(m.outputDir, name)
	if m.overwrite || !exists(target) {
		return target, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxCollisions; i++ {
		candidate := filepath.Join(m.outputDir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many files named %q in %s", name, m.outputDir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns how many reels this manager has saved
func (m *Manager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// LastSaved returns the path of the most recent save
func (m *Manager) LastSaved() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return "", false
	}
	return m.saved[len(m.saved)-1], true
}
