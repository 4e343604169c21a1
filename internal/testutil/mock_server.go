// Package testutil holds fakes shared by the package tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultVideo is the payload served for the default video path
var DefaultVideo = []byte("\x00\x00\x00\x18ftypmp42fake reel bytes")

// ExtractionCall records one request received by the extraction endpoint
type ExtractionCall struct {
	URL           string
	Authorization string
	ContentType   string
}

// MockExtractionServer simulates the remote extraction service and the
// video host behind it. By default every extraction succeeds and points at
// VideoURL().
type MockExtractionServer struct {
	server *httptest.Server

	extractCount int32
	videoCount   int32

	mu            sync.RWMutex
	calls         []ExtractionCall
	extractStatus int
	extractBody   string
	videoStatus   int
	videoBody     []byte
	delays        map[string]time.Duration
	hold          chan struct{}
	release       func()
}

// NewMockExtractionServer starts a mock extraction service
func NewMockExtractionServer() *MockExtractionServer {
	m := &MockExtractionServer{
		videoStatus: http.StatusOK,
		videoBody:   DefaultVideo,
		delays:      make(map[string]time.Duration),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/reel", m.handleExtract)
	mux.HandleFunc("/videos/", m.handleVideo)

	m.server = httptest.NewServer(mux)
	return m
}

func (m *MockExtractionServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.extractCount, 1)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &req)

	m.mu.Lock()
	m.calls = append(m.calls, ExtractionCall{
		URL:           req.URL,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	hold := m.hold
	status, raw := m.extractStatus, m.extractBody
	m.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	if delay := m.getDelay("/reel"); delay > 0 {
		time.Sleep(delay)
	}

	if raw == "" {
		raw = fmt.Sprintf(`{"success":true,"msg":{"video":[{"video":%q,"thumbnail":%q}]}}`,
			m.VideoURL(), m.server.URL+"/videos/thumb.jpg")
	}
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(raw))
}

func (m *MockExtractionServer) handleVideo(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.videoCount, 1)

	if delay := m.getDelay("/videos/"); delay > 0 {
		time.Sleep(delay)
	}

	m.mu.RLock()
	status, body := m.videoStatus, m.videoBody
	m.mu.RUnlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	_, _ = w.Write(body)
}

// SetExtractResponse makes the extraction endpoint reply with a raw body
// and status. An empty body restores the default success reply.
func (m *MockExtractionServer) SetExtractResponse(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractStatus = status
	m.extractBody = body
}

// SetRemoteFailure makes the service answer {"success":false,"msg":msg}
func (m *MockExtractionServer) SetRemoteFailure(msg string) {
	data, _ := json.Marshal(map[string]interface{}{"success": false, "msg": msg})
	m.SetExtractResponse(http.StatusOK, string(data))
}

// SetVideoResponse configures the status and payload of the video host
func (m *MockExtractionServer) SetVideoResponse(status int, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videoStatus = status
	m.videoBody = body
}

// SetDelay configures a response delay for "/reel" or "/videos/"
func (m *MockExtractionServer) SetDelay(endpoint string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[endpoint] = delay
}

// Hold blocks extraction requests until the returned release func is called
func (m *MockExtractionServer) Hold() (release func()) {
	ch := make(chan struct{})
	var once sync.Once
	release = func() {
		once.Do(func() {
			m.mu.Lock()
			if m.hold == ch {
				m.hold = nil
			}
			m.mu.Unlock()
			close(ch)
		})
	}

	m.mu.Lock()
	m.hold = ch
	m.release = release
	m.mu.Unlock()
	return release
}

func (m *MockExtractionServer) getDelay(endpoint string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[endpoint]
}

// URL returns the base URL of the mock server
func (m *MockExtractionServer) URL() string {
	return m.server.URL
}

// Endpoint returns the extraction endpoint URL
func (m *MockExtractionServer) Endpoint() string {
	return m.server.URL + "/reel"
}

// VideoURL returns the URL of the default video
func (m *MockExtractionServer) VideoURL() string {
	return m.server.URL + "/videos/reel.mp4"
}

// Calls returns a copy of the recorded extraction requests
func (m *MockExtractionServer) Calls() []ExtractionCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]ExtractionCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// ExtractCount returns the number of extraction requests received
func (m *MockExtractionServer) ExtractCount() int {
	return int(atomic.LoadInt32(&m.extractCount))
}

// VideoCount returns the number of video downloads served
func (m *MockExtractionServer) VideoCount() int {
	return int(atomic.LoadInt32(&m.videoCount))
}

// Close shuts down the mock server
func (m *MockExtractionServer) Close() {
	m.mu.RLock()
	release := m.release
	m.mu.RUnlock()
	if release != nil {
		release()
	}
	m.server.Close()
}
