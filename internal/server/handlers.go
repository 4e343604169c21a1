package server

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reelgrab/internal/downloader"
	reelerrors "reelgrab/pkg/errors"
	"reelgrab/pkg/orchestrator"
)

// Messages for replies that never reach the orchestrator
const (
	msgBusy        = "A download is already in progress"
	msgQueueFull   = "The server is busy. Please try again in a moment."
	msgRateLimited = "Too many requests. Please slow down."
	msgBadRequest  = "Request body must be JSON with a url field"
)

// statusFor maps a failure kind to the HTTP status the web form gets
func statusFor(t reelerrors.ErrorType) int {
	switch t {
	case reelerrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case reelerrors.ErrorTypeRemote:
		return http.StatusUnprocessableEntity
	case reelerrors.ErrorTypeMissingAsset:
		return http.StatusNotFound
	case reelerrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := fs.ReadFile(webFS, "web/index.html")
	if err != nil {
		c.String(http.StatusNotFound, "index.html not found")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":   "ok",
			"version":  s.version,
			"uptime":   time.Since(s.started).Round(time.Second).String(),
			"sessions": s.sessions.len(),
			"pool":     s.pool.Stats(),
		},
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    sess.orch.Status(),
	})
}

func (s *Server) handleReel(c *gin.Context) {
	sess := sessionFrom(c)

	var req ReelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Kind:    string(reelerrors.ErrorTypeValidation),
			Message: msgBadRequest,
		})
		return
	}

	if sess.orch.Busy() {
		c.JSON(http.StatusConflict, Response{Message: msgBusy})
		return
	}

	if sess.limiter != nil {
		allowed := sess.limiter.Allow()
		c.Header("X-RateLimit-Remaining", strconv.Itoa(sess.limiter.Remaining()))
		if !allowed {
			c.JSON(http.StatusTooManyRequests, Response{Message: msgRateLimited})
			return
		}
	}

	saver := &responseSaver{}
	recorder := orchestrator.NewRecorder()
	ran := false

	job := downloader.DownloadJob{
		ID:  uuid.NewString(),
		URL: req.URL,
		Run: func(ctx context.Context) error {
			ran = sess.orch.DownloadReelWith(ctx, req.URL, saver, recorder)
			return nil
		},
	}

	results, ok := s.pool.TrySubmit(c.Request.Context(), job)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, Response{Message: msgQueueFull})
		return
	}

	result := <-results
	if result.Error != nil {
		s.replyJobError(c, result.Error)
		return
	}
	if !ran {
		c.JSON(http.StatusConflict, Response{Message: msgBusy})
		return
	}

	if failures := recorder.Errors(); len(failures) > 0 {
		n := failures[0]
		c.JSON(statusFor(n.ErrorType), Response{
			Kind:    string(n.ErrorType),
			Message: n.Message,
		})
		return
	}

	filename, data := saver.file()
	s.logger.WithFields(map[string]interface{}{
		"session": shortID(sess.id),
		"size":    humanize.Bytes(uint64(len(data))),
	}).Debug("Sending reel to browser")

	c.Header("Content-Disposition", contentDisposition(filename))
	c.Header("X-Reel-Message", orchestrator.MsgSuccess)
	c.Data(http.StatusOK, "video/mp4", data)
}

func (s *Server) replyJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, downloader.ErrPoolStopped):
		c.JSON(http.StatusServiceUnavailable, Response{Message: msgQueueFull})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// the browser went away
		c.Status(http.StatusRequestTimeout)
	default:
		s.logger.WithError(err).Error("Download job failed unexpectedly")
		c.JSON(http.StatusInternalServerError, Response{
			Kind:    string(reelerrors.ErrorTypeUnknown),
			Message: reelerrors.MsgNetwork,
		})
	}
}

// contentDisposition builds an RFC 6266 attachment header; non-ASCII names
// are sent as filename* by mime
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": "instagram-reel.mp4"})
}
