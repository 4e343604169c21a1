package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"reelgrab/pkg/config"
	"reelgrab/pkg/errors"
	"reelgrab/pkg/instagram"
	"reelgrab/pkg/logger"
)

// Options wires an Orchestrator to its collaborators
type Options struct {
	Extractor Extractor
	Fetcher   AssetFetcher
	Saver     FileSaver
	Clipboard ClipboardReader
	Notifier  Notifier

	// Filename defaults to config.DefaultFilename
	Filename string
	Logger   logger.Logger
}

// Orchestrator runs reel downloads one at a time
type Orchestrator struct {
	extractor Extractor
	fetcher   AssetFetcher
	saver     FileSaver
	clipboard ClipboardReader
	notifier  Notifier
	filename  string
	logger    logger.Logger

	busy   atomic.Bool
	status *statusHub
}

// New creates an Orchestrator
func New(opts Options) (*Orchestrator, error) {
	if opts.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("asset fetcher is required")
	}

	o := &Orchestrator{
		extractor: opts.Extractor,
		fetcher:   opts.Fetcher,
		saver:     opts.Saver,
		clipboard: opts.Clipboard,
		notifier:  opts.Notifier,
		filename:  opts.Filename,
		logger:    opts.Logger,
		status:    newStatusHub(),
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	if o.filename == "" {
		o.filename = config.DefaultFilename
	}
	if o.logger == nil {
		o.logger = logger.GetLogger()
	}
	return o, nil
}

// DownloadReel downloads the reel at rawURL with the configured saver and
// notifier. The outcome is reported only through notifications.
func (o *Orchestrator) DownloadReel(ctx context.Context, rawURL string) {
	o.DownloadReelWith(ctx, rawURL, nil, nil)
}

// DownloadReelWith is DownloadReel with per call collaborators. A nil saver
// or notifier falls back to the configured one. It returns false when the
// call was ignored because another attempt is in flight.
func (o *Orchestrator) DownloadReelWith(ctx context.Context, rawURL string, saver FileSaver, notifier Notifier) bool {
	if !o.busy.CompareAndSwap(false, true) {
		o.logger.Debug("download ignored, another attempt is in flight")
		return false
	}
	published := false
	defer func() {
		// release the guard before subscribers can see Idle and resubmit
		o.busy.Store(false)
		if published {
			o.status.update(func(s *Status) {
				s.State = Idle
			})
		}
	}()

	if saver == nil {
		saver = o.saver
	}
	if notifier == nil {
		notifier = o.notifier
	}

	reelURL, verr := validate(rawURL)
	if verr != nil {
		o.logger.DebugWithFields("rejected reel URL", map[string]interface{}{
			"input": rawURL,
			"error": verr.Message,
		})
		o.finishWithError(notifier, verr)
		return true
	}

	if saver == nil {
		o.finishWithError(notifier, errors.New(errors.ErrorTypeStorage, errors.MsgStorage))
		return true
	}

	o.status.update(func(s *Status) {
		*s = Status{State: InFlight}
	})
	published = true

	log := o.logger.WithField("post_url", reelURL)
	if code, ok := instagram.Shortcode(reelURL); ok {
		canonical := instagram.GetPostURL(code)
		if instagram.IsReel(reelURL) {
			canonical = instagram.GetReelURL(code)
		}
		log = log.WithFields(map[string]interface{}{
			"shortcode":     code,
			"canonical_url": canonical,
		})
	}
	log.Info("Starting reel download")

	a := &attempt{url: reelURL, saver: saver, notifier: notifier}
	for _, st := range o.steps() {
		if err := st.run(ctx, a); err != nil {
			o.logFailure(log, st.name, err)
			logger.LogDownload(log, reelURL, o.filename, len(a.data), err)
			o.finishWithError(notifier, err)
			return true
		}
	}

	logger.LogDownload(log, reelURL, a.location, len(a.data), nil)
	o.status.update(func(s *Status) {
		s.LastSuccess = MsgSuccess
		s.Location = a.location
		s.LastError, s.ErrorType = "", ""
	})
	notifier.Notify(Notification{
		Kind:     KindSuccess,
		Message:  MsgSuccess,
		Location: a.location,
		Size:     len(a.data),
	})
	return true
}

// Paste reads the clipboard for the caller's input. It is ignored while a
// download is in flight. On failure the user is notified and ok is false,
// so the caller keeps its current input.
func (o *Orchestrator) Paste(ctx context.Context) (text string, ok bool) {
	if o.busy.Load() {
		return "", false
	}

	if o.clipboard == nil {
		o.notifyClipboardError(fmt.Errorf("no clipboard available"))
		return "", false
	}

	text, err := o.clipboard.ReadText(ctx)
	if err != nil {
		o.notifyClipboardError(err)
		return "", false
	}
	return text, true
}

func (o *Orchestrator) notifyClipboardError(cause error) {
	o.logger.WithError(cause).Warn("Clipboard read failed")
	o.notifier.Notify(Notification{
		Kind:      KindError,
		Message:   errors.MsgClipboard,
		ErrorType: errors.ErrorTypeClipboard,
	})
}

// Busy reports whether an attempt is in flight
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Status returns a snapshot of the current status
func (o *Orchestrator) Status() Status {
	return o.status.get()
}

// Subscribe returns a channel carrying the latest status, starting with the
// current one, and a func that ends the subscription.
func (o *Orchestrator) Subscribe() (<-chan Status, func()) {
	return o.status.subscribe()
}

// Filename returns the name reels are saved under
func (o *Orchestrator) Filename() string {
	return o.filename
}

func (o *Orchestrator) finishWithError(notifier Notifier, err *errors.Error) {
	o.status.update(func(s *Status) {
		s.LastError = err.Message
		s.ErrorType = err.Type
		s.LastSuccess, s.Location = "", ""
	})
	notifier.Notify(Notification{
		Kind:      KindError,
		Message:   err.Message,
		ErrorType: err.Type,
	})
}

func (o *Orchestrator) logFailure(log logger.Logger, stepName string, err *errors.Error) {
	fields := map[string]interface{}{
		"step":       stepName,
		"error_type": string(err.Type),
	}
	if err.Cause != nil {
		fields["cause"] = err.Cause.Error()
	}
	if err.Code != 0 {
		fields["status"] = err.Code
	}

	switch err.Type {
	case errors.ErrorTypeNetwork, errors.ErrorTypeStorage:
		log.ErrorWithFields(err.Message, fields)
	default:
		log.WarnWithFields(err.Message, fields)
	}
}
