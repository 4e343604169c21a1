package orchestrator

import (
	"context"
	"strings"

	"reelgrab/pkg/errors"
	"reelgrab/pkg/extractor"
	"reelgrab/pkg/instagram"
)

// attempt carries the values produced by each pipeline step
type attempt struct {
	url      string
	response *extractor.ExtractResponse
	videoURL string
	data     []byte
	location string

	saver    FileSaver
	notifier Notifier
}

// step is one stage of a download. A non-nil error ends the attempt.
type step struct {
	name string
	run  func(ctx context.Context, a *attempt) *errors.Error
}

// validate trims the input and checks it is a reel or post link
func validate(raw string) (string, *errors.Error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New(errors.ErrorTypeValidation, errors.MsgEmptyURL)
	}
	if !instagram.IsValidReelURL(trimmed) {
		return "", errors.New(errors.ErrorTypeValidation, errors.MsgInvalidURL)
	}
	return trimmed, nil
}

// steps returns the network half of the pipeline in order
func (o *Orchestrator) steps() []step {
	return []step{
		{name: "extract", run: o.extract},
		{name: "resolve", run: o.resolveAsset},
		{name: "fetch", run: o.fetchAsset},
		{name: "persist", run: o.persist},
	}
}

// extract asks the service to resolve the reel
func (o *Orchestrator) extract(ctx context.Context, a *attempt) *errors.Error {
	resp, err := o.extractor.Extract(ctx, a.url)
	if err != nil {
		return asType(err, errors.ErrorTypeNetwork, errors.MsgNetwork)
	}
	if resp == nil {
		return errors.New(errors.ErrorTypeNetwork, errors.MsgNetwork)
	}
	a.response = resp
	return nil
}

// resolveAsset turns the service reply into a video URL. The user is told
// the download started once there is something to download.
func (o *Orchestrator) resolveAsset(_ context.Context, a *attempt) *errors.Error {
	resp := a.response
	if !resp.Success {
		msg := resp.ErrorMessage()
		if strings.TrimSpace(msg) == "" {
			msg = errors.MsgRemoteDefault
		}
		return errors.New(errors.ErrorTypeRemote, msg)
	}

	videoURL, ok := resp.FirstVideoURL()
	if !ok {
		return errors.New(errors.ErrorTypeMissingAsset, errors.MsgMissingAsset)
	}
	a.videoURL = videoURL

	a.notifier.Notify(Notification{Kind: KindInfo, Message: MsgStarted})
	return nil
}

// fetchAsset downloads the resolved video
func (o *Orchestrator) fetchAsset(ctx context.Context, a *attempt) *errors.Error {
	data, err := o.fetcher.FetchAsset(ctx, a.videoURL)
	if err != nil {
		return asType(err, errors.ErrorTypeNetwork, errors.MsgNetwork)
	}
	a.data = data
	return nil
}

// persist hands the bytes to the host file saver
func (o *Orchestrator) persist(ctx context.Context, a *attempt) *errors.Error {
	location, err := a.saver.Save(ctx, o.filename, a.data)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeStorage, errors.MsgStorage, err)
	}
	a.location = location
	return nil
}

// asType keeps a typed error of the wanted type and wraps anything else
func asType(err error, t errors.ErrorType, msg string) *errors.Error {
	if typed, ok := errors.As(err); ok && typed.Type == t {
		return typed
	}
	return errors.Wrap(t, msg, err)
}
