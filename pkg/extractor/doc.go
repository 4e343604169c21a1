// Package extractor is the HTTP client for the remote reel extraction
// service and for the host serving the resulting video file.
//
// Extract posts {"url": ...} to the configured endpoint and decodes the
// reply whatever its HTTP status. The msg field is a string when the
// service reports a failure and an object with a "video" list on success.
// FetchAsset then downloads the first video with a plain GET.
//
// Every failure is returned as a *errors.Error of type network, so callers
// can show errors.MsgNetwork and log the wrapped cause.
package extractor
