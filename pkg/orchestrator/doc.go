// Package orchestrator runs a single reel download from pasted link to
// saved file.
//
// An attempt is a fixed pipeline: validate the link, ask the extraction
// service for the video, resolve its direct URL, fetch the bytes and hand
// them to a FileSaver. The first failing step ends the attempt and is
// reported as exactly one error Notification. Nothing is retried.
//
// An Orchestrator runs one attempt at a time. Calls made while an attempt
// is in flight are ignored without side effects, and the in-flight flag is
// always released when the attempt ends. Presentation layers read the
// Idle/InFlight state through Status or Subscribe.
//
//	orch, err := orchestrator.New(orchestrator.Options{
//	    Extractor: client,
//	    Fetcher:   client,
//	    Saver:     manager,
//	    Clipboard: clipboard.NewSystemReader(),
//	    Notifier:  notifier,
//	})
//	orch.DownloadReel(ctx, "https://www.instagram.com/reels/C1a2b3c4d5/")
package orchestrator
