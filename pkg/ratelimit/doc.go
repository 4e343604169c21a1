// Package ratelimit provides the limiters reelgrab uses to pace work.
//
// SlidingWindow paces outbound calls to the extraction service so a busy
// web server cannot hammer it. TokenBucket throttles each browser session
// of the web form.
//
// Both implement Limiter:
//
//	limiter := ratelimit.PerMinute(30)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // ctx cancelled
//	}
package ratelimit
