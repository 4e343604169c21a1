// Package server is the browser front end: an embedded single page form and
// a small JSON API that runs reel downloads on a bounded worker pool, one
// orchestrator per browser session.
package server
