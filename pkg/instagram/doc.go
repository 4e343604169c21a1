// Package instagram knows which Instagram links reelgrab accepts.
//
// Two shapes are valid, with or without www., over http or https, with an
// optional trailing slash and nothing after it:
//
//	https://www.instagram.com/reels/<id>/
//	https://www.instagram.com/p/<id>/
//
// <id> is one or more ASCII word characters or hyphens. Links are matched as
// given; callers trim whitespace first.
package instagram
