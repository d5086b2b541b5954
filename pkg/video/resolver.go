// Package video classifies raw video URLs into embeddable player
// references. YouTube and Vimeo links are rewritten to their player URLs;
// anything else passes through untouched and plays as a direct media
// source.
package video

import "regexp"

type Kind string

const (
	KindYouTube Kind = "youtube"
	KindVimeo   Kind = "vimeo"
	KindFile    Kind = "file"
)

type Embed struct {
	URL  string `json:"url"`
	Kind Kind   `json:"kind"`
}

var (
	youtubeRe = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	vimeoRe   = regexp.MustCompile(`^(?:https?://)?(?:www\.)?vimeo\.com/(\d+)`)
)

// Resolve rewrites YouTube watch/short links and Vimeo links to embeddable
// player URLs keyed by the captured video id. No other normalization is
// performed.
func Resolve(rawURL string) Embed {
	if m := youtubeRe.FindStringSubmatch(rawURL); m != nil {
		return Embed{URL: "https://www.youtube.com/embed/" + m[1], Kind: KindYouTube}
	}
	if m := vimeoRe.FindStringSubmatch(rawURL); m != nil {
		return Embed{URL: "https://player.vimeo.com/video/" + m[1], Kind: KindVimeo}
	}
	return Embed{URL: rawURL, Kind: KindFile}
}
