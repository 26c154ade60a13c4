package feed

import "time"

const (
	defaultBaseURL     = "https://api-web.nhle.com/v1"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512

	// MediaLinkBase prefixes highlight and recap clip ids.
	MediaLinkBase = "https://players.brightcove.net/6415718365001/EXtG1xJ7H_default/index.html?videoId="
)
