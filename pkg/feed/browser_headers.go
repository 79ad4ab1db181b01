package feed

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"de-DE,de;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
}

// addFeedHeaders adds headers a podcast app sends when polling a feed.
// some hosting platforms reject clients without them.
func addFeedHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
}

// addMediaHeaders adds headers for episode downloads, media is stored as served
func addMediaHeaders(req *http.Request) {
	req.Header.Set("Accept", "audio/*,video/*;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Encoding", "identity")
}
