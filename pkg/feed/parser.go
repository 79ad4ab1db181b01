// Package feed retrieves podcast feeds and downloads episode media
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/podloud/pkg/domain"
)

// Parser fetches and parses RSS/Atom podcast feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser, timeout 0 means no timeout
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Parse fetches the feed and returns its entries in feed order
func (p *Parser) Parse(ctx context.Context, url string) ([]domain.FeedEntry, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	lgr.Printf("[DEBUG] feed %q has %d entries", feed.Title, len(feed.Items))

	entries := make([]domain.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, domain.FeedEntry{Title: item.Title, Links: links(item)})
	}
	return entries, nil
}

// links collects page links as "alternate" and media enclosures as "enclosure".
// gofeed maps both RSS <enclosure> and Atom rel="enclosure" links into Enclosures.
func links(item *gofeed.Item) []domain.Link {
	res := []domain.Link{}
	seen := map[string]bool{}
	for _, l := range append([]string{item.Link}, item.Links...) {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		res = append(res, domain.Link{Rel: "alternate", Href: l})
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		res = append(res, domain.Link{Rel: domain.RelEnclosure, Href: enc.URL, Type: enc.Type})
	}
	return res
}

func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	addFeedHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
