package domain

// RelEnclosure is the link relation of an entry's attached media resource
const RelEnclosure = "enclosure"

// Link is a single link of a feed entry
type Link struct {
	Rel  string
	Href string
	Type string // mime type, if the feed provides one
}

// FeedEntry represents a single episode listed by a podcast feed
type FeedEntry struct {
	Title string
	Links []Link
}

// Enclosure returns the href of the first link with enclosure relation.
// ok is false if the entry has no such link.
func (e FeedEntry) Enclosure() (href string, ok bool) {
	for _, l := range e.Links {
		if l.Rel == RelEnclosure && l.Href != "" {
			return l.Href, true
		}
	}
	return "", false
}
