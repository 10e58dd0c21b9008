// Package feeds defines feed sources, fetched entries, and the relevance
// filtering that decides which entries are worth an AI call.
package feeds

import "time"

// Source is one configured feed.
type Source struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Active bool   `yaml:"active"`
}

// Item is a single fetched feed entry. Link is the natural unique key;
// Published stays the opaque string the source provided.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published string
	Source    string
	Fetched   time.Time
}
