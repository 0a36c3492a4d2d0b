package engine

// --- Corpus types ---

// TextItem is one unit of analyzable text: a comment or a subtitle line.
// Timestamp is a unix epoch for comments and a millisecond offset into the
// video for subtitle lines. Immutable once created.
type TextItem struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// CorpusKind tags where a TextItem sequence came from.
type CorpusKind string

const (
	CorpusComments  CorpusKind = "comments"
	CorpusSubtitles CorpusKind = "subtitles"
)

// --- Source metadata types ---

// VideoMeta is the metadata the dashboard shows next to an analysis.
type VideoMeta struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Channel  string `json:"channel,omitempty"`
	URL      string `json:"url"`
	Views    int64  `json:"views,omitempty"`
	Comments int64  `json:"comments,omitempty"`
}

// TrendingVideo is one entry of a trending listing.
type TrendingVideo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
	URL     string `json:"url"`
	Views   string `json:"views,omitempty"` // display string as reported by the source
}

// Corpus is a fetched TextItem sequence plus provenance, the unit stored in
// the fetch cache and handed to an analysis session.
type Corpus struct {
	Kind  CorpusKind `json:"kind"`
	Video VideoMeta  `json:"video"`
	Items []TextItem `json:"items"`
	Lang  string     `json:"lang,omitempty"` // subtitle track language, when known
}
