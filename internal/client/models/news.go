package models

type NewsItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// Key is the stable identity of an article: the publisher's link when
// present, else the aggregator link.
func (n NewsItem) Key() string {
	if n.OriginalLink != "" {
		return n.OriginalLink
	}
	return n.Link
}

type NewsPage struct {
	LastBuildDate string     `json:"lastBuildDate,omitempty"`
	Total         int        `json:"total"`
	Start         int        `json:"start"`
	Display       int        `json:"display"`
	Items         []NewsItem `json:"items"`
}

// NewsQuery is one logical news search. Pages of it are requested by index.
type NewsQuery struct {
	Company string
	Hashtag string
	Sort    string
	Size    int
}
