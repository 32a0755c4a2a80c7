package mockapi

import (
	"fmt"
	"strings"
	"time"
)

// newsCorpusSize is how many articles every query matches.
const newsCorpusSize = 23

type newsItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

type newsResponse struct {
	LastBuildDate string     `json:"lastBuildDate"`
	Total         int        `json:"total"`
	Start         int        `json:"start"`
	Display       int        `json:"display"`
	Items         []newsItem `json:"items"`
}

var newsTopics = []string{
	"quarterly earnings beat expectations",
	"announces new investment plan",
	"shares move on foreign buying",
	"signs supply agreement",
	"named in analyst top picks",
}

// newsCorpus builds the articles for query, newest first. Titles carry the
// query in <b> tags the way the real provider highlights matches.
func newsCorpus(query string, now time.Time) []newsItem {
	query = strings.TrimSpace(query)
	slug := strings.ToLower(strings.ReplaceAll(query, " ", "-"))

	out := make([]newsItem, newsCorpusSize)
	for i := range out {
		pub := now.Add(-time.Duration(i) * 5 * time.Hour)
		out[i] = newsItem{
			Title:        fmt.Sprintf("<b>%s</b> %s (%d)", query, newsTopics[i%len(newsTopics)], i+1),
			Link:         fmt.Sprintf("https://news.example.com/read?id=%s-%d", slug, i+1),
			OriginalLink: fmt.Sprintf("https://press.example.com/%s/%d", slug, i+1),
			Description:  fmt.Sprintf("Report on <b>%s</b> &amp; the market, item %d.", query, i+1),
			PubDate:      pub.Format(time.RFC1123Z),
		}
	}
	return out
}

// searchNews pages the corpus. start is 1-based; sort "sim" reverses the
// date order.
func searchNews(query string, display, start int, sort string, now time.Time) newsResponse {
	items := newsCorpus(query, now)
	if sort == "sim" {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	resp := newsResponse{
		LastBuildDate: now.Format(time.RFC1123Z),
		Total:         len(items),
		Start:         start,
		Display:       display,
		Items:         []newsItem{},
	}
	from := start - 1
	if from >= len(items) {
		resp.Display = 0
		return resp
	}
	to := min(from+display, len(items))
	resp.Items = items[from:to]
	resp.Display = len(resp.Items)
	return resp
}
