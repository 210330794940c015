package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"marketsage/internal/models"
)

// stripHTML flattens any markup in article text to plain prose. Some feeds
// embed tags in summaries; the text reaches model prompts, so markup is
// noise there.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// ParseFinnhubNews converts the company-news feed (list of articles with
// headline, summary, unix datetime, source) into at most maxItems NewsItem
// values, preserving upstream ordering.
func ParseFinnhubNews(raw []byte, maxItems int) []models.NewsItem {
	var articles []struct {
		Headline string `json:"headline"`
		Summary  string `json:"summary"`
		Datetime int64  `json:"datetime"`
		Source   string `json:"source"`
	}
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil
	}

	items := make([]models.NewsItem, 0, maxItems)
	for _, a := range articles {
		if len(items) >= maxItems {
			break
		}
		text := a.Summary
		if text == "" {
			text = a.Headline
		}
		if text == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Summary:     stripHTML(text),
			PublishedAt: time.Unix(a.Datetime, 0).UTC().Format("2006-01-02 15:04"),
			Source:      a.Source,
		})
	}
	return items
}

// ParseYahooNews converts the body-wrapped article feed, keeping the `text`
// field of each article.
func ParseYahooNews(raw []byte, maxItems int) []models.NewsItem {
	var doc struct {
		Body []struct {
			Text   string `json:"text"`
			Time   string `json:"time"`
			Source string `json:"source"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	items := make([]models.NewsItem, 0, maxItems)
	for _, a := range doc.Body {
		if len(items) >= maxItems {
			break
		}
		if a.Text == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Summary:     stripHTML(a.Text),
			PublishedAt: a.Time,
			Source:      a.Source,
		})
	}
	return items
}

// FormatNews renders news items for model context.
func FormatNews(items []models.NewsItem) string {
	if len(items) == 0 {
		return "No recent news available."
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("Source: %s\nPublished: %s\nSummary: %s\n---",
			item.Source, item.PublishedAt, item.Summary))
	}
	return strings.Join(parts, "\n")
}
