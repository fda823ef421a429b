package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the travel wiki the scraper reads when no override is set.
const DefaultBaseURL = "https://en.wikivoyage.org"

// ErrNoContent indicates the page parsed but carried no recognizable main
// content container. The sole structural precondition of the scraper.
var ErrNoContent = errors.New("no main content container")

// Fetcher abstracts the single HTTP read so tests can serve canned pages.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Info holds the five text buckets extracted from a destination page.
// Each field is an ordered concatenation of paragraph text and may be empty.
type Info struct {
	Overview       string
	Attractions    string
	Transportation string
	Food           string
	Tips           string
}

// Scraper fetches one destination page and partitions its text into buckets
// by matching h2/h3 heading keywords. It keeps no state between calls.
type Scraper struct {
	Fetcher Fetcher
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// MaxSectionChars caps each bucket. Zero means default (4000).
	MaxSectionChars int
}

// PageURL derives the wiki article URL for a destination. Spaces become
// underscores; no other normalization or existence check is done.
func (s *Scraper) PageURL(destination string) string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	slug := strings.ReplaceAll(strings.TrimSpace(destination), " ", "_")
	return strings.TrimRight(base, "/") + "/wiki/" + url.PathEscape(slug)
}

// Scrape fetches the destination page and extracts the five buckets. All
// failure causes (network, non-2xx, parse, missing container) surface as a
// single error; callers log it and halt.
func (s *Scraper) Scrape(ctx context.Context, destination string) (Info, error) {
	if s.Fetcher == nil {
		return Info{}, errors.New("scraper not configured")
	}
	pageURL := s.PageURL(destination)
	body, _, err := s.Fetcher.Get(ctx, pageURL)
	if err != nil {
		return Info{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Info{}, fmt.Errorf("parse page: %w", err)
	}
	content := doc.Find("#mw-content-text")
	if content.Length() == 0 {
		return Info{}, ErrNoContent
	}
	info := extract(content)
	info.truncate(s.maxSectionChars())
	return info, nil
}

func (s *Scraper) maxSectionChars() int {
	if s.MaxSectionChars > 0 {
		return s.MaxSectionChars
	}
	return 4000
}

func extract(content *goquery.Selection) Info {
	var info Info

	headings := content.Find("h2, h3")

	// Overview: contiguous paragraphs before the first heading.
	var lead []string
	if first := headings.First(); first.Length() > 0 {
		// PrevAll walks backwards from the heading; reverse to document order.
		first.PrevAll().Filter("p").Each(func(_ int, p *goquery.Selection) {
			if t := paragraphText(p); t != "" {
				lead = append([]string{t}, lead...)
			}
		})
	} else {
		content.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := paragraphText(p); t != "" {
				lead = append(lead, t)
			}
		})
	}
	info.Overview = strings.Join(lead, " ")

	// Section pointer: updated only on keyword matches, so paragraphs under
	// an unrecognized heading (e.g. "History") land in whichever bucket was
	// most recently active. Kept on purpose; the source behaved this way and
	// changing it would re-file content.
	current := ""
	headings.Each(func(_ int, h *goquery.Selection) {
		if key, ok := sectionFor(h.Text()); ok {
			current = key
		}
		if current == "" {
			// Headings before the first match contribute nothing.
			return
		}
		var parts []string
		h.NextUntil("h2, h3").Each(func(_ int, sib *goquery.Selection) {
			// Paragraph siblings only; lists, images and the rest are skipped.
			if !sib.Is("p") {
				return
			}
			if t := paragraphText(sib); t != "" {
				parts = append(parts, t)
			}
		})
		info.appendTo(current, strings.Join(parts, " "))
	})

	return info
}

// sectionFor maps a heading to a bucket, checking keywords in fixed
// priority order.
func sectionFor(heading string) (string, bool) {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "see") || strings.Contains(h, "sight"):
		return "attractions", true
	case strings.Contains(h, "get around") || strings.Contains(h, "transport"):
		return "transportation", true
	case strings.Contains(h, "eat") || strings.Contains(h, "food"):
		return "food", true
	case strings.Contains(h, "understand") || strings.Contains(h, "tips"):
		return "tips", true
	}
	return "", false
}

func (i *Info) appendTo(key, text string) {
	if text == "" {
		return
	}
	join := func(dst *string) {
		if *dst == "" {
			*dst = text
			return
		}
		*dst += " " + text
	}
	switch key {
	case "attractions":
		join(&i.Attractions)
	case "transportation":
		join(&i.Transportation)
	case "food":
		join(&i.Food)
	case "tips":
		join(&i.Tips)
	}
}

func (i *Info) truncate(max int) {
	clip := func(s *string) {
		if len(*s) > max {
			*s = (*s)[:max]
		}
	}
	clip(&i.Overview)
	clip(&i.Attractions)
	clip(&i.Transportation)
	clip(&i.Food)
	clip(&i.Tips)
}

// PromptText renders the buckets as the deterministic block embedded in the
// model prompt. Empty buckets still appear so the model sees the full shape.
func (i Info) PromptText() string {
	var sb strings.Builder
	write := func(label, body string) {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}
	write("Overview", i.Overview)
	write("Attractions", i.Attractions)
	write("Transportation", i.Transportation)
	write("Food", i.Food)
	write("Tips", i.Tips)
	return strings.TrimRight(sb.String(), "\n")
}

// paragraphText extracts a paragraph's visible text, skipping footnote
// superscripts and inline styling noise, with whitespace runs collapsed.
func paragraphText(p *goquery.Selection) string {
	var b strings.Builder
	for _, n := range p.Nodes {
		collectText(&b, n)
	}
	return strings.TrimSpace(collapseSpaces(b.String()))
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "sup", "script", "style":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
