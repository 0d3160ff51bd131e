package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Page is a loaded document as the host sees it.
type Page struct {
	URL       string
	FinalURL  string
	Title     string
	Byline    string
	Excerpt   string
	SiteName  string
	Lang      string
	Content   string // readable HTML
	Text      string // plain text
	Headings  []Heading
	Links     []Link
	FetchTime time.Duration
}

// Heading is an h1-h6 element in document order.
type Heading struct {
	Level int
	Text  string
}

// Link represents a hyperlink found in the page.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Extract builds a Page from a fetch result. Non-HTML bodies are kept as
// preformatted text.
func Extract(result *FetchResult) (*Page, error) {
	page := &Page{
		URL:       result.URL,
		FinalURL:  result.FinalURL,
		FetchTime: result.Duration,
	}

	if !IsHTML(result.ContentType) {
		page.Title = result.FinalURL
		page.Content = "<pre>" + string(result.Body) + "</pre>"
		page.Text = string(result.Body)
		return page, nil
	}

	base, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	collectFacts(page, doc, base)

	article, err := readability.FromReader(bytes.NewReader(result.Body), base)
	if err != nil {
		// Pages readability rejects still have usable facts.
		page.Text = strings.TrimSpace(doc.Find("body").Text())
		return page, nil
	}

	if article.Title != "" {
		page.Title = article.Title
	}
	page.Byline = article.Byline
	page.Excerpt = article.Excerpt
	page.SiteName = article.SiteName
	page.Content = article.Content
	page.Text = article.TextContent
	return page, nil
}

// collectFacts reads title, language, headings and links from the full
// document, before readability strips navigation.
func collectFacts(page *Page, doc *goquery.Document, base *url.URL) {
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.Lang, _ = doc.Find("html").Attr("lang")

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		level := int(goquery.NodeName(s)[1] - '0')
		page.Headings = append(page.Headings, Heading{Level: level, Text: text})
	})

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		page.Links = append(page.Links, Link{
			Index: len(page.Links) + 1,
			Text:  strings.Join(strings.Fields(s.Text()), " "),
			URL:   abs,
		})
	})
}
