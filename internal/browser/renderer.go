package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
)

// Glamour renderers are expensive; keep one per width.
var (
	rendererMu     sync.Mutex
	renderer       *glamour.TermRenderer
	rendererWidth  int
	rendererStyle  string
	defaultGlamour = "dark"
)

// SetStyle selects the glamour style ("dark", "light", "notty", ...).
func SetStyle(style string) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if style == "" {
		style = defaultGlamour
	}
	defaultGlamour = style
}

// RenderMarkdown renders md for a terminal of the given width. On failure
// the raw markdown is returned with the error.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	if width > 100 {
		width = 100
	}

	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer == nil || rendererWidth != width || rendererStyle != defaultGlamour {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(defaultGlamour),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md, fmt.Errorf("creating renderer: %w", err)
		}
		renderer, rendererWidth, rendererStyle = r, width, defaultGlamour
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md, fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// Markdown converts the readable part of page to markdown.
func Markdown(page *Page) string {
	var md strings.Builder
	if page.Title != "" {
		md.WriteString("# " + page.Title + "\n\n")
	}
	if page.Byline != "" {
		md.WriteString("*" + page.Byline + "*\n\n")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Content))
	if err != nil || strings.TrimSpace(page.Content) == "" {
		md.WriteString(page.Text)
		return md.String()
	}

	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		md.WriteString(block(s, 0))
	})
	return md.String()
}

func block(s *goquery.Selection, depth int) string {
	switch tag := goquery.NodeName(s); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return ""
		}
		return strings.Repeat("#", int(tag[1]-'0')) + " " + text + "\n\n"
	case "ul", "ol":
		return list(s, tag == "ol", depth)
	case "pre":
		return "```\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n"
	case "blockquote":
		var sb strings.Builder
		for _, line := range strings.Split(strings.TrimSpace(inline(s)), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		return sb.String() + "\n"
	case "hr":
		return "---\n\n"
	case "img":
		alt, _ := s.Attr("alt")
		src, _ := s.Attr("src")
		if alt == "" {
			alt = "image"
		}
		return fmt.Sprintf("![%s](%s)\n\n", alt, src)
	case "div", "article", "section", "main", "header", "footer", "figure":
		var sb strings.Builder
		s.Children().Each(func(_ int, child *goquery.Selection) {
			sb.WriteString(block(child, depth))
		})
		return sb.String()
	default:
		text := strings.TrimSpace(inline(s))
		if text == "" {
			return ""
		}
		return text + "\n\n"
	}
}

func list(s *goquery.Selection, ordered bool, depth int) string {
	var sb strings.Builder
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		sb.WriteString(indent + marker + strings.TrimSpace(inline(li)) + "\n")
		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			sb.WriteString(list(nested, goquery.NodeName(nested) == "ol", depth+1))
		})
	})
	if depth == 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// inline flattens text content, keeping emphasis, code and links.
func inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
		case "strong", "b":
			sb.WriteString("**" + inline(child) + "**")
		case "em", "i":
			sb.WriteString("*" + inline(child) + "*")
		case "code":
			sb.WriteString("`" + child.Text() + "`")
		case "br":
			sb.WriteString("  \n")
		case "a":
			text := strings.TrimSpace(inline(child))
			href, _ := child.Attr("href")
			if href == "" {
				sb.WriteString(text)
				break
			}
			if text == "" {
				text = href
			}
			sb.WriteString("[" + text + "](" + href + ")")
		case "ul", "ol":
			// rendered by list
		default:
			sb.WriteString(inline(child))
		}
	})
	return sb.String()
}
