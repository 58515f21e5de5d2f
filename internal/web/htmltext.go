package web

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	summaryParagraphs = 15
	summaryLists      = 5
	minImageSize      = 100
	minImageURLLen    = 20
)

// Page is the content extracted from a wiki article.
type Page struct {
	Title    string
	Text     string
	ImageURL string
	URL      string
}

// skipped subtrees never contribute text.
var skippedClasses = []string{"mw-editsection", "toc", "navbox", "reference", "portable-infobox", "infobox", "gallery", "noprint"}

// parsePage extracts the title, body text and lead image of an article.
// Deep extraction returns every paragraph grouped by section instead of the
// first paragraphs and lists.
func parsePage(body []byte, pageURL string, deep bool) (Page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse html: %w", err)
	}

	root := findFirst(doc, func(n *html.Node) bool { return hasClass(n, "mw-parser-output") })
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return attr(n, "id") == "content" })
	}
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	}
	if root == nil {
		return Page{}, fmt.Errorf("no content root")
	}

	page := Page{URL: pageURL, Title: pageTitle(doc)}
	if deep {
		page.Text = sectionText(root)
	} else {
		page.Text = summaryText(root)
	}
	page.ImageURL = leadImage(doc, root, pageURL)
	return page, nil
}

func pageTitle(doc *html.Node) string {
	if h1 := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.H1 && hasClass(n, "page-header__title") }); h1 != nil {
		return textOf(h1)
	}
	if h1 := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.H1 }); h1 != nil {
		return textOf(h1)
	}
	if t := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		return textOf(t)
	}
	return ""
}

func summaryText(root *html.Node) string {
	var paragraphs, lists []string
	walkContent(root, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.P:
			if len(paragraphs) < summaryParagraphs {
				if t := textOf(n); t != "" {
					paragraphs = append(paragraphs, t)
				}
			}
			return false
		case atom.Ul, atom.Ol:
			if len(lists) < summaryLists {
				if t := listText(n); t != "" {
					lists = append(lists, t)
				}
			}
			return false
		}
		return true
	})
	return strings.TrimSpace(strings.Join(append(paragraphs, lists...), "\n\n"))
}

func sectionText(root *html.Node) string {
	var sb strings.Builder
	walkContent(root, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.H2, atom.H3, atom.H4:
			if t := textOf(n); t != "" {
				fmt.Fprintf(&sb, "\n== %s ==\n", t)
			}
			return false
		case atom.P:
			if t := textOf(n); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
			return false
		case atom.Ul, atom.Ol:
			if t := listText(n); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
			return false
		}
		return true
	})
	return strings.TrimSpace(sb.String())
}

// walkContent visits nodes in document order, skipping non-content subtrees.
// visit returns whether to descend into the node.
func walkContent(n *html.Node, visit func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || skipNode(c) {
			continue
		}
		if visit(c) {
			walkContent(c, visit)
		}
	}
}

func skipNode(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Aside, atom.Table, atom.Nav, atom.Figure, atom.Noscript:
		return true
	}
	for _, c := range skippedClasses {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

func listText(n *html.Node) string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Li {
			if t := textOf(c); t != "" {
				items = append(items, "- "+t)
			}
		}
	}
	return strings.Join(items, "\n")
}

// textOf returns the whitespace-collapsed text under n.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (skipNode(n) || n.DataAtom == atom.Sup) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	text := strings.Join(strings.Fields(sb.String()), " ")
	// joining text nodes adds a space before punctuation
	for _, p := range []string{",", ".", ";", ":", "!", "?", ")"} {
		text = strings.ReplaceAll(text, " "+p, p)
	}
	return strings.ReplaceAll(text, "( ", "(")
}

// leadImage prefers an infobox image, then the first large non-icon image of
// the content body.
func leadImage(doc, root *html.Node, pageURL string) string {
	infobox := findFirst(doc, func(n *html.Node) bool {
		return hasClass(n, "portable-infobox") || hasClass(n, "infobox")
	})
	if infobox != nil {
		if img := findFirst(infobox, func(n *html.Node) bool { return n.DataAtom == atom.Img }); img != nil {
			if u := NormalizeImageURL(imageSource(img), pageURL); u != "" {
				return u
			}
		}
	}

	var found string
	findFirst(root, func(n *html.Node) bool {
		if n.DataAtom != atom.Img || isIcon(n) {
			return false
		}
		if u := NormalizeImageURL(imageSource(n), pageURL); u != "" {
			found = u
			return true
		}
		return false
	})
	return found
}

func imageSource(img *html.Node) string {
	src := attr(img, "src")
	if lazy := attr(img, "data-src"); lazy != "" && (src == "" || strings.HasPrefix(src, "data:")) {
		return lazy
	}
	return src
}

func isIcon(img *html.Node) bool {
	marker := strings.ToLower(attr(img, "class") + " " + attr(img, "src") + " " + attr(img, "data-src") + " " + attr(img, "alt"))
	for _, m := range []string{"icon", "logo", "sprite", "emblem", "badge"} {
		if strings.Contains(marker, m) {
			return true
		}
	}
	for _, dim := range []string{"width", "height"} {
		if v := attr(img, dim); v != "" {
			if size, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil && size < minImageSize {
				return true
			}
		}
	}
	return false
}

// NormalizeImageURL makes raw absolute, removes embedded whitespace and
// rejects data URIs and placeholder-short URLs.
func NormalizeImageURL(raw, pageURL string) string {
	u := strings.Join(strings.Fields(raw), "")
	if u == "" || strings.HasPrefix(u, "data:") {
		return ""
	}
	switch {
	case strings.HasPrefix(u, "//"):
		u = "https:" + u
	case strings.HasPrefix(u, "/"):
		if origin := originOf(pageURL); origin != "" {
			u = origin + u
		}
	}
	if len(u) < minImageURLLen {
		return ""
	}
	return u
}

func originOf(pageURL string) string {
	scheme, rest, ok := strings.Cut(pageURL, "://")
	if !ok {
		return ""
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
