// Package extract pulls crawl links and image candidates out of page
// HTML. Extraction is deliberately over-inclusive: several strategies
// run over the same document and may report the same URL more than
// once; precision and deduplication belong to the relevance filter
// downstream.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"prodeck/internal/core/domain"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/urlutil"
)

// lazyAttrs are the img attributes checked in order for the primary
// image source. Lazy-loading themes park the real URL in data-*
// attributes and leave src as a placeholder.
var lazyAttrs = []string{"src", "data-src", "data-lazy-src", "data-lazy", "data-original"}

// Extractor parses one page's HTML into links and image candidates.
type Extractor struct {
	maxPerPage int
	logger     logx.Logger
}

// PageData is the extraction result for a single page.
type PageData struct {
	// Links holds normalized in-domain hyperlink targets.
	Links []string

	// Candidates holds raw image candidates with DOM context.
	Candidates []domain.ImageCandidate
}

// New creates an extractor. maxPerPage caps candidates per page
// (0 = unlimited).
func New(maxPerPage int, logger logx.Logger) *Extractor {
	return &Extractor{
		maxPerPage: maxPerPage,
		logger:     logger.With("component", "extractor"),
	}
}

// Extract parses pageHTML fetched from pageURL. domainName scopes the
// returned links. When every structural strategy comes up empty, a
// regex sweep over the raw text recovers sites whose markup is
// JS-rendered or data-embedded.
func (e *Extractor) Extract(pageURL, pageHTML, domainName string) (*PageData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	data := &PageData{}

	e.extractLinks(doc, pageURL, domainName, data)
	e.extractImgTags(doc, pageURL, data)
	e.extractSourceSets(doc, pageURL, data)
	e.extractInlineStyles(doc, pageURL, data)
	e.extractMetaTags(doc, pageURL, data)
	e.extractProductJSON(doc, pageURL, data)

	if len(data.Candidates) == 0 {
		e.logger.Debug("structural extraction empty, using regex fallback", "page", pageURL)
		e.extractFallback(pageURL, pageHTML, data)
	}

	e.logger.Debug("page extracted",
		"page", pageURL,
		"links", len(data.Links),
		"candidates", len(data.Candidates),
	)
	return data, nil
}

func (e *Extractor) extractLinks(doc *goquery.Document, pageURL, domainName string, data *PageData) {
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs := urlutil.Resolve(pageURL, href)
		if abs == "" || !urlutil.SameDomain(abs, domainName) {
			return
		}
		norm, err := urlutil.Normalize(abs)
		if err != nil || seen[norm] {
			return
		}
		seen[norm] = true
		data.Links = append(data.Links, norm)
	})
}

// extractImgTags handles plain and lazy-loaded img elements, plus
// per-img srcset attributes.
func (e *Extractor) extractImgTags(doc *goquery.Document, pageURL string, data *PageData) {
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if e.full(data) {
			return false
		}

		alt, _ := s.Attr("alt")
		context := containerContext(s)

		for _, attr := range lazyAttrs {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				e.addCandidate(data, urlutil.Resolve(pageURL, v), context, alt)
				break
			}
		}

		if srcset, ok := s.Attr("srcset"); ok {
			for _, u := range parseSrcset(srcset) {
				e.addCandidate(data, urlutil.Resolve(pageURL, u), context, alt)
			}
		}
		return true
	})
}

// extractSourceSets handles responsive containers: picture/figure with
// nested source elements.
func (e *Extractor) extractSourceSets(doc *goquery.Document, pageURL string, data *PageData) {
	doc.Find("picture source, figure source").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if e.full(data) {
			return false
		}
		context := containerContext(s)
		for _, attr := range []string{"srcset", "data-srcset", "src"} {
			v, ok := s.Attr(attr)
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			for _, u := range parseSrcset(v) {
				e.addCandidate(data, urlutil.Resolve(pageURL, u), context, "")
			}
			break
		}
		return true
	})
}

// extractInlineStyles picks CSS url(...) references out of style
// attributes.
func (e *Extractor) extractInlineStyles(doc *goquery.Document, pageURL string, data *PageData) {
	doc.Find("[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if e.full(data) {
			return false
		}
		style, _ := s.Attr("style")
		for _, u := range cssURLPattern.FindAllStringSubmatch(style, -1) {
			e.addCandidate(data, urlutil.Resolve(pageURL, u[1]), elementContext(s), "")
		}
		return true
	})
}

// extractMetaTags covers meta/link tags whose rel or property names an
// image (og:image, twitter:image, icons).
func (e *Extractor) extractMetaTags(doc *goquery.Document, pageURL string, data *PageData) {
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if e.full(data) {
			return false
		}
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		key := strings.ToLower(prop + " " + name)
		if !strings.Contains(key, "image") {
			return true
		}
		if content, ok := s.Attr("content"); ok {
			e.addCandidate(data, urlutil.Resolve(pageURL, content), "meta", "")
		}
		return true
	})

	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if e.full(data) {
			return false
		}
		rel, _ := s.Attr("rel")
		relLower := strings.ToLower(rel)
		if !strings.Contains(relLower, "image") && !strings.Contains(relLower, "icon") {
			return true
		}
		if href, ok := s.Attr("href"); ok {
			e.addCandidate(data, urlutil.Resolve(pageURL, href), relLower, "")
		}
		return true
	})
}

func (e *Extractor) addCandidate(data *PageData, absURL, context, alt string) {
	if absURL == "" || e.full(data) {
		return
	}
	if !urlutil.IsImageURL(absURL) {
		return
	}
	data.Candidates = append(data.Candidates, domain.NewImageCandidate(absURL, context, alt))
}

func (e *Extractor) full(data *PageData) bool {
	return e.maxPerPage > 0 && len(data.Candidates) >= e.maxPerPage
}

// containerContext builds the filter's context string from the
// immediate container element: lowercased space-joined class tokens
// plus id.
func containerContext(s *goquery.Selection) string {
	return elementContext(s.Parent())
}

// elementContext reads class and id off the selection's own node.
func elementContext(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var parts []string
	for _, attr := range s.Nodes[0].Attr {
		switch attr.Key {
		case "class", "id":
			if v := strings.TrimSpace(attr.Val); v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// parseSrcset splits a srcset value into its candidate URLs, dropping
// the width/density descriptors.
func parseSrcset(srcset string) []string {
	var urls []string
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		urls = append(urls, fields[0])
	}
	return urls
}

// nodeText collects the text content of a raw html node subtree. Used
// for script payloads, where goquery's Text() also works but the node
// walk avoids building intermediate selections.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
