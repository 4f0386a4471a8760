package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prodeck/internal/platform/urlutil"
)

// productBlock mirrors the inline product JSON that storefront themes
// embed in script tags. Three image locations exist: the images list,
// a single primary image, and per-variant image ids that resolve
// against the images list.
type productBlock struct {
	// Image is either a bare URL string or an {id, src} object,
	// depending on the theme. Decoded leniently in blockImageURLs.
	Image  json.RawMessage `json:"image"`
	Images []productImage  `json:"images"`

	Variants []struct {
		ImageID json.Number `json:"image_id"`
	} `json:"variants"`
}

type productImage struct {
	ID  json.Number `json:"id"`
	Src string      `json:"src"`
}

// ldProduct covers the schema.org Product shape, whose image field is
// either a string or a list of strings.
type ldProduct struct {
	Type  string          `json:"@type"`
	Image json.RawMessage `json:"image"`
}

// extractProductJSON pulls image URLs out of inline JSON script
// blocks. Candidates get a "product" context so they carry their own
// positive signal through the relevance filter.
func (e *Extractor) extractProductJSON(doc *goquery.Document, pageURL string, data *PageData) {
	doc.Find(`script[type="application/json"], script[type="application/ld+json"]`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if e.full(data) {
				return false
			}
			if len(s.Nodes) == 0 {
				return true
			}
			payload := strings.TrimSpace(nodeText(s.Nodes[0]))
			if payload == "" {
				return true
			}
			for _, u := range productImageURLs(payload) {
				e.addCandidate(data, urlutil.Resolve(pageURL, u), "product-json", "")
			}
			return true
		})
}

// productImageURLs decodes one JSON payload and collects every image
// reference it can find. Unknown shapes decode to nothing and are
// skipped silently.
func productImageURLs(payload string) []string {
	var urls []string

	var block productBlock
	if err := json.Unmarshal([]byte(payload), &block); err == nil {
		urls = append(urls, blockImageURLs(block)...)
	}

	var ld ldProduct
	if err := json.Unmarshal([]byte(payload), &ld); err == nil && strings.EqualFold(ld.Type, "Product") {
		urls = append(urls, ldImageURLs(ld.Image)...)
	}

	return urls
}

func blockImageURLs(block productBlock) []string {
	var urls []string

	byID := make(map[string]string, len(block.Images))
	for _, img := range block.Images {
		if img.Src != "" {
			urls = append(urls, img.Src)
		}
		if img.ID != "" {
			byID[img.ID.String()] = img.Src
		}
	}

	if u := primaryImageURL(block.Image); u != "" {
		urls = append(urls, u)
	}

	// Variant image ids resolve against the product's image list.
	for _, v := range block.Variants {
		if src, ok := byID[v.ImageID.String()]; ok && src != "" {
			urls = append(urls, src)
		}
	}

	return urls
}

// primaryImageURL decodes the product's primary image field, which is
// a URL string in some themes and an {id, src} object in others.
func primaryImageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject productImage
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.Src
	}
	return ""
}

func ldImageURLs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}
