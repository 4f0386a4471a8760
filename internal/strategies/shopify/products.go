package shopify

import (
	"encoding/json"
	"regexp"
)

// cdnURLPattern matches product-image CDN references in raw catalog
// HTML, including protocol-relative and JSON-escaped forms.
var cdnURLPattern = regexp.MustCompile(`(?:https?:)?//cdn\.shopify\.com[^\s"'<>\\]+\.(?:jpg|jpeg|png|webp)[^\s"'<>\\]*`)

// productListing is one page of the product endpoint.
type productListing struct {
	Products []product `json:"products"`
}

type product struct {
	ID     json.Number    `json:"id"`
	Title  string         `json:"title"`
	Image  *listingImage  `json:"image"`
	Images []listingImage `json:"images"`

	Variants []variant `json:"variants"`
}

type listingImage struct {
	ID  json.Number `json:"id"`
	Src string      `json:"src"`
}

type variant struct {
	ID      json.Number `json:"id"`
	ImageID json.Number `json:"image_id"`
}

// extractImageURLs pulls unique image URLs out of product records:
// the primary image, the image list, and variant images resolved by
// matching the variant's referenced image id against the product's
// image list.
func extractImageURLs(products []product) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(src string) {
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	}

	for _, p := range products {
		if p.Image != nil {
			add(p.Image.Src)
		}

		byID := make(map[string]string, len(p.Images))
		for _, img := range p.Images {
			add(img.Src)
			if img.ID != "" {
				byID[img.ID.String()] = img.Src
			}
		}

		for _, v := range p.Variants {
			if src, ok := byID[v.ImageID.String()]; ok {
				add(src)
			}
		}
	}

	return urls
}
