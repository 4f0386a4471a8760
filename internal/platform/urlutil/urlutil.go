// Package urlutil canonicalizes URLs and classifies them for the
// scrape pipeline. All checks fail closed: anything that does not
// parse is out of scope.
package urlutil

import (
	"net/url"
	"path"
	"strings"
)

// rasterExtensions are the formats the download engine can decode.
var rasterExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// imagePathKeywords mark URL path segments that conventionally hold
// image assets even without a file extension.
var imagePathKeywords = []string{
	"/image/", "/images/", "/img/", "/gallery/", "/media/", "/photo/", "/photos/",
}

// imageCDNTokens are hostname/path fragments of well-known image CDNs.
var imageCDNTokens = []string{
	"cdn.shopify.com", "images.ctfassets", "cloudinary", "imgix", "cloudfront", "akamaized",
}

// Normalize canonicalizes a URL for crawl deduplication: the fragment
// is dropped, scheme/host/path/query are preserved. Normalizing an
// already-normalized URL returns it unchanged.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	return u.String(), nil
}

// SameDomain reports whether rawURL belongs to baseDomain, tolerating
// a leading "www." on either side. Parse failures yield false.
func SameDomain(rawURL, baseDomain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	base := strings.ToLower(strings.TrimSpace(baseDomain))
	if host == "" || base == "" {
		return false
	}
	return host == base ||
		host == "www."+base ||
		"www."+host == base
}

// Domain extracts the lowercased hostname of a URL, or "" when it does
// not parse.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Resolve resolves ref against base, returning "" when either side is
// unusable. Protocol-relative refs ("//cdn...") inherit base's scheme.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// HasRasterExtension reports whether the URL path (query stripped)
// ends in a decodable raster format.
func HasRasterExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return rasterExtensions[strings.ToLower(path.Ext(u.Path))]
}

// IsImageURL is the permissive image classifier used during
// extraction. It accepts anything that plausibly points at an image:
// a raster extension, an image-path keyword, a known image-CDN token,
// or an image word anywhere in the URL. Precision is the relevance
// filter's job, not this function's.
func IsImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if HasRasterExtension(rawURL) {
		return true
	}
	lower := strings.ToLower(rawURL)
	for _, kw := range imagePathKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, token := range imageCDNTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return strings.Contains(lower, "image") ||
		strings.Contains(lower, "img") ||
		strings.Contains(lower, "photo")
}

// EnsureScheme prepends https:// to bare-host input.
func EnsureScheme(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}
