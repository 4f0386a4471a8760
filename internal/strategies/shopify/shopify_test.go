package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"prodeck/internal/core/domain"
	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/httpclient"
	"prodeck/internal/platform/logx"
	"prodeck/internal/testutil"
)

func newTestStrategy(t *testing.T) *Shopify {
	t.Helper()
	return New(Options{
		Client: httpclient.New(httpclient.Config{}, logx.NewSilent()),
		Logger: logx.NewSilent(),
		Delay:  time.Millisecond,
	})
}

func productsPage(urls ...string) productListing {
	var listing productListing
	for i, u := range urls {
		listing.Products = append(listing.Products, product{
			ID:     json.Number(fmt.Sprintf("%d", i+1)),
			Images: []listingImage{{ID: json.Number(fmt.Sprintf("%d", 100+i)), Src: u}},
		})
	}
	return listing
}

func TestDiscoverViaEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode(productListing{})
			return
		}
		json.NewEncoder(w).Encode(productsPage(
			"https://cdn.shopify.com/s/files/1/sofa.jpg",
			"https://cdn.shopify.com/s/files/1/chair.jpg",
		))
	}))
	defer server.Close()

	s := newTestStrategy(t)
	discovery, err := s.Discover(context.Background(), domain.NewTarget(server.URL))
	testutil.AssertNoError(t, err, "discover")

	testutil.AssertEqual(t, len(discovery.Candidates), 2, "endpoint candidates")
	testutil.AssertEqual(t, discovery.Candidates[0].Context, "product-api", "synthetic context")
}

func TestDiscoverPaginatesUntilShortPage(t *testing.T) {
	var pagesServed atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed.Add(1)

		switch page {
		case "1":
			// A full page forces another fetch.
			var listing productListing
			for i := 0; i < pageSize; i++ {
				listing.Products = append(listing.Products, product{
					Images: []listingImage{{Src: fmt.Sprintf("https://cdn.shopify.com/s/files/1/p%d.jpg", i)}},
				})
			}
			json.NewEncoder(w).Encode(listing)
		case "2":
			json.NewEncoder(w).Encode(productsPage("https://cdn.shopify.com/s/files/1/last.jpg"))
		default:
			t.Errorf("unexpected page %s requested", page)
			json.NewEncoder(w).Encode(productListing{})
		}
	}))
	defer server.Close()

	s := newTestStrategy(t)
	discovery, err := s.Discover(context.Background(), domain.NewTarget(server.URL))
	testutil.AssertNoError(t, err, "discover")

	testutil.AssertEqual(t, int(pagesServed.Load()), 2, "short page ends pagination")
	testutil.AssertEqual(t, len(discovery.Candidates), pageSize+1, "all pages harvested")
}

func TestBlockedEndpointFallsBackToCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products.json":
			w.WriteHeader(http.StatusForbidden)
		case "/collections/all":
			fmt.Fprint(w, `
				<img src="https://cdn.shopify.com/s/files/1/a.jpg">
				<img src="https://cdn.shopify.com/s/files/1/b.jpg">
				<img src="https://cdn.shopify.com/s/files/1/c.jpg">
			`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s := newTestStrategy(t)
	discovery, err := s.Discover(context.Background(), domain.NewTarget(server.URL))
	testutil.AssertNoError(t, err, "catalog fallback should succeed")
	testutil.AssertEqual(t, len(discovery.Candidates), 3, "cdn urls from catalog html")
}

func TestHTMLErrorPageSignalsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A storefront serving an HTML error page with HTTP 200.
		fmt.Fprint(w, "<html><body>Not a shop</body></html>")
	}))
	defer server.Close()

	s := newTestStrategy(t)
	_, err := s.Discover(context.Background(), domain.NewTarget(server.URL))
	testutil.AssertError(t, err, "expected failure")
	testutil.AssertTrue(t, errors.IsStrategyUnavailable(err), "parse failure is a fallback signal")
}

func TestNoPartialResultsOnMidPaginationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			var listing productListing
			for i := 0; i < pageSize; i++ {
				listing.Products = append(listing.Products, product{
					Images: []listingImage{{Src: fmt.Sprintf("https://cdn.shopify.com/s/files/1/p%d.jpg", i)}},
				})
			}
			json.NewEncoder(w).Encode(listing)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestStrategy(t)
	_, err := s.Discover(context.Background(), domain.NewTarget(server.URL))
	// Page 2 dies, so the endpoint yields nothing, and no catalog page
	// exists either: the whole strategy is unavailable.
	testutil.AssertError(t, err, "expected failure")
	testutil.AssertTrue(t, errors.IsStrategyUnavailable(err), "no partial results")
}

func TestExtractImageURLsResolvesVariants(t *testing.T) {
	products := []product{
		{
			ID:    "1",
			Image: &listingImage{Src: "https://cdn.shopify.com/s/files/1/primary.jpg"},
			Images: []listingImage{
				{ID: "10", Src: "https://cdn.shopify.com/s/files/1/a.jpg"},
				{ID: "11", Src: "https://cdn.shopify.com/s/files/1/b.jpg"},
			},
			Variants: []variant{
				{ID: "100", ImageID: "11"},
				{ID: "101", ImageID: "999"},
			},
		},
	}

	urls := extractImageURLs(products)

	testutil.AssertContains(t, urls, "https://cdn.shopify.com/s/files/1/primary.jpg", "primary image")
	testutil.AssertContains(t, urls, "https://cdn.shopify.com/s/files/1/a.jpg", "image list")
	testutil.AssertContains(t, urls, "https://cdn.shopify.com/s/files/1/b.jpg", "variant target")
	// b.jpg appears in both the image list and a variant: once only.
	testutil.AssertLen(t, urls, 3, "unique urls")
}

func TestCDNImageURLs(t *testing.T) {
	html := `
		<img src="https://cdn.shopify.com/s/files/1/x.jpg?v=1">
		<script>{"img":"https:\/\/cdn.shopify.com\/s\/files\/1\/escaped.webp"}</script>
		<img src="https://cdn.shopify.com/s/files/1/x.jpg?v=1">
		<img src="https://elsewhere.com/y.jpg">
	`
	urls := cdnImageURLs(html)
	testutil.AssertContains(t, urls, "https://cdn.shopify.com/s/files/1/x.jpg?v=1", "plain cdn url")
	testutil.AssertContains(t, urls, "https://cdn.shopify.com/s/files/1/escaped.webp", "escaped cdn url")
	testutil.AssertLen(t, urls, 2, "deduped, non-cdn excluded")
}
