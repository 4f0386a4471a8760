package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/logx"
	"prodeck/internal/testutil"
)

func TestReadAtMost(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 20000)

	t.Run("under the limit", func(t *testing.T) {
		got, err := ReadAtMost(bytes.NewReader(payload), 30000)
		testutil.AssertNoError(t, err, "read")
		testutil.AssertEqual(t, len(got), len(payload), "length")
	})

	t.Run("exactly the limit", func(t *testing.T) {
		got, err := ReadAtMost(bytes.NewReader(payload), int64(len(payload)))
		testutil.AssertNoError(t, err, "read")
		testutil.AssertEqual(t, len(got), len(payload), "length")
	})

	t.Run("over the limit", func(t *testing.T) {
		_, err := ReadAtMost(bytes.NewReader(payload), 10000)
		testutil.AssertError(t, err, "expected size error")
		testutil.AssertTrue(t, errors.IsTooLarge(err), "sentinel")
	})

	t.Run("zero means unlimited", func(t *testing.T) {
		got, err := ReadAtMost(bytes.NewReader(payload), 0)
		testutil.AssertNoError(t, err, "read")
		testutil.AssertEqual(t, len(got), len(payload), "length")
	})
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusOK, nil},
		{http.StatusCreated, nil},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusForbidden, errors.ErrUnauthorized},
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusServiceUnavailable, errors.ErrServiceUnavailable},
		{http.StatusBadGateway, errors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.status, Status: http.StatusText(tt.status)}
		err := CheckStatus(resp)
		if tt.want == nil {
			testutil.AssertNoError(t, err, http.StatusText(tt.status))
			continue
		}
		testutil.AssertTrue(t, errors.Is(err, tt.want), http.StatusText(tt.status))
	}

	// Statuses without a sentinel still fail.
	err := CheckStatus(&http.Response{StatusCode: http.StatusTeapot, Status: "418"})
	testutil.AssertError(t, err, "unmapped non-2xx")
}

func TestIsUnavailableStatus(t *testing.T) {
	for _, code := range []int{403, 404, 503} {
		testutil.AssertTrue(t, IsUnavailableStatus(code), "fallback status")
	}
	for _, code := range []int{200, 429, 500, 301} {
		testutil.AssertFalse(t, IsUnavailableStatus(code), "non-fallback status")
	}
}

func TestGetSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(Config{}, logx.NewSilent())
	resp, err := client.Get(context.Background(), server.URL)
	testutil.AssertNoError(t, err, "get")
	resp.Body.Close()

	testutil.AssertTrue(t, strings.Contains(gotUA, "Mozilla/5.0"), "user agent")
	testutil.AssertTrue(t, strings.Contains(gotAccept, "text/html"), "accept header")
}

func TestFetchBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html>body</html>"))
	}))
	defer server.Close()

	client := New(Config{}, logx.NewSilent())

	body, err := client.FetchBody(context.Background(), server.URL+"/page", 0)
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertContains(t, string(body), "body", "payload")

	_, err = client.FetchBody(context.Background(), server.URL+"/missing", 0)
	testutil.AssertTrue(t, errors.IsNotFound(err), "404 maps to not-found")
}
