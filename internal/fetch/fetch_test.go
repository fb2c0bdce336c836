package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var article = `<!DOCTYPE html>
<html>
<head><title>Test Page</title><style>body{margin:0}</style></head>
<body>
<main>
<article>
<h1>Article Title</h1>
<p>` + strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 6) + `</p>
</article>
</main>
</body>
</html>`

func TestIsSufficient_StaticPage(t *testing.T) {
	if !IsSufficient([]byte(article)) {
		t.Error("expected sufficient for a static article")
	}
}

func TestIsSufficient_Shells(t *testing.T) {
	bundle := "<script>" + strings.Repeat("var a=1;", 200) + "</script>"
	tests := map[string]string{
		"mount point": `<!DOCTYPE html><html><head><title>App</title></head><body><div id="root"></div>` +
			bundle + `<p>` + strings.Repeat("filler text ", 30) + `</p></body></html>`,
		"noscript": `<html><body><noscript>You need to enable JavaScript to run this app.</noscript>` +
			bundle + `<p>` + strings.Repeat("filler text ", 30) + `</p></body></html>`,
		"script only": `<html><body>` + bundle + `<p>hi</p></body></html>`,
		"tiny":        `<html><body><p>hello</p></body></html>`,
	}
	for name, doc := range tests {
		if IsSufficient([]byte(doc)) {
			t.Errorf("%s: expected insufficient", name)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("user agent = %q", ua)
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(article))
	}))
	defer srv.Close()

	f := New(WithUserAgent("test-agent"))
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK || res.ETag != `"v1"` {
		t.Errorf("status=%d etag=%q", res.StatusCode, res.ETag)
	}
	if string(res.HTML) != article {
		t.Error("body mismatch")
	}
	if !res.Sufficient {
		t.Error("expected sufficient")
	}
}

func TestFetch_Status(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
}

func TestFetch_Scheme(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "ftp://example.com/x", "javascript:alert(1)"} {
		if _, err := New().Fetch(context.Background(), u); !errors.Is(err, ErrUnsafeScheme) {
			t.Errorf("%s: err = %v, want ErrUnsafeScheme", u, err)
		}
	}
}
