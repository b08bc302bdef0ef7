package platforms_test

import (
	"net/url"
	"testing"

	"github.com/goliatone/go-entitychips/internal/platforms"
)

func TestClassify(t *testing.T) {
	detector := platforms.NewDetector()
	cases := []struct {
		url      string
		platform string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "youtube"},
		{"https://youtu.be/dQw4w9WgXcQ", "youtube"},
		{"https://m.youtube.com/shorts/abc_123", "youtube"},
		{"https://www.youtube.com/channel/abc", ""},
		{"https://github.com/goliatone/go-entitychips", "github"},
		{"https://github.com/goliatone", ""},
		{"https://twitter.com/elonmusk", "x"},
		{"https://x.com/golang", "x"},
		{"https://mobile.twitter.com/golang", "x"},
		{"https://x.com", ""},
		{"https://www.linkedin.com/in/someone", "linkedin"},
		{"https://linkedin.com/company/acme", "linkedin"},
		{"https://linkedin.com/jobs/view/1", ""},
		{"https://stripe.com/pricing", ""},
		{"https://notgithub.com/a/b", ""},
	}
	for _, tc := range cases {
		got, ok := detector.Classify(tc.url)
		if got != tc.platform || ok != (tc.platform != "") {
			t.Fatalf("Classify(%q) = %q, %v; want %q", tc.url, got, ok, tc.platform)
		}
	}
}

func TestClassifyFirstPatternWins(t *testing.T) {
	always := func(*url.URL) bool { return true }
	detector := platforms.NewDetector(
		platforms.Pattern{Name: "first", Hosts: []string{"example.com"}, Match: always},
		platforms.Pattern{Name: "second", Hosts: []string{"example.com"}, Match: always},
	)
	for i := 0; i < 20; i++ {
		if got, _ := detector.Classify("https://example.com/x"); got != "first" {
			t.Fatalf("expected declaration order to win, got %q", got)
		}
	}
}

func TestDetect(t *testing.T) {
	detector := platforms.NewDetector()
	text := "Follow https://twitter.com/elonmusk and (https://github.com/a/b) plus https://stripe.com, or [https://youtu.be/x1]."
	got := detector.Detect(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 detections, got %+v", got)
	}

	want := []struct {
		platform string
		match    string
	}{
		{"x", "https://twitter.com/elonmusk"},
		{"github", "https://github.com/a/b"},
		{"youtube", "https://youtu.be/x1"},
	}
	for i, w := range want {
		if got[i].Platform != w.platform || got[i].Slug != w.platform || got[i].Match != w.match {
			t.Fatalf("detection %d = %+v, want %+v", i, got[i], w)
		}
		if text[got[i].Start:got[i].End()] != w.match {
			t.Fatalf("detection %d offset mismatch: %+v", i, got[i])
		}
	}
	if got[0].Start != len("Follow ") {
		t.Fatalf("unexpected start %d", got[0].Start)
	}
}

func TestScanURLsTerminators(t *testing.T) {
	text := "a http://x.dev/p<b> https://y.dev z https:// http"
	spans := platforms.ScanURLs(text)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %v", spans)
	}
	if got := text[spans[0][0]:spans[0][1]]; got != "http://x.dev/p" {
		t.Fatalf("unexpected first url %q", got)
	}
	if got := text[spans[1][0]:spans[1][1]]; got != "https://y.dev" {
		t.Fatalf("unexpected second url %q", got)
	}
}

func TestStripScheme(t *testing.T) {
	if got := platforms.StripScheme("https://twitter.com/elonmusk"); got != "twitter.com/elonmusk" {
		t.Fatalf("unexpected %q", got)
	}
	if got := platforms.StripScheme("http://a.dev"); got != "a.dev" {
		t.Fatalf("unexpected %q", got)
	}
	if got := platforms.StripScheme("ftp://a.dev"); got != "ftp://a.dev" {
		t.Fatalf("unexpected %q", got)
	}
}
