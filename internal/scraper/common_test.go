package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/rs/zerolog"
)

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		base string
		href string
		want string
	}{
		{"https://example.com", "/jobs/123", "https://example.com/jobs/123"},
		{"https://example.com/path/page", "/jobs/1", "https://example.com/jobs/1"},
		{"https://example.com", "https://other.com/a", "https://other.com/a"},
		{"https://example.com", "//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"https://example.com", "", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(tc.base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}

func TestStripQuery(t *testing.T) {
	got := stripQuery("https://www.linkedin.com/jobs/view/42?refId=abc&trackingId=xyz#top")
	if got != "https://www.linkedin.com/jobs/view/42" {
		t.Fatalf("stripQuery = %q", got)
	}
}

func TestStripTrackingKeepsIdentity(t *testing.T) {
	cases := []struct {
		link string
		want string
	}{
		{
			"https://www.glassdoor.com/partner/jobListing.htm?pos=101&jobListingId=111&utm_source=mail&gclid=x#apply",
			"https://www.glassdoor.com/partner/jobListing.htm?jobListingId=111&pos=101",
		},
		{
			"https://www.glassdoor.com/job-listing/intern-acme-JV_IC1.htm?jl=1&src=GD",
			"https://www.glassdoor.com/job-listing/intern-acme-JV_IC1.htm?jl=1",
		},
		{"https://example.com/jobs/7?UTM_Campaign=s&fbclid=y", "https://example.com/jobs/7"},
		{"https://example.com/jobs/7", "https://example.com/jobs/7"},
	}
	for _, tc := range cases {
		if got := stripTracking(tc.link); got != tc.want {
			t.Fatalf("stripTracking(%q) = %q, want %q", tc.link, got, tc.want)
		}
	}
}

func TestHasInternKeyword(t *testing.T) {
	titles := []string{"Software Intern", "Senior Engineer", "Graduate Trainee"}
	var kept []string
	for _, title := range titles {
		if hasInternKeyword(title) {
			kept = append(kept, title)
		}
	}
	if len(kept) != 2 || kept[0] != "Software Intern" || kept[1] != "Graduate Trainee" {
		t.Fatalf("unexpected filter result: %v", kept)
	}
	if !hasInternKeyword("SUMMER INTERNSHIP 2025") {
		t.Fatalf("keyword match must ignore case")
	}
}

func TestSelectorChainFirstMatchWins(t *testing.T) {
	doc := mustDoc(t, `<div><span class="b">second</span><span class="a">first</span></div>`)
	got := selectorChain{".missing", ".a", ".b"}.first(doc.Selection)
	if got == nil || got.Text() != "first" {
		t.Fatalf("expected .a to win, got %v", got)
	}
	if (selectorChain{".missing"}).first(doc.Selection) != nil {
		t.Fatalf("expected nil when nothing matches")
	}
}

func TestCardLayoutSkipsIncompleteCards(t *testing.T) {
	html := `
<div class="card"><a class="t" href="/jobs/1">Data Intern</a><span class="c">Acme</span></div>
<div class="card"><span class="c">No Title Inc</span></div>
<div class="card"><a class="t" href="/jobs/3">ML Intern</a></div>
<div class="card"><a class="t" href="/jobs/4">Web Intern</a><span class="c">Beta</span></div>`

	layout := cardLayout{
		source:  "Test",
		cards:   selectorChain{"div.card"},
		title:   selectorChain{"a.t"},
		company: selectorChain{"span.c"},
	}
	jobs := layout.extract(mustDoc(t, html), "https://example.com", 10, zerolog.Nop())
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d: %+v", len(jobs), jobs)
	}
	if jobs[0].Link != "https://example.com/jobs/1" || jobs[1].Company != "Beta" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	for _, job := range jobs {
		if !job.Valid() {
			t.Fatalf("invalid job produced: %+v", job)
		}
	}
}

func TestCardLayoutCapsAtLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 37; i++ {
		fmt.Fprintf(&b, `<div class="card"><a class="t" href="/jobs/%d">Intern %d</a><span class="c">Co</span></div>`, i, i)
	}
	layout := cardLayout{
		source:  "Test",
		cards:   selectorChain{"div.card"},
		title:   selectorChain{"a.t"},
		company: selectorChain{"span.c"},
	}
	jobs := layout.extract(mustDoc(t, b.String()), "https://example.com", limitOrDefault(0), zerolog.Nop())
	if len(jobs) != DefaultLimit {
		t.Fatalf("expected %d jobs, got %d", DefaultLimit, len(jobs))
	}
	if jobs[9].Title != "Intern 9" {
		t.Fatalf("discovery order not preserved: %q", jobs[9].Title)
	}
}

func TestCardLayoutEmptyDocument(t *testing.T) {
	for _, html := range []string{"", "<html><body><p>blocked</p></body></html>", "<div class=card><a"} {
		jobs := glassdoorLayout.extract(mustDoc(t, html), "https://example.com", 10, zerolog.Nop())
		if len(jobs) != 0 {
			t.Fatalf("expected no jobs for %q, got %d", html, len(jobs))
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Mumbai, India":  "mumbai-india",
		"São Paulo":      "sao-paulo",
		"  New   York  ": "new-york",
		"C++":            "c++",
	}
	for input, want := range cases {
		if got := slug(input, "-"); got != want {
			t.Fatalf("slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFetchDocumentRejectsNon2xx(t *testing.T) {
	doer := &stubDoer{status: fhttp.StatusForbidden, body: "<html></html>"}
	_, err := fetchDocument(context.Background(), doer, "https://example.com", nil)
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestFetchDocumentSendsBrowserHeaders(t *testing.T) {
	var gotAccept, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte(`<div class="internship_details"><a class="view_detail_button" href="/i/1">Intern</a><a class="company_name">Co</a></div>`))
	}))
	defer srv.Close()

	doc, err := fetchDocument(context.Background(), &fhttp.Client{}, srv.URL, nil)
	if err != nil {
		t.Fatalf("fetchDocument() error = %v", err)
	}
	if doc.Find("div.internship_details").Length() != 1 {
		t.Fatalf("expected parsed card")
	}
	if !strings.Contains(gotAccept, "text/html") || gotLang == "" {
		t.Fatalf("missing browser headers: accept=%q lang=%q", gotAccept, gotLang)
	}
}

func TestLimitOrDefault(t *testing.T) {
	cases := map[int]int{0: 10, -1: 10, 3: 3, 50: 10}
	for input, want := range cases {
		if got := limitOrDefault(input); got != want {
			t.Fatalf("limitOrDefault(%d) = %d, want %d", input, got, want)
		}
	}
}

func TestSkillSlugsDropsBlanks(t *testing.T) {
	got := skillSlugs(models.SearchParams{Skills: "Python, ,Machine Learning"}, "-")
	if len(got) != 2 || got[0] != "python" || got[1] != "machine-learning" {
		t.Fatalf("unexpected slugs: %v", got)
	}
}
