package scraper

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/internhunt/internal/browser"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

// stubDoer answers every request with the same canned page.
type stubDoer struct {
	status int
	body   string
	err    error

	mu   sync.Mutex
	urls []string
}

func (s *stubDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	s.mu.Lock()
	s.urls = append(s.urls, req.URL.String())
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == 0 {
		status = fhttp.StatusOK
	}
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func (s *stubDoer) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

type fakeRenderer struct {
	session *fakeSession
	err     error
	opened  int
}

func (r *fakeRenderer) NewSession(ctx context.Context) (browser.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.opened++
	return r.session, nil
}

func (r *fakeRenderer) Available(context.Context) bool {
	return r.err == nil
}

// fakeSession serves html for every page and records the calls it saw.
type fakeSession struct {
	html string
	// afterLogin is the URL reported once Enter is pressed.
	afterLogin string
	gotoErr    error

	current string
	visited []string
	filled  map[string]string
	scrolls int
	closed  int
}

func (s *fakeSession) Goto(_ context.Context, url string) error {
	if s.gotoErr != nil {
		return s.gotoErr
	}
	s.current = url
	s.visited = append(s.visited, url)
	return nil
}

func (s *fakeSession) Fill(selector string, value string) error {
	if s.filled == nil {
		s.filled = map[string]string{}
	}
	s.filled[selector] = value
	return nil
}

func (s *fakeSession) Press(_ string, key string) error {
	if key != "Enter" {
		return errors.New("unexpected key")
	}
	s.current = s.afterLogin
	return nil
}

func (s *fakeSession) WaitFor(context.Context, string) error { return nil }

func (s *fakeSession) URL() string { return s.current }

func (s *fakeSession) ScrollToBottom() error {
	s.scrolls++
	return nil
}

func (s *fakeSession) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(s.html))
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}
