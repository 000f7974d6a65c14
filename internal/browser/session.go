package browser

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ErrUnavailable = errors.New("render capability unavailable")

// Session is one disposable rendered-browser tab. Callers must Close it on
// every path.
type Session interface {
	Goto(ctx context.Context, url string) error
	Fill(selector string, value string) error
	Press(selector string, key string) error
	WaitFor(ctx context.Context, selector string) error
	URL() string
	ScrollToBottom() error
	Document() (*goquery.Document, error)
	Close() error
}

// Renderer hands out sessions.
type Renderer interface {
	NewSession(ctx context.Context) (Session, error)
	Available(ctx context.Context) bool
}

// timeoutMillis converts what is left of ctx into a playwright timeout,
// capped at fallback.
func timeoutMillis(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	ms := float64(d.Milliseconds())
	return &ms
}
