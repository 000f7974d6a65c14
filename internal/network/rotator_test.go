package network

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRotatorRoundRobin(t *testing.T) {
	r, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}

	first, _ := r.Next()
	second, _ := r.Next()
	third, _ := r.Next()
	if first.Host != "a:1" || second.Host != "b:2" || third.Host != "a:1" {
		t.Fatalf("unexpected order: %s %s %s", first.Host, second.Host, third.Host)
	}
}

func TestRotatorBansOnBlockStatus(t *testing.T) {
	r, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a, _ := r.Next()
	r.Report(a, 429)

	for i := 0; i < 3; i++ {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got.Host != "b:2" {
			t.Fatalf("expected banned proxy to be skipped, got %s", got.Host)
		}
	}

	now = now.Add(2 * time.Minute)
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		got, _ := r.Next()
		seen[got.Host] = true
	}
	if !seen["a:1"] {
		t.Fatalf("expected ban to expire")
	}
}

func TestRotatorAllBanned(t *testing.T) {
	r, _ := NewRotator([]string{"http://a:1"}, time.Hour)
	a, _ := r.Next()
	r.Report(a, 403)
	if _, err := r.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("expected ErrNoProxies, got %v", err)
	}
}

func TestNewRotatorRejectsHostless(t *testing.T) {
	if _, err := NewRotator([]string{"not a proxy"}, time.Minute); err == nil {
		t.Fatalf("expected error for proxy without host")
	}
}

func TestHostLimiterSeparatesHosts(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := hl.WaitURL(ctx, "https://a.example.com/x"); err != nil {
		t.Fatalf("first wait on host a: %v", err)
	}
	if err := hl.WaitURL(ctx, "https://b.example.com/x"); err != nil {
		t.Fatalf("first wait on host b should not block: %v", err)
	}
	if err := hl.WaitURL(ctx, "https://a.example.com/y"); err == nil {
		t.Fatalf("second wait on host a should exceed the deadline")
	}
}
