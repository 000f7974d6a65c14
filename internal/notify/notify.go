package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/rs/zerolog"
)

var ErrNotConfigured = errors.New("notifier not configured")

const summaryPostings = 3

// Notifier delivers one message to one address.
type Notifier interface {
	Name() string
	Configured() bool
	// MaxLength is the longest body the transport accepts, in characters.
	MaxLength() int
	Send(ctx context.Context, to string, body string) error
}

// ShouldNotify reports whether a summary is worth sending at all.
func ShouldNotify(requested bool, to string, found int) bool {
	return requested && strings.TrimSpace(to) != "" && found > 0
}

// Compose renders the fixed summary naming up to three postings and trims
// it to maxLen characters.
func Compose(name string, total int, jobs []models.JobPosting, maxLen int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! We found %d internship opportunities for you.\n\n", strings.TrimSpace(name), total)
	for i, job := range jobs {
		if i == summaryPostings {
			break
		}
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, job.Title, job.Company)
	}
	b.WriteString("\nCheck your email for more details!")
	return truncate(b.String(), maxLen)
}

func truncate(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}

// Deliver sends body through n and reports success. It never fails the
// caller: a missing configuration or a transport error is logged and
// comes back as false.
func Deliver(ctx context.Context, n Notifier, to string, body string, logger zerolog.Logger) bool {
	if n == nil || !n.Configured() {
		logger.Debug().Msg("notifier not configured, skipping")
		return false
	}
	if err := n.Send(ctx, to, truncate(body, n.MaxLength())); err != nil {
		logger.Warn().Err(err).Str("notifier", n.Name()).Msg("notification failed")
		return false
	}
	logger.Info().Str("notifier", n.Name()).Msg("notification sent")
	return true
}

// Disabled is the notifier used when nothing is configured.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Configured() bool { return false }

func (Disabled) MaxLength() int { return 0 }

func (Disabled) Send(context.Context, string, string) error {
	return ErrNotConfigured
}

// Multi sends through every configured notifier and succeeds when at least
// one of them does.
type Multi []Notifier

func (m Multi) Name() string {
	names := make([]string, 0, len(m))
	for _, n := range m {
		if n.Configured() {
			names = append(names, n.Name())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

func (m Multi) Configured() bool {
	for _, n := range m {
		if n.Configured() {
			return true
		}
	}
	return false
}

// MaxLength is zero; each member truncates for its own transport.
func (m Multi) MaxLength() int { return 0 }

func (m Multi) Send(ctx context.Context, to string, body string) error {
	var errs []error
	sent := false
	for _, n := range m {
		if !n.Configured() {
			continue
		}
		if err := n.Send(ctx, to, truncate(body, n.MaxLength())); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		sent = true
	}
	if sent {
		return nil
	}
	if len(errs) == 0 {
		return ErrNotConfigured
	}
	return errors.Join(errs...)
}
