package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	SMSMaxLength         = 1600
	DefaultCountryPrefix = "+91"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type SMSConfig struct {
	AccountSID    string
	AuthToken     string
	From          string
	CountryPrefix string
}

// TwilioSMS sends text messages through the Twilio REST API.
type TwilioSMS struct {
	api    messageCreator
	from   string
	prefix string
}

func NewTwilioSMS(cfg SMSConfig) *TwilioSMS {
	prefix := cfg.CountryPrefix
	if prefix == "" {
		prefix = DefaultCountryPrefix
	}
	s := &TwilioSMS{from: cfg.From, prefix: prefix}
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		s.api = client.Api
	}
	return s
}

func (s *TwilioSMS) Name() string { return "twilio" }

func (s *TwilioSMS) Configured() bool {
	return s.api != nil && s.from != ""
}

func (s *TwilioSMS) MaxLength() int { return SMSMaxLength }

func (s *TwilioSMS) Send(ctx context.Context, to string, body string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	to = NormalizePhone(to, s.prefix)
	if to == "" {
		return fmt.Errorf("twilio: empty recipient")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(truncate(body, SMSMaxLength))
	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if msg != nil && msg.ErrorMessage != nil && *msg.ErrorMessage != "" {
		return fmt.Errorf("twilio: %s", *msg.ErrorMessage)
	}
	return nil
}

// NormalizePhone strips formatting and prefixes numbers that carry no
// country code.
func NormalizePhone(phone string, prefix string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "+" {
		return ""
	}
	if !strings.HasPrefix(out, "+") {
		out = prefix + out
	}
	return out
}
