package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var jobs = []models.JobPosting{
	{Title: "Software Intern", Company: "Acme", Link: "https://a.com/1", Source: "LinkedIn"},
	{Title: "Data Intern", Company: "Beta", Link: "https://b.com/2", Source: "Indeed"},
	{Title: "ML Trainee", Company: "Gamma", Link: "https://c.com/3", Source: "Glassdoor"},
	{Title: "Web Intern", Company: "Delta", Link: "https://d.com/4", Source: "Internshala"},
}

func TestCompose(t *testing.T) {
	got := Compose("Asha", 12, jobs, SMSMaxLength)
	want := "Hello Asha! We found 12 internship opportunities for you.\n\n" +
		"1. Software Intern at Acme\n" +
		"2. Data Intern at Beta\n" +
		"3. ML Trainee at Gamma\n" +
		"\nCheck your email for more details!"
	assert.Equal(t, want, got)
}

func TestComposeTruncates(t *testing.T) {
	long := []models.JobPosting{{Title: strings.Repeat("é", 3000), Company: "X"}}
	got := Compose("Asha", 1, long, SMSMaxLength)
	assert.Equal(t, SMSMaxLength, len([]rune(got)))
}

func TestShouldNotify(t *testing.T) {
	assert.True(t, ShouldNotify(true, "+15551234567", 3))
	assert.False(t, ShouldNotify(false, "+15551234567", 3))
	assert.False(t, ShouldNotify(true, "  ", 3))
	assert.False(t, ShouldNotify(true, "+15551234567", 0))
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"98765 43210":       "+919876543210",
		"+1 (555) 123-4567": "+15551234567",
		"":                  "",
		"+":                 "",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizePhone(input, DefaultCountryPrefix), "input %q", input)
	}
}

type fakeCreator struct {
	got *openapi.CreateMessageParams
	err error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.got = params
	return &openapi.ApiV2010Message{}, f.err
}

func TestTwilioSend(t *testing.T) {
	fake := &fakeCreator{}
	sms := &TwilioSMS{api: fake, from: "+15550000000", prefix: DefaultCountryPrefix}

	require.NoError(t, sms.Send(context.Background(), "9876543210", "hi"))
	require.NotNil(t, fake.got)
	assert.Equal(t, "+919876543210", *fake.got.To)
	assert.Equal(t, "+15550000000", *fake.got.From)
	assert.Equal(t, "hi", *fake.got.Body)
}

func TestTwilioNotConfigured(t *testing.T) {
	sms := NewTwilioSMS(SMSConfig{})
	assert.False(t, sms.Configured())
	assert.ErrorIs(t, sms.Send(context.Background(), "+1555", "hi"), ErrNotConfigured)
	assert.False(t, Deliver(context.Background(), sms, "+1555", "hi", zerolog.Nop()))
}

func TestDeliverReportsFailure(t *testing.T) {
	sms := &TwilioSMS{api: &fakeCreator{err: errors.New("21211 invalid number")}, from: "+1555", prefix: "+91"}
	assert.False(t, Deliver(context.Background(), sms, "123", "hi", zerolog.Nop()))

	ok := &TwilioSMS{api: &fakeCreator{}, from: "+1555", prefix: "+91"}
	assert.True(t, Deliver(context.Background(), ok, "123", "hi", zerolog.Nop()))
}

type fakeBot struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestTelegramSendsToConfiguredChat(t *testing.T) {
	bot := &fakeBot{}
	tg := NewTelegram("token", 4242)
	tg.bot = bot

	require.NoError(t, tg.Send(context.Background(), "+919876543210", strings.Repeat("a", 5000)))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(4242), bot.sent[0].ChatID)
	assert.Len(t, bot.sent[0].Text, TelegramMaxLength)
}

func TestMulti(t *testing.T) {
	bot := &fakeBot{}
	tg := NewTelegram("token", 1)
	tg.bot = bot
	failing := &TwilioSMS{api: &fakeCreator{err: errors.New("down")}, from: "+1555", prefix: "+91"}

	m := Multi{failing, tg, NewTwilioSMS(SMSConfig{})}
	assert.True(t, m.Configured())
	assert.Equal(t, "twilio+telegram", m.Name())
	assert.NoError(t, m.Send(context.Background(), "+15551234567", "hi"))

	assert.ErrorIs(t, Multi{Disabled{}}.Send(context.Background(), "x", "y"), ErrNotConfigured)
	assert.Error(t, Multi{failing}.Send(context.Background(), "x", "y"))
}
