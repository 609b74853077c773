package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const (
	DefaultMaxSmsLength = 160
	defaultCountryCode  = "+221"

	ProviderTwilio = "twilio"
	ProviderVonage = "vonage"

	twilioBaseURL = "https://api.twilio.com"
	vonageBaseURL = "https://rest.nexmo.com"
)

var ErrUnknownSmsProvider = errors.New("unknown sms provider")

func smsIcon(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "🚨"
	case models.SeverityWarning:
		return "⚠️"
	case models.SeverityInfo:
		return "ℹ️"
	case models.SeveritySuccess:
		return "✅"
	default:
		return "🔔"
	}
}

// FormatSms builds "{icon} {brand}: {message}" cut to maxLength runes.
func FormatSms(brand string, req *models.NotificationRequest, maxLength int) string {
	text := fmt.Sprintf("%s %s: %s", smsIcon(req.Severity), brand, req.Message)
	runes := []rune(text)
	if maxLength <= 3 || len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}

// CleanPhoneNumber normalizes a number to international form. Numbers without
// a prefix get the default country code.
func CleanPhoneNumber(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if strings.HasPrefix(cleaned, "00") {
		cleaned = "+" + cleaned[2:]
	}
	if cleaned != "" && !strings.HasPrefix(cleaned, "+") && !strings.HasPrefix(cleaned, "0") {
		cleaned = defaultCountryCode + cleaned
	}
	return cleaned
}

type SmsConfig struct {
	AccountID  string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

func newRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")
}

// NewSmsSender picks the provider implementation by name.
func NewSmsSender(provider string, config SmsConfig) (SmsSender, error) {
	switch strings.ToLower(provider) {
	case ProviderTwilio:
		return NewTwilioSender(config), nil
	case ProviderVonage:
		return NewVonageSender(config), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSmsProvider, provider)
	}
}

type TwilioSender struct {
	client *resty.Client
	config SmsConfig
}

func NewTwilioSender(config SmsConfig) *TwilioSender {
	if config.BaseURL == "" {
		config.BaseURL = twilioBaseURL
	}
	return &TwilioSender{client: newRestyClient(config.BaseURL), config: config}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *TwilioSender) Send(ctx context.Context, phone, text string) error {
	var apiErr twilioError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.config.AccountID, s.config.AuthToken).
		SetFormData(map[string]string{
			"To":   CleanPhoneNumber(phone),
			"From": s.config.FromNumber,
			"Body": text,
		}).
		SetError(&apiErr).
		SetPathParam("sid", s.config.AccountID).
		Post("/2010-04-01/Accounts/{sid}/Messages.json")
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio error %d (status %d): %s", apiErr.Code, resp.StatusCode(), apiErr.Message)
	}
	return nil
}

type VonageSender struct {
	client *resty.Client
	config SmsConfig
}

func NewVonageSender(config SmsConfig) *VonageSender {
	if config.BaseURL == "" {
		config.BaseURL = vonageBaseURL
	}
	return &VonageSender{client: newRestyClient(config.BaseURL), config: config}
}

type vonageRequest struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	To        string `json:"to"`
	From      string `json:"from"`
	Text      string `json:"text"`
}

type vonageResponse struct {
	Messages []struct {
		Status    string `json:"status"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

func (s *VonageSender) Send(ctx context.Context, phone, text string) error {
	var result vonageResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(vonageRequest{
			APIKey:    s.config.AccountID,
			APISecret: s.config.AuthToken,
			// Vonage expects the number without the leading plus
			To:   strings.TrimPrefix(CleanPhoneNumber(phone), "+"),
			From: s.config.FromNumber,
			Text: text,
		}).
		SetResult(&result).
		Post("/sms/json")
	if err != nil {
		return fmt.Errorf("vonage request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("vonage http status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Messages) == 0 {
		return fmt.Errorf("vonage returned no message status")
	}
	if result.Messages[0].Status != "0" {
		return fmt.Errorf("vonage status %s: %s", result.Messages[0].Status, result.Messages[0].ErrorText)
	}
	return nil
}
