package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
)

// SMSSender delivers one-time codes through the Twilio messaging API.
type SMSSender struct {
	cfg    config.TwilioConfig
	client *http.Client
}

func NewSMSSender(cfg config.TwilioConfig) *SMSSender {
	return &SMSSender{cfg: cfg, client: &http.Client{}}
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Send texts the code to the given phone number. The request honours ctx, so
// the dispatcher's timeout bounds the call.
func (s *SMSSender) Send(ctx context.Context, to, code string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", fmt.Sprintf("Your verification code is %s.", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var tr twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		if tr.ErrorMessage != "" {
			return fmt.Errorf("twilio: %s", tr.ErrorMessage)
		}
		return fmt.Errorf("twilio: unexpected status %d", resp.StatusCode)
	}
	return nil
}
