package call

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"calleroo/config"
)

// Dialer places an outbound call and returns the provider's call identifier.
type Dialer interface {
	Dial(ctx context.Context, toE164, conversationID string) (callID string, err error)
}

// RestDialer talks to a Twilio-compatible calls REST API. Webhook URLs for
// the live turn loop and the recording callback are derived from the
// configured public base URL.
type RestDialer struct {
	accountSID     string
	authToken      string
	fromNumber     string
	apiBaseURL     string
	webhookBaseURL string
	client         *http.Client
}

func NewRestDialer() *RestDialer {
	cfg := config.AppConfig
	return &RestDialer{
		accountSID:     cfg.VoiceAccountSID,
		authToken:      cfg.VoiceAuthToken,
		fromNumber:     cfg.VoiceFromNumber,
		apiBaseURL:     cfg.VoiceAPIBaseURL,
		webhookBaseURL: cfg.WebhookBaseURL,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (d *RestDialer) configured() bool {
	return d.accountSID != "" && d.authToken != "" && d.fromNumber != "" && d.webhookBaseURL != ""
}

type dialResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

func (d *RestDialer) Dial(ctx context.Context, toE164, conversationID string) (string, error) {
	if !d.configured() {
		return "", fmt.Errorf("voice provider not configured")
	}

	form := url.Values{}
	form.Set("To", toE164)
	form.Set("From", d.fromNumber)
	form.Set("Url", fmt.Sprintf("%s/telephony/voice?conversationId=%s",
		d.webhookBaseURL, url.QueryEscape(conversationID)))
	form.Set("StatusCallback", d.webhookBaseURL+"/telephony/status")
	form.Set("StatusCallbackMethod", "POST")
	form.Set("Record", "true")
	form.Set("RecordingStatusCallback", d.webhookBaseURL+"/telephony/recording")

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", d.apiBaseURL, d.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build dial request: %w", err)
	}
	req.SetBasicAuth(d.accountSID, d.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", toE164, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("voice provider returned status %d", resp.StatusCode)
	}

	var out dialResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode dial response: %w", err)
	}
	if out.SID == "" {
		return "", fmt.Errorf("voice provider returned no call sid")
	}
	return out.SID, nil
}

// FetchRecording downloads a finished call recording for transcription. The
// provider's recording URLs require basic auth.
func (d *RestDialer) FetchRecording(ctx context.Context, recordingURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordingURL+".wav", nil)
	if err != nil {
		return nil, fmt.Errorf("build recording request: %w", err)
	}
	req.SetBasicAuth(d.accountSID, d.authToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recording fetch returned status %d", resp.StatusCode)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recording body: %w", err)
	}
	return audio, nil
}
