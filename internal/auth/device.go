package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/engine"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/model"
)

// Endpoints are the OAuth device flow URLs and client identifier.
type Endpoints struct {
	DeviceCodeURL string
	TokenURL      string
	// ClientID overrides the GITHUB_CLIENT_ID environment variable when
	// set (config file, tests).
	ClientID string
}

// DefaultEndpoints returns the public GitHub endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DeviceCodeURL: constants.DeviceCodeURL,
		TokenURL:      constants.AccessTokenURL,
	}
}

func (e Endpoints) clientID() (string, error) {
	if e.ClientID != "" {
		return e.ClientID, nil
	}
	if id := os.Getenv("GITHUB_CLIENT_ID"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("GITHUB_CLIENT_ID environment variable not set; set it to your OAuth app client ID")
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// requestDeviceCode POSTs to the device code endpoint and returns the
// user-facing code bundle.
func (c *Controller) requestDeviceCode(ctx context.Context) (model.DeviceCode, error) {
	clientID, err := c.endpoints.clientID()
	if err != nil {
		return model.DeviceCode{}, err
	}

	form := url.Values{
		"client_id": {clientID},
		"scope":     {constants.OAuthScope},
	}
	body, err := c.postForm(ctx, c.endpoints.DeviceCodeURL, form)
	if err != nil {
		return model.DeviceCode{}, err
	}

	var code model.DeviceCode
	if err := json.Unmarshal(body, &code); err != nil {
		return model.DeviceCode{}, &engine.ParseError{What: "device code response", Err: err}
	}
	if code.DeviceCode == "" {
		return model.DeviceCode{}, &engine.ParseError{What: "device code response", Err: fmt.Errorf("missing device_code in %q", body)}
	}
	return code, nil
}

// pollResult is the explicit tagged decoding of the token endpoint
// response: exactly one of Token or Code is set.
type pollResult struct {
	Token string
	Code  string
}

// parsePollResponse tries the success shape first, then the error shape.
// A body matching neither is a ParseError.
func parsePollResponse(body []byte) (pollResult, error) {
	var success struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
	}
	if err := json.Unmarshal(body, &success); err == nil && success.AccessToken != "" {
		return pollResult{Token: success.AccessToken}, nil
	}

	var failure struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Error != "" {
		return pollResult{Code: failure.Error}, nil
	}

	return pollResult{}, &engine.ParseError{What: "token poll response", Err: fmt.Errorf("unrecognized shape: %q", body)}
}

// pollAccessToken polls the token endpoint until a terminal outcome. The
// interval starts at the server-supplied value plus padding; slow_down
// responses stretch it. There is no client-side expiry check: an expired
// code is discovered through the expired_token response.
func (c *Controller) pollAccessToken(ctx context.Context, deviceCode string, intervalSeconds int) (string, error) {
	clientID, err := c.endpoints.clientID()
	if err != nil {
		return "", err
	}

	form := url.Values{
		"client_id":   {clientID},
		"device_code": {deviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	}
	interval := time.Duration(intervalSeconds)*time.Second + constants.PollIntervalPadding

	for {
		if err := c.sleep(ctx, interval); err != nil {
			return "", err
		}

		body, err := c.postForm(ctx, c.endpoints.TokenURL, form)
		if err != nil {
			return "", err
		}

		result, err := parsePollResponse(body)
		if err != nil {
			return "", err
		}
		if result.Token != "" {
			return result.Token, nil
		}

		switch result.Code {
		case "authorization_pending":
			log.Debug("authorization pending")
		case "slow_down":
			interval += constants.SlowDownPenalty
			log.Debug("polling too fast, slowing down", "interval", interval)
		default:
			return "", &FlowError{Code: result.Code}
		}
	}
}

// postForm sends an application/json-accepting form POST through the
// shared HTTP client and returns the body of a 2xx response.
func (c *Controller) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.shared.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &engine.HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
