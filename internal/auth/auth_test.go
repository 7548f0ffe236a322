package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/J-x-Z/native-hub/internal/appctx"
	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/credstore"
	"github.com/J-x-Z/native-hub/internal/model"
)

// recordingNotifier captures intermediate progress.
type recordingNotifier struct {
	logs  []string
	codes []model.DeviceCode
}

func (n *recordingNotifier) Log(line string)               { n.logs = append(n.logs, line) }
func (n *recordingNotifier) DeviceCode(c model.DeviceCode) { n.codes = append(n.codes, c) }

// scriptedStore is a credstore.Store that records accesses.
type scriptedStore struct {
	secrets map[string]string
	gets    int
	sets    int
}

func newScriptedStore() *scriptedStore {
	return &scriptedStore{secrets: map[string]string{}}
}

func (s *scriptedStore) Get(service, account string) (string, error) {
	s.gets++
	if secret, ok := s.secrets[service+"/"+account]; ok {
		return secret, nil
	}
	return "", credstore.ErrNotFound
}

func (s *scriptedStore) Set(service, account, secret string) error {
	s.sets++
	s.secrets[service+"/"+account] = secret
	return nil
}

// newTestController wires a controller whose sleeps are recorded instead
// of waited out.
func newTestController(store credstore.Store, cli func(context.Context) (string, error)) (*Controller, *appctx.Context, *[]time.Duration) {
	shared := appctx.New()
	sleeps := &[]time.Duration{}
	c := New(shared, store)
	c.cliToken = cli
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return c, shared, sleeps
}

func cliUnavailable(context.Context) (string, error) {
	return "", errors.New("gh: command not found")
}

func TestLoginCLIShortCircuit(t *testing.T) {
	store := newScriptedStore()
	c, shared, _ := newTestController(store, func(context.Context) (string, error) {
		return "gho_cli_token", nil
	})

	n := &recordingNotifier{}
	token, err := c.Login(context.Background(), n)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "gho_cli_token" {
		t.Errorf("expected CLI token, got %q", token)
	}

	if got, ok := shared.Token(); !ok || got != "gho_cli_token" {
		t.Errorf("shared context not updated: %q", got)
	}
	if store.sets != 1 {
		t.Errorf("expected token persisted once, got %d writes", store.sets)
	}
	if len(n.codes) != 0 {
		t.Error("device flow must not run when CLI probe succeeds")
	}
}

func TestLoginDeviceFlow(t *testing.T) {
	// Scripted endpoint: pending, pending, slow_down, then success.
	responses := []string{
		`{"error":"authorization_pending"}`,
		`{"error":"authorization_pending"}`,
		`{"error":"slow_down"}`,
		`{"access_token":"T","token_type":"bearer","scope":"repo"}`,
	}
	var polls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login/device/code", func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("client_id"); got != "test-client" {
			t.Errorf("expected client_id=test-client, got %q", got)
		}
		fmt.Fprint(w, `{"device_code":"dev123","user_code":"ABCD-1234","verification_uri":"https://example.com/device","expires_in":900,"interval":5}`)
	})
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("device_code"); got != "dev123" {
			t.Errorf("expected device_code=dev123, got %q", got)
		}
		fmt.Fprint(w, responses[polls])
		polls++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newScriptedStore()
	c, shared, sleeps := newTestController(store, cliUnavailable)
	c.WithEndpoints(Endpoints{
		DeviceCodeURL: srv.URL + "/login/device/code",
		TokenURL:      srv.URL + "/login/oauth/access_token",
		ClientID:      "test-client",
	})

	n := &recordingNotifier{}
	token, err := c.Login(context.Background(), n)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "T" {
		t.Errorf("expected token T, got %q", token)
	}
	if polls != 4 {
		t.Errorf("expected 4 polls, got %d", polls)
	}

	// The server asked for 5s; we pad by 1s. slow_down adds 5s for the
	// final poll.
	want := []time.Duration{6 * time.Second, 6 * time.Second, 6 * time.Second, 11 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(*sleeps))
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, (*sleeps)[i])
		}
	}

	if len(n.codes) != 1 || n.codes[0].UserCode != "ABCD-1234" {
		t.Errorf("device code not surfaced: %+v", n.codes)
	}
	if got, ok := shared.Token(); !ok || got != "T" {
		t.Errorf("shared context not updated: %q", got)
	}
	if store.secrets[constants.CredentialService+"/"+constants.CredentialAccount] != "T" {
		t.Error("token not persisted to credential store")
	}
}

func TestLoginTerminalPollFailures(t *testing.T) {
	for _, code := range []string{"expired_token", "access_denied", "incorrect_device_code"} {
		t.Run(code, func(t *testing.T) {
			var polls int
			mux := http.NewServeMux()
			mux.HandleFunc("/login/device/code", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"device_code":"dev123","user_code":"ABCD-1234","verification_uri":"https://example.com/device","expires_in":900,"interval":1}`)
			})
			mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
				polls++
				fmt.Fprintf(w, `{"error":%q}`, code)
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			c, _, _ := newTestController(newScriptedStore(), cliUnavailable)
			c.WithEndpoints(Endpoints{
				DeviceCodeURL: srv.URL + "/login/device/code",
				TokenURL:      srv.URL + "/login/oauth/access_token",
				ClientID:      "test-client",
			})

			_, err := c.Login(context.Background(), &recordingNotifier{})
			var flowErr *FlowError
			if !errors.As(err, &flowErr) {
				t.Fatalf("expected FlowError, got %v", err)
			}
			if flowErr.Code != code {
				t.Errorf("expected code %q, got %q", code, flowErr.Code)
			}
			if polls != 1 {
				t.Errorf("expected exactly 1 poll, got %d", polls)
			}
		})
	}
}

func TestLoginMissingClientID(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "")

	c, _, _ := newTestController(newScriptedStore(), cliUnavailable)
	_, err := c.Login(context.Background(), &recordingNotifier{})
	if err == nil {
		t.Fatal("expected failure without a client ID")
	}
}

func TestParsePollResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		token   string
		code    string
		wantErr bool
	}{
		{name: "success", body: `{"access_token":"T","token_type":"bearer","scope":"repo"}`, token: "T"},
		{name: "error", body: `{"error":"authorization_pending","error_description":"waiting"}`, code: "authorization_pending"},
		{name: "neither shape", body: `{"unexpected":true}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parsePollResponse([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected parse error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Token != tt.token || result.Code != tt.code {
				t.Errorf("expected {%q %q}, got %+v", tt.token, tt.code, result)
			}
		})
	}
}

func TestResolveTokenPrecedence(t *testing.T) {
	store := newScriptedStore()
	store.secrets[constants.CredentialService+"/"+constants.CredentialAccount] = "stored_token"

	c, _, _ := newTestController(store, func(context.Context) (string, error) {
		return "cli_token", nil
	})

	token, err := c.ResolveToken(context.Background())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if token != "cli_token" {
		t.Errorf("CLI token must win, got %q", token)
	}
	if store.gets != 0 {
		t.Errorf("store consulted %d times despite CLI success", store.gets)
	}
}

func TestResolveTokenFallsBackToStore(t *testing.T) {
	store := newScriptedStore()
	store.secrets[constants.CredentialService+"/"+constants.CredentialAccount] = "stored_token"

	c, _, _ := newTestController(store, cliUnavailable)

	token, err := c.ResolveToken(context.Background())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if token != "stored_token" {
		t.Errorf("expected stored token, got %q", token)
	}
}

func TestResolveTokenNothingAvailable(t *testing.T) {
	c, _, _ := newTestController(newScriptedStore(), cliUnavailable)

	_, err := c.ResolveToken(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}
