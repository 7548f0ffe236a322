package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/J-x-Z/native-hub/internal/appctx"
)

func TestSharedRestRequiresToken(t *testing.T) {
	shared := appctx.New()
	e := NewSharedRest(shared, "http://unused.invalid")

	_, err := e.ListRepositories(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken before login, got %v", err)
	}
}

func TestSharedRestPicksUpNewToken(t *testing.T) {
	var lastAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	shared := appctx.New()
	e := NewSharedRest(shared, srv.URL)

	shared.SeedToken("first")
	if _, err := e.ListRepositories(context.Background()); err != nil {
		t.Fatalf("list with seeded token: %v", err)
	}
	if lastAuth != "Bearer first" {
		t.Fatalf("expected first token on the wire, got %q", lastAuth)
	}

	gen := shared.LoginGeneration()
	if !shared.SetToken("second", gen) {
		t.Fatalf("SetToken rejected a current generation")
	}
	if _, err := e.ListRepositories(context.Background()); err != nil {
		t.Fatalf("list after token rotation: %v", err)
	}
	if lastAuth != "Bearer second" {
		t.Fatalf("expected rotated token on the wire, got %q", lastAuth)
	}
}
