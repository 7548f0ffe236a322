// Package auth orchestrates credential discovery: probe the gh CLI for an
// existing token first, fall back to the OAuth device authorization grant,
// and persist whichever credential wins to the credential store and the
// shared context.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/J-x-Z/native-hub/internal/appctx"
	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/credstore"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/model"
)

// ErrNotAuthenticated is returned when no credential could be resolved
// from any strategy.
var ErrNotAuthenticated = errors.New("not authenticated: run login or install the gh CLI")

// FlowError is a terminal OAuth device flow failure carrying the error
// code returned by the token endpoint.
type FlowError struct {
	Code string
}

func (e *FlowError) Error() string {
	switch e.Code {
	case "expired_token":
		return "device code expired"
	case "access_denied":
		return "user denied access"
	default:
		return fmt.Sprintf("auth error: %s", e.Code)
	}
}

// Notifier receives intermediate progress from a login attempt. Terminal
// outcomes are reported through Login's return values so the caller emits
// exactly one terminal event.
type Notifier interface {
	Log(line string)
	DeviceCode(code model.DeviceCode)
}

// Controller drives the authentication flow. One controller serves the
// whole process; each Login call is an independent attempt.
type Controller struct {
	shared    *appctx.Context
	store     credstore.Store
	endpoints Endpoints

	// cliToken is swappable in tests.
	cliToken func(ctx context.Context) (string, error)
	// sleep is swappable in tests so poll sequences run instantly.
	sleep sleepFunc
}

// New creates a controller bound to the shared context and credential
// store, talking to the public GitHub endpoints.
func New(shared *appctx.Context, store credstore.Store) *Controller {
	return &Controller{
		shared:    shared,
		store:     store,
		endpoints: DefaultEndpoints(),
		cliToken:  TokenFromCLI,
		sleep:     realSleep,
	}
}

// WithEndpoints overrides the OAuth endpoints (tests, GitHub Enterprise).
func (c *Controller) WithEndpoints(e Endpoints) *Controller {
	c.endpoints = e
	return c
}

// Login runs the full flow: CLI probe, then device code request and token
// polling. On success the token is persisted and installed in the shared
// context before Login returns it.
func (c *Controller) Login(ctx context.Context, n Notifier) (string, error) {
	gen := c.shared.LoginGeneration()

	n.Log("Scanning for gh CLI...")
	token, err := c.cliToken(ctx)
	if err == nil {
		n.Log("gh CLI token found.")
		c.install(token, gen, n)
		return token, nil
	}
	n.Log(fmt.Sprintf("gh CLI not available: %v", err))
	n.Log("Falling back to OAuth device flow...")

	code, err := c.requestDeviceCode(ctx)
	if err != nil {
		return "", err
	}
	n.Log("Device code received.")
	n.DeviceCode(code)

	n.Log("Polling for token...")
	token, err = c.pollAccessToken(ctx, code.DeviceCode, code.Interval)
	if err != nil {
		return "", err
	}
	n.Log("Access token acquired.")

	c.install(token, gen, n)
	return token, nil
}

// install persists the token and publishes it to the shared context,
// unless a newer login already succeeded.
func (c *Controller) install(token string, gen uint64, n Notifier) {
	if err := c.store.Set(constants.CredentialService, constants.CredentialAccount, token); err != nil {
		log.Warn("failed to persist token", "error", err)
	} else {
		n.Log("Token stored.")
	}
	if !c.shared.SetToken(token, gen) {
		log.Debug("stale login result discarded")
	}
}

// ResolveToken is the token resolution policy shared with the REST
// engine: the gh CLI wins outright when it answers; otherwise the
// persisted credential is used; otherwise the user must authenticate.
func (c *Controller) ResolveToken(ctx context.Context) (string, error) {
	if token, err := c.cliToken(ctx); err == nil {
		return token, nil
	} else {
		log.Debug("gh CLI token unavailable", "error", err)
	}

	token, err := c.store.Get(constants.CredentialService, constants.CredentialAccount)
	if err == nil && token != "" {
		return token, nil
	}
	return "", ErrNotAuthenticated
}
