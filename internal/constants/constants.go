// Package constants provides a centralized location for all configuration
// values and magic numbers used throughout the native-hub application.
package constants

import "time"

// Bridge channel constants
const (
	// ActionQueueSize is the capacity of the inbound action channel. The
	// UI enqueues without blocking; a full queue drops the action and the
	// UI shows a local warning.
	ActionQueueSize = 100
)

// GitHub API constants
const (
	// UserAgent is sent on every HTTP request, REST and raw download alike.
	UserAgent = "native-hub/1.0"

	// APIVersion is the value of the X-GitHub-Api-Version header set on
	// every REST API call.
	APIVersion = "2022-11-28"

	// PageSize is the maximum number of items requested per page for
	// search, issue, and pull request listings.
	PageSize = 100

	// RepoListLimit caps repository listings for both engines.
	RepoListLimit = 50
)

// OAuth device flow constants
const (
	// DeviceCodeURL is the endpoint that issues device and user codes.
	DeviceCodeURL = "https://github.com/login/device/code"

	// AccessTokenURL is the endpoint polled for the access token.
	AccessTokenURL = "https://github.com/login/oauth/access_token"

	// OAuthScope is requested during the device code exchange.
	OAuthScope = "repo user read:org"

	// PollIntervalPadding is added to the server-supplied poll interval
	// so we never poll faster than the server asked.
	PollIntervalPadding = 1 * time.Second

	// SlowDownPenalty is added to the poll interval when the server
	// answers slow_down.
	SlowDownPenalty = 5 * time.Second
)

// Credential store constants
const (
	// CredentialService namespaces secrets in the credential store.
	CredentialService = "native-hub"

	// CredentialAccount is the account key under which the GitHub OAuth
	// token is stored.
	CredentialAccount = "github_oauth"
)

// Issue and pull request state constants
const (
	// StateOpen indicates an issue or PR is open.
	StateOpen = "open"

	// StateClosed indicates an issue or PR is closed.
	StateClosed = "closed"

	// StateAll requests both open and closed items.
	StateAll = "all"
)

// Merge method constants accepted by the pull request merge endpoint.
const (
	MergeMethodMerge  = "merge"
	MergeMethodSquash = "squash"
	MergeMethodRebase = "rebase"
)
