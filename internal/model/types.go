// Package model contains domain types for the native-hub application.
// These types are independent of any external GitHub library. All of them
// are read-only snapshots of remote state at fetch time: a later fetch for
// the same identifier replaces the previous snapshot wholesale, nothing is
// reconciled in place.
package model

import "time"

// NodeType says whether a repository content node is a file or a directory.
type NodeType string

const (
	NodeFile NodeType = "file"
	NodeDir  NodeType = "dir"
)

// Repository is a summary of a repository as returned by listing and
// search calls.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	UpdatedAt   string `json:"updatedAt"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
}

// FileNode is one entry of a repository contents listing. DownloadURL is
// empty for directories.
type FileNode struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Type        NodeType `json:"type"`
	DownloadURL string   `json:"downloadUrl,omitempty"`
	Size        int64    `json:"size"`
}

// IsDir reports whether the node is a directory.
func (n FileNode) IsDir() bool {
	return n.Type == NodeDir
}

// RepoInfo is the metadata panel payload for a single repository.
type RepoInfo struct {
	Description   string   `json:"description"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	Watchers      int      `json:"watchers"`
	Language      string   `json:"language"`
	Topics        []string `json:"topics"`
	License       string   `json:"license"`
	OpenIssues    int      `json:"openIssues"`
	DefaultBranch string   `json:"defaultBranch"`
}

// SearchResult is the payload of a repository search.
type SearchResult struct {
	TotalCount        int          `json:"totalCount"`
	IncompleteResults bool         `json:"incompleteResults"`
	Items             []Repository `json:"items"`
}

// Issue is a snapshot of a remote issue. IsPullRequest is set when the raw
// entry carried a pull request marker; the issues endpoint returns pull
// requests as a superset of issues and callers filter them out before
// display.
type Issue struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	State         string    `json:"state"`
	Author        string    `json:"author"`
	Labels        []string  `json:"labels"`
	Comments      int       `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	IsPullRequest bool      `json:"isPullRequest"`
}

// Comment is a single issue or pull request comment.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// PullRequest is a snapshot of a remote pull request.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	Draft     bool      `json:"draft"`
	BaseRef   string    `json:"baseRef"`
	HeadRef   string    `json:"headRef"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MergeResult is the response of a pull request merge.
type MergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// DeviceCode is the OAuth device authorization response. It is created
// once per login attempt and discarded when the attempt terminates.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}
