package bridge

import "github.com/J-x-Z/native-hub/internal/model"

// Event is a notification from the backend to the UI. Delivery is
// at-most-once: events queued after the UI shuts down are dropped. Within
// one work unit events arrive in program order; across work units the
// order is undefined and the UI keys on event type and payload.
type Event interface {
	isEvent()
}

// LogLine is a human-readable progress line.
type LogLine struct {
	Text string
}

// DeviceCodeIssued carries the OAuth device flow code the user must enter.
type DeviceCodeIssued struct {
	Code model.DeviceCode
}

// AuthSucceeded reports a completed login.
type AuthSucceeded struct {
	Token string
}

// Failed is the single terminal failure event of a work unit.
type Failed struct {
	Message string
}

// RepositoryList carries the result of a repository listing.
type RepositoryList struct {
	Items []model.Repository
}

// DirectoryListed carries one directory's contents.
type DirectoryListed struct {
	Path  string
	Nodes []model.FileNode
}

// FileRead carries raw file content.
type FileRead struct {
	Name    string
	Content string
}

// RepositoryInfoLoaded carries repository metadata.
type RepositoryInfoLoaded struct {
	Info model.RepoInfo
}

// ReadmeLoaded carries the README preview fetched after a root listing.
type ReadmeLoaded struct {
	Text string
}

// SearchResults carries a repository search result.
type SearchResults struct {
	Result model.SearchResult
}

// IssueList carries issues with pull requests already filtered out.
type IssueList struct {
	Items []model.Issue
}

// IssueCommentsLoaded carries one issue's comments.
type IssueCommentsLoaded struct {
	Number   int
	Comments []model.Comment
}

// CommentCreated confirms a posted comment.
type CommentCreated struct {
	Comment model.Comment
}

// IssueStateChanged carries the issue snapshot after a state change.
type IssueStateChanged struct {
	Issue model.Issue
}

// PullRequestList carries the result of a pull request listing.
type PullRequestList struct {
	Items []model.PullRequest
}

// PullRequestMerged carries the merge outcome.
type PullRequestMerged struct {
	Result model.MergeResult
}

// PullRequestClosed carries the pull request snapshot after closing.
type PullRequestClosed struct {
	PR model.PullRequest
}

func (LogLine) isEvent()              {}
func (DeviceCodeIssued) isEvent()     {}
func (AuthSucceeded) isEvent()        {}
func (Failed) isEvent()               {}
func (RepositoryList) isEvent()       {}
func (DirectoryListed) isEvent()      {}
func (FileRead) isEvent()             {}
func (RepositoryInfoLoaded) isEvent() {}
func (ReadmeLoaded) isEvent()         {}
func (SearchResults) isEvent()        {}
func (IssueList) isEvent()            {}
func (IssueCommentsLoaded) isEvent()  {}
func (CommentCreated) isEvent()       {}
func (IssueStateChanged) isEvent()    {}
func (PullRequestList) isEvent()      {}
func (PullRequestMerged) isEvent()    {}
func (PullRequestClosed) isEvent()    {}
