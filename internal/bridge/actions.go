// Package bridge connects the synchronous UI loop to the asynchronous
// backend. The UI submits Actions without blocking; a dispatch loop spawns
// one work unit per Action; work units push Events onto an unbounded
// best-effort queue the UI drains on its own schedule.
package bridge

// Action is a command issued by the UI. The union is closed: only the
// types in this file implement it.
type Action interface {
	isAction()
}

// Login starts an authentication attempt.
type Login struct{}

// Cancel aborts in-flight work according to the configured cancel scope.
type Cancel struct{}

// ListRepositories fetches the authenticated user's repositories.
type ListRepositories struct{}

// SelectRepository opens a repository: metadata, root listing, and a
// README preview when one exists.
type SelectRepository struct {
	Repo string
}

// ListDirectory fetches the contents of a repository path. An empty Path
// addresses the repository root.
type ListDirectory struct {
	Repo string
	Path string
}

// ReadFile fetches raw file content by download URL.
type ReadFile struct {
	Name string
	URL  string
}

// Search runs a repository search.
type Search struct {
	Query string
}

// ListIssues fetches issues filtered by state (open, closed, all).
type ListIssues struct {
	Repo  string
	State string
}

// ListIssueComments fetches the comments of one issue.
type ListIssueComments struct {
	Repo   string
	Number int
}

// CreateComment posts a comment on an issue or pull request.
type CreateComment struct {
	Repo   string
	Number int
	Body   string
}

// SetIssueState opens or closes an issue.
type SetIssueState struct {
	Repo   string
	Number int
	State  string
}

// ListPullRequests fetches pull requests filtered by state.
type ListPullRequests struct {
	Repo  string
	State string
}

// MergePullRequest merges with the given method (merge, squash, rebase).
type MergePullRequest struct {
	Repo   string
	Number int
	Method string
}

// ClosePullRequest closes a pull request without merging.
type ClosePullRequest struct {
	Repo   string
	Number int
}

func (Login) isAction()             {}
func (Cancel) isAction()            {}
func (ListRepositories) isAction()  {}
func (SelectRepository) isAction()  {}
func (ListDirectory) isAction()     {}
func (ReadFile) isAction()          {}
func (Search) isAction()            {}
func (ListIssues) isAction()        {}
func (ListIssueComments) isAction() {}
func (CreateComment) isAction()     {}
func (SetIssueState) isAction()     {}
func (ListPullRequests) isAction()  {}
func (MergePullRequest) isAction()  {}
func (ClosePullRequest) isAction()  {}
