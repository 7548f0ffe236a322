// Package engine abstracts repository fetching behind a capability
// interface with two interchangeable strategies: CliEngine shells out to
// the gh command line tool, RestEngine talks to the GitHub REST API
// directly. The caller picks one at construction time.
package engine

import (
	"context"

	"github.com/J-x-Z/native-hub/internal/model"
)

// Engine is the capability set exposed to the command bridge. All calls
// are blocking and context-aware; implementations return snapshots that
// are safe to share.
type Engine interface {
	ListRepositories(ctx context.Context) ([]model.Repository, error)
	GetRepositoryInfo(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error)
	ListDirectory(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error)
	ReadFile(ctx context.Context, downloadURL string) (string, error)
	SearchRepositories(ctx context.Context, query string) (model.SearchResult, error)
	ListIssues(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error)
	ListIssueComments(ctx context.Context, ref model.RepoRef, number int) ([]model.Comment, error)
	CreateComment(ctx context.Context, ref model.RepoRef, number int, body string) (model.Comment, error)
	SetIssueState(ctx context.Context, ref model.RepoRef, number int, state string) (model.Issue, error)
	ListPullRequests(ctx context.Context, ref model.RepoRef, state string) ([]model.PullRequest, error)
	MergePullRequest(ctx context.Context, ref model.RepoRef, number int, method string) (model.MergeResult, error)
	ClosePullRequest(ctx context.Context, ref model.RepoRef, number int) (model.PullRequest, error)
}

// Ensure both strategies implement Engine.
var (
	_ Engine = (*CliEngine)(nil)
	_ Engine = (*RestEngine)(nil)
)
