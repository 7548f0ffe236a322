package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/J-x-Z/native-hub/internal/appctx"
	"github.com/J-x-Z/native-hub/internal/model"
)

// ErrNoToken is returned by the shared REST engine when no access token
// has been installed in the shared context yet.
var ErrNoToken = errors.New("no access token installed: log in first")

// SharedRest is a REST engine bound to the shared context instead of a
// fixed token. The strategy is still chosen once at construction; the
// underlying client is rebuilt whenever a login publishes a new token,
// so work started after a login uses the fresh credential.
type SharedRest struct {
	shared  *appctx.Context
	baseURL string

	mu  sync.Mutex
	eng *RestEngine
	gen uint64
}

var _ Engine = (*SharedRest)(nil)

// NewSharedRest creates a shared-context REST engine. baseURL overrides
// the API root; empty means api.github.com.
func NewSharedRest(shared *appctx.Context, baseURL string) *SharedRest {
	return &SharedRest{shared: shared, baseURL: baseURL}
}

// current returns the engine for the currently installed token,
// rebuilding it if a newer login landed since the last call.
func (e *SharedRest) current(ctx context.Context) (*RestEngine, error) {
	token, ok := e.shared.Token()
	if !ok {
		return nil, ErrNoToken
	}
	gen := e.shared.LoginGeneration()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.eng == nil || gen != e.gen {
		eng, err := NewRestEngine(ctx, token, e.shared.HTTPClient, e.baseURL)
		if err != nil {
			return nil, err
		}
		e.eng = eng
		e.gen = gen
	}
	return e.eng, nil
}

func (e *SharedRest) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ListRepositories(ctx)
}

func (e *SharedRest) GetRepositoryInfo(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.RepoInfo{}, err
	}
	return eng.GetRepositoryInfo(ctx, ref)
}

func (e *SharedRest) ListDirectory(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ListDirectory(ctx, ref, path)
}

func (e *SharedRest) ReadFile(ctx context.Context, downloadURL string) (string, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return "", err
	}
	return eng.ReadFile(ctx, downloadURL)
}

func (e *SharedRest) SearchRepositories(ctx context.Context, query string) (model.SearchResult, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.SearchResult{}, err
	}
	return eng.SearchRepositories(ctx, query)
}

func (e *SharedRest) ListIssues(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ListIssues(ctx, ref, state)
}

func (e *SharedRest) ListIssueComments(ctx context.Context, ref model.RepoRef, number int) ([]model.Comment, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ListIssueComments(ctx, ref, number)
}

func (e *SharedRest) CreateComment(ctx context.Context, ref model.RepoRef, number int, body string) (model.Comment, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.Comment{}, err
	}
	return eng.CreateComment(ctx, ref, number, body)
}

func (e *SharedRest) SetIssueState(ctx context.Context, ref model.RepoRef, number int, state string) (model.Issue, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.Issue{}, err
	}
	return eng.SetIssueState(ctx, ref, number, state)
}

func (e *SharedRest) ListPullRequests(ctx context.Context, ref model.RepoRef, state string) ([]model.PullRequest, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ListPullRequests(ctx, ref, state)
}

func (e *SharedRest) MergePullRequest(ctx context.Context, ref model.RepoRef, number int, method string) (model.MergeResult, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.MergeResult{}, err
	}
	return eng.MergePullRequest(ctx, ref, number, method)
}

func (e *SharedRest) ClosePullRequest(ctx context.Context, ref model.RepoRef, number int) (model.PullRequest, error) {
	eng, err := e.current(ctx)
	if err != nil {
		return model.PullRequest{}, err
	}
	return eng.ClosePullRequest(ctx, ref, number)
}
