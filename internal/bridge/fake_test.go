package bridge

import (
	"context"
	"sync"

	"github.com/J-x-Z/native-hub/internal/auth"
	"github.com/J-x-Z/native-hub/internal/model"
)

// fakeEngine is a script-driven engine: each capability is a function
// field; unset fields return zero values.
type fakeEngine struct {
	mu            sync.Mutex
	readFileCalls int

	listRepos  func(ctx context.Context) ([]model.Repository, error)
	repoInfo   func(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error)
	listDir    func(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error)
	readFile   func(ctx context.Context, url string) (string, error)
	search     func(ctx context.Context, query string) (model.SearchResult, error)
	listIssues func(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error)
	listPRs    func(ctx context.Context, ref model.RepoRef, state string) ([]model.PullRequest, error)
	merge      func(ctx context.Context, ref model.RepoRef, number int, method string) (model.MergeResult, error)
}

func (f *fakeEngine) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	if f.listRepos != nil {
		return f.listRepos(ctx)
	}
	return nil, nil
}

func (f *fakeEngine) GetRepositoryInfo(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error) {
	if f.repoInfo != nil {
		return f.repoInfo(ctx, ref)
	}
	return model.RepoInfo{}, nil
}

func (f *fakeEngine) ListDirectory(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
	if f.listDir != nil {
		return f.listDir(ctx, ref, path)
	}
	return nil, nil
}

func (f *fakeEngine) ReadFile(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.readFileCalls++
	f.mu.Unlock()
	if f.readFile != nil {
		return f.readFile(ctx, url)
	}
	return "", nil
}

func (f *fakeEngine) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readFileCalls
}

func (f *fakeEngine) SearchRepositories(ctx context.Context, query string) (model.SearchResult, error) {
	if f.search != nil {
		return f.search(ctx, query)
	}
	return model.SearchResult{}, nil
}

func (f *fakeEngine) ListIssues(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error) {
	if f.listIssues != nil {
		return f.listIssues(ctx, ref, state)
	}
	return nil, nil
}

func (f *fakeEngine) ListIssueComments(ctx context.Context, ref model.RepoRef, number int) ([]model.Comment, error) {
	return []model.Comment{{ID: 1, Author: "alice", Body: "hi"}}, nil
}

func (f *fakeEngine) CreateComment(ctx context.Context, ref model.RepoRef, number int, body string) (model.Comment, error) {
	return model.Comment{ID: 2, Author: "me", Body: body}, nil
}

func (f *fakeEngine) SetIssueState(ctx context.Context, ref model.RepoRef, number int, state string) (model.Issue, error) {
	return model.Issue{Number: number, State: state}, nil
}

func (f *fakeEngine) ListPullRequests(ctx context.Context, ref model.RepoRef, state string) ([]model.PullRequest, error) {
	if f.listPRs != nil {
		return f.listPRs(ctx, ref, state)
	}
	return nil, nil
}

func (f *fakeEngine) MergePullRequest(ctx context.Context, ref model.RepoRef, number int, method string) (model.MergeResult, error) {
	if f.merge != nil {
		return f.merge(ctx, ref, number, method)
	}
	return model.MergeResult{Merged: true}, nil
}

func (f *fakeEngine) ClosePullRequest(ctx context.Context, ref model.RepoRef, number int) (model.PullRequest, error) {
	return model.PullRequest{Number: number, State: "closed"}, nil
}

// fakeAuth scripts login outcomes.
type fakeAuth struct {
	login func(ctx context.Context, n auth.Notifier) (string, error)
}

func (f *fakeAuth) Login(ctx context.Context, n auth.Notifier) (string, error) {
	if f.login != nil {
		return f.login(ctx, n)
	}
	return "fake-token", nil
}
