package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/J-x-Z/native-hub/internal/auth"
	"github.com/J-x-Z/native-hub/internal/model"
)

// startBridge runs a bridge against the given fakes and tears it down
// with the test.
func startBridge(t *testing.T, a *fakeAuth, e *fakeEngine, scope CancelScope) *Bridge {
	t.Helper()
	if a == nil {
		a = &fakeAuth{}
	}
	if e == nil {
		e = &fakeEngine{}
	}
	b := New(a, e, scope)
	go b.Run()
	t.Cleanup(b.Close)
	return b
}

// collect drains events until pred finds a match or the timeout elapses,
// returning everything seen.
func collect(t *testing.T, b *Bridge, pred func(Event) bool) []Event {
	t.Helper()
	var seen []Event
	deadline := time.After(5 * time.Second)
	for {
		for _, e := range b.Drain() {
			seen = append(seen, e)
			if pred(e) {
				return seen
			}
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for event; saw %d events: %#v", len(seen), seen)
			return seen
		case <-time.After(time.Millisecond):
		}
	}
}

func isFailed(e Event) bool {
	_, ok := e.(Failed)
	return ok
}

func TestEveryActionYieldsTerminalEvent(t *testing.T) {
	terminal := func(target Event) func(Event) bool {
		return func(e Event) bool {
			if isFailed(e) {
				return true
			}
			// Same concrete type as the expected success event.
			return eventType(e) == eventType(target)
		}
	}

	tests := []struct {
		name    string
		action  Action
		success Event
	}{
		{name: "login", action: Login{}, success: AuthSucceeded{}},
		{name: "list repositories", action: ListRepositories{}, success: RepositoryList{}},
		{name: "select repository", action: SelectRepository{Repo: "o/r"}, success: DirectoryListed{}},
		{name: "list directory", action: ListDirectory{Repo: "o/r", Path: "src"}, success: DirectoryListed{}},
		{name: "read file", action: ReadFile{Name: "a.txt", URL: "https://raw.example/a.txt"}, success: FileRead{}},
		{name: "search", action: Search{Query: "cli"}, success: SearchResults{}},
		{name: "list issues", action: ListIssues{Repo: "o/r"}, success: IssueList{}},
		{name: "list issue comments", action: ListIssueComments{Repo: "o/r", Number: 1}, success: IssueCommentsLoaded{}},
		{name: "create comment", action: CreateComment{Repo: "o/r", Number: 1, Body: "hi"}, success: CommentCreated{}},
		{name: "set issue state", action: SetIssueState{Repo: "o/r", Number: 1, State: "closed"}, success: IssueStateChanged{}},
		{name: "list pull requests", action: ListPullRequests{Repo: "o/r"}, success: PullRequestList{}},
		{name: "merge pull request", action: MergePullRequest{Repo: "o/r", Number: 1, Method: "squash"}, success: PullRequestMerged{}},
		{name: "close pull request", action: ClosePullRequest{Repo: "o/r", Number: 1}, success: PullRequestClosed{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := startBridge(t, nil, nil, CancelLogin)
			if !b.Submit(tt.action) {
				t.Fatal("submit rejected")
			}
			seen := collect(t, b, terminal(tt.success))
			last := seen[len(seen)-1]
			if isFailed(last) {
				t.Fatalf("expected success event, got %#v", last)
			}
		})
	}
}

func eventType(e Event) string {
	switch e.(type) {
	case AuthSucceeded:
		return "auth"
	case RepositoryList:
		return "repos"
	case DirectoryListed:
		return "dir"
	case FileRead:
		return "file"
	case SearchResults:
		return "search"
	case IssueList:
		return "issues"
	case IssueCommentsLoaded:
		return "comments"
	case CommentCreated:
		return "comment"
	case IssueStateChanged:
		return "issue-state"
	case PullRequestList:
		return "prs"
	case PullRequestMerged:
		return "merged"
	case PullRequestClosed:
		return "pr-closed"
	default:
		return ""
	}
}

func TestDispatchNeverBlocksOnInFlightWork(t *testing.T) {
	release := make(chan struct{})
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			<-release
			return nil, nil
		},
		search: func(ctx context.Context, q string) (model.SearchResult, error) {
			return model.SearchResult{TotalCount: 1}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)
	defer close(release)

	if !b.Submit(ListRepositories{}) {
		t.Fatal("submit rejected")
	}
	if !b.Submit(Search{Query: "q"}) {
		t.Fatal("second submit rejected while first in flight")
	}

	// The search result arrives while the repository listing is blocked.
	collect(t, b, func(e Event) bool {
		_, ok := e.(SearchResults)
		return ok
	})
}

func TestWorkUnitErrorBecomesExactlyOneFailed(t *testing.T) {
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			return nil, errors.New("boom")
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListRepositories{})
	seen := collect(t, b, isFailed)

	failures := 0
	for _, e := range seen {
		if isFailed(e) {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly one Failed, got %d", failures)
	}
}

func TestWorkUnitPanicDoesNotKillDispatchLoop(t *testing.T) {
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			panic("engine bug")
		},
		search: func(ctx context.Context, q string) (model.SearchResult, error) {
			return model.SearchResult{}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListRepositories{})
	collect(t, b, isFailed)

	// The loop must still accept and run work.
	b.Submit(Search{Query: "still alive"})
	collect(t, b, func(e Event) bool {
		_, ok := e.(SearchResults)
		return ok
	})
}

func TestReadmeFollowsRootListing(t *testing.T) {
	engine := &fakeEngine{
		listDir: func(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
			return []model.FileNode{
				{Name: "src", Path: "src", Type: model.NodeDir},
				{Name: "README.md", Path: "README.md", Type: model.NodeFile, DownloadURL: "https://raw.example/README.md"},
			}, nil
		},
		readFile: func(ctx context.Context, url string) (string, error) {
			return "# Demo", nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(SelectRepository{Repo: "octocat/demo"})
	seen := collect(t, b, func(e Event) bool {
		_, ok := e.(ReadmeLoaded)
		return ok
	})

	dirIdx, readmeIdx := -1, -1
	for i, e := range seen {
		switch e.(type) {
		case DirectoryListed:
			dirIdx = i
		case ReadmeLoaded:
			readmeIdx = i
		}
	}
	if dirIdx == -1 || readmeIdx == -1 || readmeIdx < dirIdx {
		t.Errorf("README preview must follow the listing: dir=%d readme=%d", dirIdx, readmeIdx)
	}
	if engine.readCount() != 1 {
		t.Errorf("expected exactly one README fetch, got %d", engine.readCount())
	}
}

func TestNoReadmeFetchWithoutCandidate(t *testing.T) {
	engine := &fakeEngine{
		listDir: func(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
			return []model.FileNode{{Name: "main.go", Path: "main.go", Type: model.NodeFile, DownloadURL: "https://raw.example/main.go"}}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListDirectory{Repo: "octocat/demo", Path: ""})
	collect(t, b, func(e Event) bool {
		_, ok := e.(DirectoryListed)
		return ok
	})

	// Give any stray follow-up a moment to land.
	time.Sleep(20 * time.Millisecond)
	if engine.readCount() != 0 {
		t.Errorf("unexpected README fetch: %d", engine.readCount())
	}
}

func TestNonRootListingSkipsReadme(t *testing.T) {
	engine := &fakeEngine{
		listDir: func(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
			return []model.FileNode{{Name: "README.md", Path: "docs/README.md", Type: model.NodeFile, DownloadURL: "https://raw.example/docs/README.md"}}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListDirectory{Repo: "octocat/demo", Path: "docs"})
	collect(t, b, func(e Event) bool {
		_, ok := e.(DirectoryListed)
		return ok
	})

	time.Sleep(20 * time.Millisecond)
	if engine.readCount() != 0 {
		t.Errorf("README follow-up ran for a non-root listing: %d", engine.readCount())
	}
}

func TestIssueListExcludesPullRequests(t *testing.T) {
	engine := &fakeEngine{
		listIssues: func(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error) {
			return []model.Issue{
				{Number: 1, Title: "real issue"},
				{Number: 2, Title: "pr in disguise", IsPullRequest: true},
				{Number: 3, Title: "another issue"},
			}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListIssues{Repo: "o/r", State: "open"})
	seen := collect(t, b, func(e Event) bool {
		_, ok := e.(IssueList)
		return ok
	})

	list := seen[len(seen)-1].(IssueList)
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 issues after filtering, got %d", len(list.Items))
	}
	for _, is := range list.Items {
		if is.IsPullRequest {
			t.Errorf("pull request leaked into issue list: %+v", is)
		}
	}
}

func TestMalformedRepoShortCircuits(t *testing.T) {
	engineCalled := false
	engine := &fakeEngine{
		repoInfo: func(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error) {
			engineCalled = true
			return model.RepoInfo{}, nil
		},
		listDir: func(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
			engineCalled = true
			return nil, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(SelectRepository{Repo: "not-a-repo"})
	seen := collect(t, b, isFailed)

	failed := seen[len(seen)-1].(Failed)
	if !strings.Contains(failed.Message, "owner/name") {
		t.Errorf("failure should explain the expected form, got %q", failed.Message)
	}
	if engineCalled {
		t.Error("engine called despite malformed repository identifier")
	}
}

func TestCancelAbortsLoginScope(t *testing.T) {
	ctrl := &fakeAuth{
		login: func(ctx context.Context, _ auth.Notifier) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	b := startBridge(t, ctrl, nil, CancelLogin)

	b.Submit(Login{})
	// Let the login task spawn before cancelling.
	time.Sleep(10 * time.Millisecond)
	b.Submit(Cancel{})

	seen := collect(t, b, isFailed)
	failed := seen[len(seen)-1].(Failed)
	if !strings.Contains(failed.Message, "context canceled") {
		t.Errorf("expected cancellation failure, got %q", failed.Message)
	}
}

func TestCancelLatestScopeAbortsAnyTask(t *testing.T) {
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	b := startBridge(t, nil, engine, CancelLatest)

	b.Submit(ListRepositories{})
	time.Sleep(10 * time.Millisecond)
	b.Submit(Cancel{})

	collect(t, b, isFailed)
}

func TestCloseCancelsAllInFlightWork(t *testing.T) {
	// Two units block on their contexts; the second spawn must not make
	// the first uncancellable.
	started := make(chan struct{}, 2)
	ctrl := &fakeAuth{
		login: func(ctx context.Context, _ auth.Notifier) (string, error) {
			started <- struct{}{}
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	b := New(ctrl, engine, CancelLogin)
	go b.Run()

	b.Submit(Login{})
	b.Submit(ListRepositories{})
	for range 2 {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("work unit never started")
		}
	}

	done := make(chan struct{})
	go func() {
		b.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on a work unit that was never cancelled")
	}
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	// No Run loop: the inbound channel fills up.
	b := New(&fakeAuth{}, &fakeEngine{}, CancelLogin)
	defer b.Close()

	accepted := 0
	for range 200 {
		if b.Submit(Search{Query: "q"}) {
			accepted++
		}
	}
	if accepted != 100 {
		t.Errorf("expected 100 accepted submissions, got %d", accepted)
	}
}

func TestIntraTaskEventOrder(t *testing.T) {
	engine := &fakeEngine{
		listRepos: func(ctx context.Context) ([]model.Repository, error) {
			return []model.Repository{{Name: "a"}}, nil
		},
	}
	b := startBridge(t, nil, engine, CancelLogin)

	b.Submit(ListRepositories{})
	seen := collect(t, b, func(e Event) bool {
		_, ok := e.(RepositoryList)
		return ok
	})

	logIdx, listIdx := -1, -1
	for i, e := range seen {
		switch ev := e.(type) {
		case LogLine:
			if strings.Contains(ev.Text, "Fetching repositories") {
				logIdx = i
			}
		case RepositoryList:
			listIdx = i
		}
	}
	if logIdx == -1 || listIdx == -1 || logIdx > listIdx {
		t.Errorf("fetching log line must precede the result: log=%d list=%d", logIdx, listIdx)
	}
}
