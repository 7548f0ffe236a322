package bridge

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/model"
)

// handle runs one Action to completion. A nil return means every terminal
// event was already emitted; a non-nil return becomes the unit's single
// Failed event.
func (b *Bridge) handle(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case Login:
		return b.handleLogin(ctx)
	case ListRepositories:
		return b.handleListRepositories(ctx)
	case SelectRepository:
		return b.handleSelectRepository(ctx, a)
	case ListDirectory:
		return b.handleListDirectory(ctx, a)
	case ReadFile:
		return b.handleReadFile(ctx, a)
	case Search:
		return b.handleSearch(ctx, a)
	case ListIssues:
		return b.handleListIssues(ctx, a)
	case ListIssueComments:
		return b.handleListIssueComments(ctx, a)
	case CreateComment:
		return b.handleCreateComment(ctx, a)
	case SetIssueState:
		return b.handleSetIssueState(ctx, a)
	case ListPullRequests:
		return b.handleListPullRequests(ctx, a)
	case MergePullRequest:
		return b.handleMergePullRequest(ctx, a)
	case ClosePullRequest:
		return b.handleClosePullRequest(ctx, a)
	default:
		return fmt.Errorf("unhandled action %T", a)
	}
}

func (b *Bridge) handleLogin(ctx context.Context) error {
	token, err := b.auth.Login(ctx, notifier{b: b})
	if err != nil {
		return err
	}
	b.emit(AuthSucceeded{Token: token})
	return nil
}

func (b *Bridge) handleListRepositories(ctx context.Context) error {
	b.emit(LogLine{Text: "Fetching repositories..."})
	repos, err := b.engine.ListRepositories(ctx)
	if err != nil {
		return err
	}
	b.emit(LogLine{Text: fmt.Sprintf("Found %d repositories.", len(repos))})
	b.emit(RepositoryList{Items: repos})
	return nil
}

func (b *Bridge) handleSelectRepository(ctx context.Context, a SelectRepository) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	b.emit(LogLine{Text: fmt.Sprintf("Opening %s...", ref)})

	// Metadata and root listing are independent; fetch them together.
	var nodes []model.FileNode
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := b.engine.GetRepositoryInfo(gctx, ref)
		if err != nil {
			return err
		}
		b.emit(RepositoryInfoLoaded{Info: info})
		return nil
	})
	g.Go(func() error {
		listed, err := b.engine.ListDirectory(gctx, ref, "")
		if err != nil {
			return err
		}
		b.emit(DirectoryListed{Path: "", Nodes: listed})
		nodes = listed
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// The README preview is fetched after the listing event so the UI can
	// switch views before the slower read completes.
	b.loadReadme(ctx, nodes)
	return nil
}

func (b *Bridge) handleListDirectory(ctx context.Context, a ListDirectory) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	nodes, err := b.engine.ListDirectory(ctx, ref, a.Path)
	if err != nil {
		return err
	}
	b.emit(DirectoryListed{Path: a.Path, Nodes: nodes})

	if a.Path == "" {
		b.loadReadme(ctx, nodes)
	}
	return nil
}

// loadReadme scans a root listing for a readme and emits a preview. A
// failed readme fetch is logged, not surfaced: the listing already
// succeeded.
func (b *Bridge) loadReadme(ctx context.Context, nodes []model.FileNode) {
	for _, node := range nodes {
		if node.IsDir() || node.DownloadURL == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(node.Name), "readme") {
			continue
		}
		content, err := b.engine.ReadFile(ctx, node.DownloadURL)
		if err != nil {
			b.emit(LogLine{Text: fmt.Sprintf("README fetch failed: %v", err)})
			return
		}
		b.emit(ReadmeLoaded{Text: content})
		return
	}
}

func (b *Bridge) handleReadFile(ctx context.Context, a ReadFile) error {
	b.emit(LogLine{Text: fmt.Sprintf("Reading %s...", a.Name)})
	content, err := b.engine.ReadFile(ctx, a.URL)
	if err != nil {
		return err
	}
	b.emit(FileRead{Name: a.Name, Content: content})
	return nil
}

func (b *Bridge) handleSearch(ctx context.Context, a Search) error {
	b.emit(LogLine{Text: fmt.Sprintf("Searching for %q...", a.Query)})
	result, err := b.engine.SearchRepositories(ctx, a.Query)
	if err != nil {
		return err
	}
	b.emit(SearchResults{Result: result})
	return nil
}

func (b *Bridge) handleListIssues(ctx context.Context, a ListIssues) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	issues, err := b.engine.ListIssues(ctx, ref, stateOrDefault(a.State))
	if err != nil {
		return err
	}

	// The issues endpoint returns pull requests too; drop them here.
	filtered := make([]model.Issue, 0, len(issues))
	for _, is := range issues {
		if !is.IsPullRequest {
			filtered = append(filtered, is)
		}
	}
	b.emit(IssueList{Items: filtered})
	return nil
}

func (b *Bridge) handleListIssueComments(ctx context.Context, a ListIssueComments) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	comments, err := b.engine.ListIssueComments(ctx, ref, a.Number)
	if err != nil {
		return err
	}
	b.emit(IssueCommentsLoaded{Number: a.Number, Comments: comments})
	return nil
}

func (b *Bridge) handleCreateComment(ctx context.Context, a CreateComment) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	comment, err := b.engine.CreateComment(ctx, ref, a.Number, a.Body)
	if err != nil {
		return err
	}
	b.emit(CommentCreated{Comment: comment})
	return nil
}

func (b *Bridge) handleSetIssueState(ctx context.Context, a SetIssueState) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	issue, err := b.engine.SetIssueState(ctx, ref, a.Number, a.State)
	if err != nil {
		return err
	}
	b.emit(IssueStateChanged{Issue: issue})
	return nil
}

func (b *Bridge) handleListPullRequests(ctx context.Context, a ListPullRequests) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	prs, err := b.engine.ListPullRequests(ctx, ref, stateOrDefault(a.State))
	if err != nil {
		return err
	}
	b.emit(PullRequestList{Items: prs})
	return nil
}

func (b *Bridge) handleMergePullRequest(ctx context.Context, a MergePullRequest) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	method := a.Method
	if method == "" {
		method = constants.MergeMethodMerge
	}
	b.emit(LogLine{Text: fmt.Sprintf("Merging #%d (%s)...", a.Number, method)})
	result, err := b.engine.MergePullRequest(ctx, ref, a.Number, method)
	if err != nil {
		return err
	}
	b.emit(PullRequestMerged{Result: result})
	return nil
}

func (b *Bridge) handleClosePullRequest(ctx context.Context, a ClosePullRequest) error {
	ref, err := model.ParseRepoRef(a.Repo)
	if err != nil {
		return err
	}
	pr, err := b.engine.ClosePullRequest(ctx, ref, a.Number)
	if err != nil {
		return err
	}
	b.emit(PullRequestClosed{PR: pr})
	return nil
}

func stateOrDefault(state string) string {
	if state == "" {
		return constants.StateOpen
	}
	return state
}
