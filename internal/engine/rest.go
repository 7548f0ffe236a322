package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/model"
)

// RestEngine talks to the GitHub REST API with a bearer token. Structured
// endpoints go through go-github, which stamps the Accept and
// X-GitHub-Api-Version headers on every call; raw file downloads use the
// process-wide HTTP client because download URLs are absolute.
type RestEngine struct {
	client   *gh.Client
	raw      *http.Client
	token    string
	pageSize int
}

// NewRestEngine builds a REST engine for the given token. raw is the
// shared HTTP client used for download-URL fetches; baseURL overrides the
// API root (tests point it at a local server; empty means api.github.com).
func NewRestEngine(ctx context.Context, token string, raw *http.Client, baseURL string) (*RestEngine, error) {
	if token == "" {
		return nil, errors.New("REST engine requires a bearer token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, ts))
	client.UserAgent = constants.UserAgent

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	if raw == nil {
		raw = http.DefaultClient
	}

	return &RestEngine{
		client:   client,
		raw:      raw,
		token:    token,
		pageSize: constants.PageSize,
	}, nil
}

// ListRepositories lists the authenticated user's repositories, most
// recently updated first.
func (e *RestEngine) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	opts := &gh.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: constants.RepoListLimit},
	}
	repos, _, err := e.client.Repositories.List(ctx, "", opts)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, convertRepository(r))
	}
	return out, nil
}

// GetRepositoryInfo fetches the metadata panel payload for one repository.
func (e *RestEngine) GetRepositoryInfo(ctx context.Context, ref model.RepoRef) (model.RepoInfo, error) {
	repo, _, err := e.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return model.RepoInfo{}, apiError(err)
	}

	info := model.RepoInfo{
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetSubscribersCount(),
		Language:      repo.GetLanguage(),
		Topics:        repo.Topics,
		OpenIssues:    repo.GetOpenIssuesCount(),
		DefaultBranch: repo.GetDefaultBranch(),
	}
	if lic := repo.GetLicense(); lic != nil {
		info.License = lic.GetName()
	}
	return info, nil
}

// ListDirectory lists repository contents at path; an empty path addresses
// the repository root.
func (e *RestEngine) ListDirectory(ctx context.Context, ref model.RepoRef, path string) ([]model.FileNode, error) {
	file, dir, _, err := e.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, nil)
	if err != nil {
		return nil, apiError(err)
	}
	if file != nil {
		// Addressing a file directly yields a single-node listing.
		return []model.FileNode{convertContent(file)}, nil
	}

	nodes := make([]model.FileNode, 0, len(dir))
	for _, c := range dir {
		nodes = append(nodes, convertContent(c))
	}
	return nodes, nil
}

// ReadFile fetches raw file content from an absolute download URL.
func (e *RestEngine) ReadFile(ctx context.Context, downloadURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("X-GitHub-Api-Version", constants.APIVersion)

	resp, err := e.raw.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return string(body), nil
}

// SearchRepositories runs a repository search. go-github percent-encodes
// the query.
func (e *RestEngine) SearchRepositories(ctx context.Context, query string) (model.SearchResult, error) {
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: e.pageSize}}
	result, _, err := e.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return model.SearchResult{}, apiError(err)
	}

	items := make([]model.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		items = append(items, convertRepository(r))
	}
	return model.SearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Items:             items,
	}, nil
}

// ListIssues lists issues filtered by state (open, closed, all). The
// response is a superset that includes pull requests; entries carry the
// pull request marker and callers filter on it.
func (e *RestEngine) ListIssues(ctx context.Context, ref model.RepoRef, state string) ([]model.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       state,
		ListOptions: gh.ListOptions{PerPage: e.pageSize},
	}
	issues, _, err := e.client.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]model.Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, convertIssue(is))
	}
	return out, nil
}

// ListIssueComments lists the comments of one issue.
func (e *RestEngine) ListIssueComments(ctx context.Context, ref model.RepoRef, number int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: e.pageSize}}
	comments, _, err := e.client.Issues.ListComments(ctx, ref.Owner, ref.Name, number, opts)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, convertComment(c))
	}
	return out, nil
}

// CreateComment posts a comment on an issue or pull request.
func (e *RestEngine) CreateComment(ctx context.Context, ref model.RepoRef, number int, body string) (model.Comment, error) {
	created, _, err := e.client.Issues.CreateComment(ctx, ref.Owner, ref.Name, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return model.Comment{}, apiError(err)
	}
	return convertComment(created), nil
}

// SetIssueState opens or closes an issue and returns the new snapshot.
func (e *RestEngine) SetIssueState(ctx context.Context, ref model.RepoRef, number int, state string) (model.Issue, error) {
	issue, _, err := e.client.Issues.Edit(ctx, ref.Owner, ref.Name, number, &gh.IssueRequest{
		State: gh.String(state),
	})
	if err != nil {
		return model.Issue{}, apiError(err)
	}
	return convertIssue(issue), nil
}

// ListPullRequests lists pull requests filtered by state.
func (e *RestEngine) ListPullRequests(ctx context.Context, ref model.RepoRef, state string) ([]model.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       state,
		ListOptions: gh.ListOptions{PerPage: e.pageSize},
	}
	prs, _, err := e.client.PullRequests.List(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPullRequest(pr))
	}
	return out, nil
}

// MergePullRequest merges with the given strategy (merge, squash, rebase).
func (e *RestEngine) MergePullRequest(ctx context.Context, ref model.RepoRef, number int, method string) (model.MergeResult, error) {
	result, _, err := e.client.PullRequests.Merge(ctx, ref.Owner, ref.Name, number, "", &gh.PullRequestOptions{
		MergeMethod: method,
	})
	if err != nil {
		return model.MergeResult{}, apiError(err)
	}
	return model.MergeResult{
		SHA:     result.GetSHA(),
		Merged:  result.GetMerged(),
		Message: result.GetMessage(),
	}, nil
}

// ClosePullRequest closes a pull request without merging.
func (e *RestEngine) ClosePullRequest(ctx context.Context, ref model.RepoRef, number int) (model.PullRequest, error) {
	pr, _, err := e.client.PullRequests.Edit(ctx, ref.Owner, ref.Name, number, &gh.PullRequest{
		State: gh.String(constants.StateClosed),
	})
	if err != nil {
		return model.PullRequest{}, apiError(err)
	}
	return convertPullRequest(pr), nil
}

// apiError converts go-github failures into the typed taxonomy: non-2xx
// responses become HTTPStatusError, transport errors pass through wrapped.
func apiError(err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &HTTPStatusError{Status: ghErr.Response.StatusCode, Body: ghErr.Message}
	}
	return fmt.Errorf("request failed: %w", err)
}

func convertRepository(r *gh.Repository) model.Repository {
	return model.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Private:     r.GetPrivate(),
		UpdatedAt:   r.GetUpdatedAt().Format("2006-01-02"),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}
}

func convertContent(c *gh.RepositoryContent) model.FileNode {
	return model.FileNode{
		Name:        c.GetName(),
		Path:        c.GetPath(),
		Type:        model.NodeType(c.GetType()),
		DownloadURL: c.GetDownloadURL(),
		Size:        int64(c.GetSize()),
	}
}

func convertIssue(is *gh.Issue) model.Issue {
	issue := model.Issue{
		Number:        is.GetNumber(),
		Title:         is.GetTitle(),
		Body:          is.GetBody(),
		State:         is.GetState(),
		Comments:      is.GetComments(),
		CreatedAt:     is.GetCreatedAt().Time,
		UpdatedAt:     is.GetUpdatedAt().Time,
		IsPullRequest: is.IsPullRequest(),
	}
	if user := is.GetUser(); user != nil {
		issue.Author = user.GetLogin()
	}
	for _, label := range is.Labels {
		if label != nil {
			issue.Labels = append(issue.Labels, label.GetName())
		}
	}
	return issue
}

func convertComment(c *gh.IssueComment) model.Comment {
	comment := model.Comment{
		ID:        c.GetID(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
	}
	if user := c.GetUser(); user != nil {
		comment.Author = user.GetLogin()
	}
	return comment
}

func convertPullRequest(pr *gh.PullRequest) model.PullRequest {
	out := model.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
	if user := pr.GetUser(); user != nil {
		out.Author = user.GetLogin()
	}
	if base := pr.GetBase(); base != nil {
		out.BaseRef = base.GetRef()
	}
	if head := pr.GetHead(); head != nil {
		out.HeadRef = head.GetRef()
	}
	return out
}
