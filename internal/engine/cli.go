package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/model"
)

// CliEngine wraps the gh command line tool. It serves the minimal
// deployment profile where only repository listing is needed and the user
// is already authenticated through gh; every other capability returns
// ErrUnsupported.
type CliEngine struct {
	// gh is the binary name, overridable in tests.
	gh string
}

// NewCliEngine creates an engine backed by the gh binary on PATH.
func NewCliEngine() *CliEngine {
	return &CliEngine{gh: "gh"}
}

// ghRepo mirrors the fields we request from gh's JSON output.
type ghRepo struct {
	Name           string `json:"name"`
	NameWithOwner  string `json:"nameWithOwner"`
	Description    string `json:"description"`
	IsPrivate      bool   `json:"isPrivate"`
	UpdatedAt      string `json:"updatedAt"`
	StargazerCount int    `json:"stargazerCount"`
	ForkCount      int    `json:"forkCount"`
}

// ListRepositories runs `gh repo list` with machine-readable output.
func (e *CliEngine) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	cmd := exec.CommandContext(ctx, e.gh,
		"repo", "list",
		"--json", "name,nameWithOwner,description,isPrivate,updatedAt,stargazerCount,forkCount",
		"--limit", strconv.Itoa(constants.RepoListLimit),
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, toolError(e.gh+" repo list", err)
	}
	return parseRepoList(out)
}

// Browse opens the repository in the user's browser via `gh browse`. The
// command's output is not consumed.
func (e *CliEngine) Browse(ctx context.Context, ref model.RepoRef) error {
	cmd := exec.CommandContext(ctx, e.gh, "browse", "--repo", ref.String())
	if err := cmd.Start(); err != nil {
		return toolError(e.gh+" browse", err)
	}
	// Reap the child without holding the caller up.
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("gh browse exited", "error", err)
		}
	}()
	return nil
}

func parseRepoList(out []byte) ([]model.Repository, error) {
	var raw []ghRepo
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, &ParseError{What: "gh repo list output", Err: err}
	}
	repos := make([]model.Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, model.Repository{
			Name:        r.Name,
			FullName:    r.NameWithOwner,
			Description: r.Description,
			Private:     r.IsPrivate,
			UpdatedAt:   dateOnly(r.UpdatedAt),
			Stars:       r.StargazerCount,
			Forks:       r.ForkCount,
		})
	}
	return repos, nil
}

// dateOnly trims an ISO timestamp down to its date part for display.
func dateOnly(iso string) string {
	if date, _, ok := strings.Cut(iso, "T"); ok {
		return date
	}
	return iso
}

func toolError(tool string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExternalToolError{Tool: tool, Stderr: strings.TrimSpace(string(exitErr.Stderr)), Err: err}
	}
	return &ExternalToolError{Tool: tool, Err: err}
}

func (e *CliEngine) GetRepositoryInfo(context.Context, model.RepoRef) (model.RepoInfo, error) {
	return model.RepoInfo{}, ErrUnsupported
}

func (e *CliEngine) ListDirectory(context.Context, model.RepoRef, string) ([]model.FileNode, error) {
	return nil, ErrUnsupported
}

func (e *CliEngine) ReadFile(context.Context, string) (string, error) {
	return "", ErrUnsupported
}

func (e *CliEngine) SearchRepositories(context.Context, string) (model.SearchResult, error) {
	return model.SearchResult{}, ErrUnsupported
}

func (e *CliEngine) ListIssues(context.Context, model.RepoRef, string) ([]model.Issue, error) {
	return nil, ErrUnsupported
}

func (e *CliEngine) ListIssueComments(context.Context, model.RepoRef, int) ([]model.Comment, error) {
	return nil, ErrUnsupported
}

func (e *CliEngine) CreateComment(context.Context, model.RepoRef, int, string) (model.Comment, error) {
	return model.Comment{}, ErrUnsupported
}

func (e *CliEngine) SetIssueState(context.Context, model.RepoRef, int, string) (model.Issue, error) {
	return model.Issue{}, ErrUnsupported
}

func (e *CliEngine) ListPullRequests(context.Context, model.RepoRef, string) ([]model.PullRequest, error) {
	return nil, ErrUnsupported
}

func (e *CliEngine) MergePullRequest(context.Context, model.RepoRef, int, string) (model.MergeResult, error) {
	return model.MergeResult{}, ErrUnsupported
}

func (e *CliEngine) ClosePullRequest(context.Context, model.RepoRef, int) (model.PullRequest, error) {
	return model.PullRequest{}, ErrUnsupported
}
