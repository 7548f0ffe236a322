package auth

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/J-x-Z/native-hub/internal/engine"
)

// TokenFromCLI asks a pre-authenticated gh installation for its token via
// `gh auth token`. No OAuth app registration is needed when this works.
func TokenFromCLI(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &engine.ExternalToolError{
				Tool:   "gh auth token",
				Stderr: strings.TrimSpace(string(exitErr.Stderr)),
				Err:    err,
			}
		}
		return "", &engine.ExternalToolError{Tool: "gh auth token", Err: err}
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", &engine.ExternalToolError{Tool: "gh auth token", Stderr: "empty token"}
	}
	return token, nil
}
