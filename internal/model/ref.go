package model

import (
	"fmt"
	"strings"
)

// ErrBadRepoRef is returned when a repository identifier is not in
// owner/name form.
var ErrBadRepoRef = fmt.Errorf("repository identifier must be owner/name")

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses an "owner/name" identifier. The parse happens before
// any engine call so malformed identifiers never reach the network.
func ParseRepoRef(fullName string) (RepoRef, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrBadRepoRef, fullName)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
