package version

import (
	"strings"

	latest "github.com/tcnksm/go-latest"
)

// Release mirror queried for the newest tag.
const (
	releaseOwner = "inful"
	releaseRepo  = "deskwrap"
)

// UpdateStatus compares the running build against the newest release.
type UpdateStatus struct {
	Current  string
	Latest   string
	Outdated bool
}

// CheckUpdate asks the release host for the newest tag. Development builds
// (version "unknown") are never reported as outdated and skip the network
// round-trip entirely.
func CheckUpdate() (*UpdateStatus, error) {
	if Version == "" || Version == "unknown" {
		return &UpdateStatus{Current: Version}, nil
	}

	src := &latest.GithubTag{
		Owner:      releaseOwner,
		Repository: releaseRepo,
	}
	res, err := latest.Check(src, strings.TrimPrefix(Version, "v"))
	if err != nil {
		return nil, err
	}
	return &UpdateStatus{
		Current:  Version,
		Latest:   res.Current,
		Outdated: res.Outdated,
	}, nil
}
