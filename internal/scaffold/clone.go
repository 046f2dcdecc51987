package scaffold

import (
	"context"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
)

// cloneTemplate fetches a remote project template into dir. The clone is
// shallow and the git history is dropped: a template seeds a fresh project,
// it does not stay a checkout of its source.
func cloneTemplate(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
		Progress:     os.Stderr,
	})
	if err != nil {
		return derrors.ScaffoldFailed("clone template", err).WithContext("url", url)
	}

	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return derrors.ScaffoldFailed("drop template history", err)
	}
	return nil
}
