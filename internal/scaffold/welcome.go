package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
)

const welcomeFile = "WELCOME.md"

// welcomePage wraps rendered markdown in a minimal self-contained document so
// the shell window has something to show before the first framework build.
const welcomePage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 42rem; margin: 4rem auto; padding: 0 1rem; line-height: 1.6; }
code { background: rgba(127, 127, 127, 0.15); padding: 0.1em 0.3em; border-radius: 3px; }
</style>
</head>
<body>
%s</body>
</html>
`

// writeWelcomePlaceholder renders the template's WELCOME.md into
// outDir/index.html. Nothing happens when the template has no welcome file or
// when a build already produced a real index.html.
func writeWelcomePlaceholder(dir, outDir, appName string) (bool, error) {
	src, err := os.ReadFile(filepath.Join(dir, welcomeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, derrors.ScaffoldFailed("read welcome page", err)
	}

	target := filepath.Join(dir, filepath.FromSlash(outDir), "index.html")
	if _, err := os.Stat(target); err == nil {
		return false, nil
	}

	var body bytes.Buffer
	if err := goldmark.Convert(src, &body); err != nil {
		return false, derrors.ScaffoldFailed("render welcome page", err)
	}

	page := fmt.Sprintf(welcomePage, appName, body.String())
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, derrors.ScaffoldFailed("create output directory", err)
	}
	if err := os.WriteFile(target, []byte(page), 0o644); err != nil {
		return false, derrors.ScaffoldFailed("write welcome page", err)
	}
	return true, nil
}
