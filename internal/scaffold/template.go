package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed starter
var starterFS embed.FS

// templateData is what starter templates may reference.
type templateData struct {
	Name string // display name
	Slug string // package/directory-safe name
}

// materializeStarter renders the embedded starter tree into dir. Files with a
// .tmpl suffix are rendered and lose the suffix; everything else copies
// verbatim. "gitignore" is stored without its dot so the embedder keeps it,
// and regains it here.
func materializeStarter(dir string, data templateData) error {
	return fs.WalkDir(starterFS, "starter", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, "starter/")
		content, err := starterFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading starter file %s: %w", rel, err)
		}

		if strings.HasSuffix(rel, ".tmpl") {
			rel = strings.TrimSuffix(rel, ".tmpl")
			content, err = renderTemplate(rel, content, data)
			if err != nil {
				return err
			}
		}
		if rel == "gitignore" {
			rel = ".gitignore"
		}

		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		return nil
	})
}

func renderTemplate(name string, content []byte, data templateData) ([]byte, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing starter template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering starter template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
