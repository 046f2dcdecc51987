// Package pkgmgr abstracts over the JavaScript package managers a scaffolded
// or detected project may use. A Manager only builds argv vectors; running
// them goes through Run so every shell-out shares the same exec and logging
// path.
package pkgmgr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/deskwrap/internal/logfields"
)

// Manager describes one package manager's command shapes.
type Manager struct {
	Name string
	// Lockfiles are probed in order during detection; the first name also
	// identifies the manager in scaffolded projects.
	Lockfiles []string
}

var (
	Npm  = Manager{Name: "npm", Lockfiles: []string{"package-lock.json"}}
	Pnpm = Manager{Name: "pnpm", Lockfiles: []string{"pnpm-lock.yaml"}}
	Yarn = Manager{Name: "yarn", Lockfiles: []string{"yarn.lock"}}
	Bun  = Manager{Name: "bun", Lockfiles: []string{"bun.lockb", "bun.lock"}}
)

// detectionOrder breaks ties when several lockfiles coexist: the more
// specific managers win over npm's ubiquitous package-lock.json.
var detectionOrder = []Manager{Pnpm, Yarn, Bun, Npm}

// FromName resolves a manager by its configured name.
func FromName(name string) (Manager, error) {
	for _, m := range detectionOrder {
		if m.Name == name {
			return m, nil
		}
	}
	return Manager{}, fmt.Errorf("unknown package manager %q (known: %s)", name, knownNames())
}

func knownNames() string {
	names := make([]string, len(detectionOrder))
	for i, m := range detectionOrder {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

// Detect picks the project's manager from its lockfile, defaulting to npm
// when none is present.
func Detect(dir string) Manager {
	for _, m := range detectionOrder {
		for _, lock := range m.Lockfiles {
			if _, err := os.Stat(filepath.Join(dir, lock)); err == nil {
				return m
			}
		}
	}
	return Npm
}

// InstallArgs builds the argv installing the given packages, or a bare
// dependency install when none are given.
func (m Manager) InstallArgs(pkgs ...string) []string {
	if len(pkgs) == 0 {
		return []string{m.Name, "install"}
	}
	verb := "install"
	if m.Name == "pnpm" || m.Name == "yarn" || m.Name == "bun" {
		verb = "add"
	}
	return append([]string{m.Name, verb}, pkgs...)
}

// InstallDevArgs builds the argv installing packages as dev dependencies.
func (m Manager) InstallDevArgs(pkgs ...string) []string {
	args := m.InstallArgs(pkgs...)
	flag := "--save-dev"
	if m.Name != "npm" {
		flag = "-D"
	}
	return append(args, flag)
}

// RunArgs builds the argv invoking a package.json script.
func (m Manager) RunArgs(script string) []string {
	return []string{m.Name, "run", script}
}

// ExecArgs builds the argv running a dependency-provided binary.
func (m Manager) ExecArgs(bin string, args ...string) []string {
	var prefix []string
	switch m.Name {
	case "pnpm":
		prefix = []string{"pnpm", "exec", bin}
	case "yarn":
		prefix = []string{"yarn", "exec", bin}
	case "bun":
		prefix = []string{"bunx", bin}
	default:
		prefix = []string{"npx", bin}
	}
	return append(prefix, args...)
}

// Run executes argv in dir, streaming output to the given writers. Nil
// writers default to the process's own streams so build output stays visible
// to the user.
func Run(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	slog.Debug("Running command",
		logfields.Path(dir),
		slog.String("command", strings.Join(argv, " ")))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}
