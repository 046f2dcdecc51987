package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("deskwrap"))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, kctx
}

func TestCLIParsesBuildCommand(t *testing.T) {
	cli, kctx := parseCLI(t, "build", "--verify", "-j", "4", "--skip-install")

	assert.Equal(t, "build", kctx.Command())
	assert.True(t, cli.Build.Verify)
	assert.Equal(t, 4, cli.Build.Concurrency)
	assert.True(t, cli.Build.SkipInstall)
}

func TestCLIParsesCreateCommand(t *testing.T) {
	cli, kctx := parseCLI(t, "create", "My Notes",
		"--template", "https://github.com/acme/starter.git",
		"--package-manager", "pnpm")

	assert.Equal(t, "create <name>", kctx.Command())
	assert.Equal(t, "My Notes", cli.Create.Name)
	assert.Equal(t, "https://github.com/acme/starter.git", cli.Create.Template)
	assert.Equal(t, "pnpm", cli.Create.PackageManager)
}

func TestCLIParsesCreateWithoutName(t *testing.T) {
	cli, kctx := parseCLI(t, "create", "-y")

	assert.Equal(t, "create", kctx.Command())
	assert.Empty(t, cli.Create.Name)
	assert.True(t, cli.Create.Yes)
}

func TestCLIParsesWatchCommand(t *testing.T) {
	cli, kctx := parseCLI(t, "watch", "--interval", "5m", "--verify")

	assert.Equal(t, "watch", kctx.Command())
	assert.Equal(t, 5*time.Minute, cli.Watch.Interval)
	assert.True(t, cli.Watch.Verify)
}

func TestCLIParsesVersionCommand(t *testing.T) {
	cli, kctx := parseCLI(t, "version", "--check")

	assert.Equal(t, "version", kctx.Command())
	assert.True(t, cli.Version.Check)
}

func TestCLIDefaults(t *testing.T) {
	cli, _ := parseCLI(t, "detect")

	assert.Equal(t, "deskwrap.yaml", cli.Config)
	assert.True(t, filepath.IsAbs(cli.Dir), "the path type resolves the project dir")
	assert.False(t, cli.Verbose)
}

func TestCLIProjectDirFlag(t *testing.T) {
	dir := t.TempDir()
	cli, _ := parseCLI(t, "-C", dir, "build")

	assert.Equal(t, dir, cli.Dir)
}

func TestConfigPathResolution(t *testing.T) {
	tests := []struct {
		name string
		root CLI
		want string
	}{
		{
			name: "relative config joins the project dir",
			root: CLI{Dir: "/proj", Config: "deskwrap.yaml"},
			want: filepath.Join("/proj", "deskwrap.yaml"),
		},
		{
			name: "absolute config wins",
			root: CLI{Dir: "/proj", Config: "/etc/deskwrap.yaml"},
			want: "/etc/deskwrap.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.root.configPath())
		})
	}
}
