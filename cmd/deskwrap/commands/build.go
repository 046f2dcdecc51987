package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Verify      bool `help:"Check that rewritten references resolve on disk"`
	Concurrency int  `short:"j" help:"Parallel document rewrites (0 = one per CPU)"`
	SkipInstall bool `name:"skip-install" help:"Never install dependencies, even when node_modules is missing"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	p, err := newPipeline(root.Dir, cfg, pipelineOptions{
		verify:      b.Verify,
		skipInstall: b.SkipInstall,
		concurrency: b.Concurrency,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.Run(ctx)
	if report != nil {
		fmt.Println(report.Summary())
	}
	return err
}
