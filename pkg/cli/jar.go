package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdStatus() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:  "status",
		Usage: "Show whether today's memory has been opened",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			status, err := uc.Reveal.Status(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get daily status")
			}

			w := c.Root().Writer
			if !status.IsLocked {
				_, _ = headingColor.Fprintln(w, "The jar is ready to open")
				return nil
			}

			printLocked(w, status)
			if status.LockedMemory != nil {
				_, _ = fmt.Fprintln(w)
				printMemory(w, status.LockedMemory, uc.Location())
			}
			return nil
		},
	}
}

func cmdReveal() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:  "reveal",
		Usage: "Open today's memory without the shake",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			memory, err := uc.Reveal.Reveal(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to reveal memory")
			}

			w := c.Root().Writer
			if memory == nil {
				_, _ = warnColor.Fprintln(w, model.MsgAllSeen)
				return nil
			}
			printMemory(w, memory, uc.Location())
			return nil
		},
	}
}

func cmdBypass() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:  "bypass",
		Usage: "Clear today's lock so the next open draws a new memory",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if err := uc.Reveal.Bypass(ctx); err != nil {
				return goerr.Wrap(err, "failed to bypass daily lock")
			}
			_, _ = fmt.Fprintln(c.Root().Writer, "Daily lock cleared")
			return nil
		},
	}
}
