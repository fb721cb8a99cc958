package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdAdd() *cli.Command {
	var env jarEnv
	var text, imageURL, date string
	var enhance bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Memory text",
			Required:    true,
			Destination: &text,
		},
		&cli.StringFlag{
			Name:        "image-url",
			Aliases:     []string{"i"},
			Usage:       "Link to a photo (Imgur page links are converted)",
			Destination: &imageURL,
		},
		&cli.StringFlag{
			Name:        "date",
			Aliases:     []string{"d"},
			Usage:       "Date of the memory as YYYY-MM-DD (default: today)",
			Destination: &date,
		},
		&cli.BoolFlag{
			Name:        "enhance",
			Usage:       "Rewrite the text with the LLM before saving",
			Destination: &enhance,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:  "add",
		Usage: "Add a memory to the jar",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if enhance {
				text = uc.Enhance.Enhance(ctx, text)
			}

			memory, err := uc.Admin.AddMemory(ctx, text, imageURL, date)
			if err != nil {
				switch {
				case errors.Is(err, model.ErrValidation):
					return err
				case errors.Is(err, model.ErrStorageFull):
					return goerr.Wrap(err, model.MsgStorageFull)
				default:
					return goerr.Wrap(err, model.MsgSaveFailed)
				}
			}

			w := c.Root().Writer
			_, _ = headingColor.Fprintln(w, "Memory saved!")
			printMemory(w, memory, uc.Location())
			return nil
		},
	}
}

func cmdList() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List every memory in the jar",
		Flags:   env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			memories, err := uc.Admin.ListMemories(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list memories")
			}

			w := c.Root().Writer
			loc := uc.Location()
			for _, m := range memories {
				mark := " "
				if m.Seen {
					mark = "*"
				}
				_, _ = fmt.Fprintf(w, "%s %s  %s\n", mark, m.Date(loc).Format(model.DateLayout), m.Text)
			}
			_, _ = dimColor.Fprintf(w, "%d memories, %d unseen\n", len(memories), len(model.Unseen(memories)))
			return nil
		},
	}
}

func cmdEnhance() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:      "enhance",
		Usage:     "Rewrite draft text with the LLM",
		ArgsUsage: "TEXT",
		Flags:     env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return goerr.Wrap(model.ErrValidation, "text is required")
			}

			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if !uc.Enhance.Available() {
				_, _ = warnColor.Fprintln(c.Root().ErrWriter, "LLM is not configured, text is unchanged")
			}
			_, _ = fmt.Fprintln(c.Root().Writer, uc.Enhance.Enhance(ctx, text))
			return nil
		},
	}
}

func cmdReset() *cli.Command {
	var env jarEnv
	var yes bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Do not ask for confirmation",
			Destination: &yes,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:  "reset",
		Usage: "Delete every memory and the daily lock",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			if !yes && !confirm(c.Root().Reader, w, "Delete ALL memories? This cannot be undone.") {
				_, _ = fmt.Fprintln(w, "Aborted")
				return nil
			}

			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if err := uc.Admin.Reset(ctx); err != nil {
				return goerr.Wrap(err, "failed to reset jar")
			}
			_, _ = fmt.Fprintln(w, "All data cleared")
			return nil
		},
	}
}

func confirm(r io.Reader, w io.Writer, question string) bool {
	if r == nil {
		r = os.Stdin
	}
	_, _ = warnColor.Fprintf(w, "%s [y/N]: ", question)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
