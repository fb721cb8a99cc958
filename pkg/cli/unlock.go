package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func cmdUnlock() *cli.Command {
	var env jarEnv
	var token bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "token",
			Usage:       "Print a session token usable as the jar_session cookie",
			Destination: &token,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "unlock",
		Usage:     "Check an unlock code",
		ArgsUsage: "[CODE]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			code := c.Args().First()
			if code == "" {
				read, err := readCode(c)
				if err != nil {
					return err
				}
				code = read
			}

			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			w := c.Root().Writer
			level, message := uc.Access.Resolve(code)
			if level == types.AccessLevelLocked {
				_, _ = warnColor.Fprintln(w, message)
				return nil
			}

			_, _ = headingColor.Fprintf(w, "Unlocked: %s\n", level)
			if token {
				raw, expiresAt, err := uc.Access.IssueSession(level)
				if err != nil {
					return goerr.Wrap(err, "failed to issue session")
				}
				_, _ = fmt.Fprintln(w, raw)
				_, _ = dimColor.Fprintf(w, "expires %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}

// readCode prompts for the code without echo when stdin is a terminal
func readCode(c *cli.Command) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115
	if !term.IsTerminal(fd) {
		return "", goerr.New("unlock code is required")
	}

	_, _ = fmt.Fprint(c.Root().ErrWriter, "Enter code: ")
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(c.Root().ErrWriter)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read unlock code")
	}
	return string(raw), nil
}
