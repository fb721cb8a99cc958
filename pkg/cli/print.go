package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

const memoryDateLayout = "January 2, 2006"

var (
	headingColor = color.New(color.FgHiMagenta, color.Bold)
	dimColor     = color.New(color.Faint)
	warnColor    = color.New(color.FgYellow)
)

func printMemory(w io.Writer, m *model.Memory, loc *time.Location) {
	_, _ = headingColor.Fprintln(w, m.Date(loc).Format(memoryDateLayout))
	_, _ = fmt.Fprintln(w, m.Text)
	if m.ImageURL != "" {
		_, _ = dimColor.Fprintln(w, m.ImageURL)
	}
}

func printLocked(w io.Writer, status model.DailyStatus) {
	_, _ = warnColor.Fprintf(w, "Come back tomorrow! Next memory in %s\n", status.Countdown())
}
