package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/calgrid/internal/calendar"
)

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer  io.Writer
	Service *calendar.Service
	State   *calendar.PeriodState
	// Periods is how many consecutive periods to print, starting with the
	// state's current one. Zero means one.
	Periods           int
	Width             int
	HolidayCacheValid bool
}

// RunPlain renders the requested periods exactly once.
func RunPlain(opts PlainOptions) error {
	if opts.State == nil {
		return fmt.Errorf("render: no period state")
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}

	views, err := Views(opts.Service, opts.State, opts.Periods)
	if err != nil {
		return err
	}
	blocks, err := BuildBlocks(views)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	output := Layout(blocks, width)
	if output == "" {
		return nil
	}
	if _, err = fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}

	if opts.Service.HasHolidayData() {
		if _, err = fmt.Fprintln(opts.Writer, "\n"+ColorLegend()); err != nil {
			return err
		}
	}

	if !opts.HolidayCacheValid {
		_, err = fmt.Fprintln(opts.Writer, "\n尚未下载节假日数据或节假日数据超过 6 个月未更新，运行  calgrid -u 获取最新数据")
	}
	return err
}

// Views builds count consecutive views. The state is advanced as it goes
// and is left on the last period rendered. Months are re-anchored one by one
// so each printed month is whole.
func Views(svc *calendar.Service, state *calendar.PeriodState, count int) ([]calendar.View, error) {
	count = max(count, 1)
	first := calendar.StartOfMonth(state.StartsAt())
	views := make([]calendar.View, 0, count)
	for i := 0; i < count; i++ {
		switch {
		case i == 0:
		case state.Mode() == calendar.ModeMonth:
			state.ShowMonth(first.AddDate(0, i, 0))
		default:
			state.Next()
		}
		view, err := svc.View(state)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return fallbackWidth
}
