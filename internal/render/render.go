package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/calgrid/internal/calendar"
	"github.com/lululau/calgrid/internal/textwidth"
)

const (
	cellPadding   = 1
	blockGap      = 3
	maxEventRows  = 4
	weekColWidth  = 14
	eventMarker   = "•"
	colorReset    = "\x1b[0m"
	holidayColor  = "\x1b[38;2;59;130;246m"
	workdayColor  = "\x1b[38;2;249;115;22m"
	todayColor    = "\x1b[38;2;52;211;153m"
	fallbackWidth = 100
)

var noColorMode bool

// SetNoColor disables every color sequence in rendered output.
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	frameStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#475569")).
			Padding(0, 1)
)

var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// WeekdayHeaders lists the column titles for a week opening on start.
func WeekdayHeaders(start time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = weekdayNames[(int(start)+i)%7]
	}
	return out
}

// Block is one rendered view with its visual size.
type Block struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks renders each view.
func BuildBlocks(views []calendar.View) ([]Block, error) {
	blocks := make([]Block, len(views))
	for i, view := range views {
		block, err := buildBlock(view)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}
	return blocks, nil
}

// Layout places blocks left to right, wrapping to a new band when the next
// one would exceed width columns.
func Layout(blocks []Block, width int) string {
	if width <= 0 {
		width = fallbackWidth
	}
	var bands []string
	for i := 0; i < len(blocks); {
		row := []string{strings.Join(blocks[i].Lines, "\n")}
		used := blocks[i].Width
		for i++; i < len(blocks) && used+blockGap+blocks[i].Width <= width; i++ {
			row = append(row, strings.Repeat(" ", blockGap), strings.Join(blocks[i].Lines, "\n"))
			used += blockGap + blocks[i].Width
		}
		bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(bands, "\n\n")
}

func buildBlock(view calendar.View) (Block, error) {
	if len(view.Weeks) == 0 {
		return Block{}, fmt.Errorf("view %q has no weeks", view.Title)
	}
	colWidth := columnWidth(view) + cellPadding*2
	headers := WeekdayHeaders(view.WeekStart)
	columns := make([]table.Column, len(headers))
	for i, title := range headers {
		columns[i] = table.Column{Title: title, Width: colWidth}
	}

	rows := []table.Row{blankRow()}
	for i, week := range view.Weeks {
		rows = append(rows, cells(week, gregorianCell), cells(week, lunarCell))
		if view.Mode == calendar.ModeWeek {
			rows = append(rows, eventRows(week, colWidth-cellPadding*2)...)
		}
		if i != len(view.Weeks)-1 {
			rows = append(rows, blankRow())
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
	)
	t.SetStyles(tableStyles())
	t.Blur()

	body := strings.TrimRight(t.View(), "\n")
	title := view.Title
	if !noColorMode {
		body = highlight(frameStyle.Render(body), highlights(view))
		title = titleStyle.Render(title)
	}

	lines := append([]string{title, ""}, strings.Split(body, "\n")...)
	width := 0
	for _, line := range lines {
		width = max(width, textwidth.StringWidth(line))
	}
	return Block{Lines: lines, Width: width, Height: len(lines)}, nil
}

func columnWidth(view calendar.View) int {
	width := 4
	if view.Mode == calendar.ModeWeek {
		width = weekColWidth
	}
	for _, week := range view.Weeks {
		for _, day := range week {
			width = max(width, textwidth.StringWidth(gregorianCell(day)), textwidth.StringWidth(lunarCell(day)))
		}
	}
	return width
}

func cells(week []calendar.Day, cell func(calendar.Day) string) table.Row {
	row := make(table.Row, len(week))
	for i, day := range week {
		row[i] = cell(day)
	}
	return row
}

func gregorianCell(day calendar.Day) string {
	if !day.InPeriod {
		return ""
	}
	s := fmt.Sprintf("%2d", day.Date.Day())
	if len(day.Events) > 0 {
		s += eventMarker
	}
	return s
}

func lunarCell(day calendar.Day) string {
	if !day.InPeriod {
		return ""
	}
	if label := day.SecondaryLabel(); label != "" {
		return label
	}
	return "  "
}

// eventRows lists event titles under each day, one row per event, with a
// "+N" row when a day has more than fit.
func eventRows(week []calendar.Day, width int) []table.Row {
	depth := 0
	for _, day := range week {
		depth = max(depth, min(len(day.Events), maxEventRows+1))
	}
	rows := make([]table.Row, depth)
	for r := range rows {
		rows[r] = make(table.Row, len(week))
		for c, day := range week {
			switch {
			case r < maxEventRows && r < len(day.Events):
				rows[r][c] = textwidth.Truncate(eventLabel(day.Events[r]), width)
			case r == maxEventRows && len(day.Events) > maxEventRows:
				rows[r][c] = fmt.Sprintf("+%d", len(day.Events)-maxEventRows)
			}
		}
	}
	return rows
}

func eventLabel(ev calendar.Event) string {
	if ev.AllDay {
		return ev.Title
	}
	return ev.Date.Format("15:04") + " " + ev.Title
}

func blankRow() table.Row {
	return make(table.Row, 7)
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	if noColorMode {
		styles.Header = lipgloss.NewStyle().Padding(0, 1)
	} else {
		styles.Header = headerStyle.Padding(0, 1)
	}
	styles.Selected = lipgloss.NewStyle()
	styles.Cell = lipgloss.NewStyle().Padding(0, cellPadding)
	return styles
}

// highlights maps in-period day numbers to their color. Holidays and make-up
// workdays take precedence over today.
func highlights(view calendar.View) map[int]string {
	marks := make(map[int]string)
	for _, week := range view.Weeks {
		for _, day := range week {
			if !day.InPeriod {
				continue
			}
			switch {
			case day.HolidayInfo != nil && day.HolidayInfo.IsHoliday:
				marks[day.Date.Day()] = holidayColor
			case day.HolidayInfo != nil:
				marks[day.Date.Day()] = workdayColor
			case day.IsToday:
				marks[day.Date.Day()] = todayColor
			}
		}
	}
	return marks
}

// highlight colors day numbers after the table is laid out; styling cells
// beforehand would skew the table's width calculation. Each number is colored
// at its first standalone occurrence, which is its date row: numbers are
// unique within a period and date rows precede event rows.
func highlight(out string, marks map[int]string) string {
	if len(marks) == 0 {
		return out
	}
	days := make([]int, 0, len(marks))
	for d := range marks {
		days = append(days, d)
	}
	sort.Ints(days)

	lines := strings.Split(out, "\n")
	for _, d := range days {
		re := regexp.MustCompile(`(^|[\s│])(` + strconv.Itoa(d) + `)(` + eventMarker + `|[\s│]|$)`)
		for i, line := range lines {
			loc := re.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			lines[i] = line[:loc[4]] + marks[d] + line[loc[4]:loc[5]] + colorReset + line[loc[5]:]
			break
		}
	}
	return strings.Join(lines, "\n")
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	text := "j/] 下一页  k/[ 上一页  . 回到今天  m 月视图  w 周视图  g 跳转日期  q 退出"
	if noColorMode {
		return text
	}
	return helpStyle.Render(text)
}

// ColorLegend explains the highlight colors.
func ColorLegend() string {
	text := "蓝色=节假日  橙色=调休日  绿色=今天  " + eventMarker + "=有日程"
	if noColorMode {
		return text
	}
	return legendStyle.Render(text)
}
