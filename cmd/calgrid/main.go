package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lululau/calgrid/internal/calendar"
	"github.com/lululau/calgrid/internal/config"
	"github.com/lululau/calgrid/internal/events"
	"github.com/lululau/calgrid/internal/holidays"
	appLog "github.com/lululau/calgrid/internal/log"
	"github.com/lululau/calgrid/internal/render"
	"github.com/lululau/calgrid/internal/tui"
)

var (
	weekFlag           = flag.Bool("w", false, "周视图")
	plain              = flag.Bool("n", false, "直接渲染并退出（非交互模式）")
	periods            = flag.Int("p", 0, "非交互模式下连续显示的月/周数")
	weekStartFlag      = flag.String("s", "", "每周第一天，如 sunday、mon、1")
	localeFlag         = flag.String("l", "", "区域设置，决定周序号规则，如 en、de-DE")
	eventsFlag         = flag.String("e", "", "日程文件（.ics/.yaml/.json）")
	configFlag         = flag.String("c", "", "配置文件路径")
	updateHolidays     = flag.Bool("u", false, "下载最新的节假日数据")
	updateHolidaysLong = flag.Bool("update-holidays", false, "下载最新的节假日数据")
	holidaysFile       = flag.String("h", "", "指定节假日数据文件路径（用于调试）")
	holidaysFileLong   = flag.String("holidays-file", "", "指定节假日数据文件路径（用于调试）")
	noColor            = flag.Bool("N", false, "禁用所有颜色输出")
	noColorLong        = flag.Bool("no-color", false, "禁用所有颜色输出")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法: %s [选项] [year] [month|week] | [date]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), `
  无参数          展示当前月份
  9               展示当年9月份
  1983            展示1983年全年（非交互）
  2012 12         展示2012年12月
  -w              展示本周
  -w 23           展示当年第23周
  -w 2024 23      展示2024年第23周
  2024-06-15      展示包含该日期的月份（加 -w 为周）

配置文件 (-c，默认位于用户配置目录 calgrid/config.yaml) 中的
align_week_end: true 让周视图以 -s 指定的周首日对应的周末结束；
默认 false 时周末沿用区域设置，二者不一致时周视图会报错。
也可用环境变量 CALGRID_ALIGN_WEEK_END=true 开启。

选项:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if *updateHolidays || *updateHolidaysLong {
		return holidays.DownloadHolidays(ctx)
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := appLog.ParseLevel(cfg.LogLevel)
	appLog.SetLevel(level)
	if cfg.NoColor {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	weekStart, _ := cfg.Weekday()
	mode, _ := cfg.CalendarMode()
	loc, _ := cfg.Location()

	tgt, err := parseTarget(args, mode, loc)
	if err != nil {
		return err
	}
	state, err := calendar.New(calendar.Config{
		Year:      tgt.year,
		Month:     tgt.month,
		Week:      tgt.week,
		Anchor:    tgt.anchor,
		WeekStart: weekStart,
		Mode:      mode,
		Locale:    cfg.Locale,
		Location:  loc,
		Now:       time.Now,
	})
	if err != nil {
		return err
	}

	var (
		evs        []calendar.Event
		table      holidays.Table
		cacheValid bool
	)
	var g errgroup.Group
	if cfg.EventsFile != "" {
		g.Go(func() error {
			var err error
			evs, err = events.Load(cfg.EventsFile, loc)
			if err != nil {
				return fmt.Errorf("加载日程文件 %s 失败: %w", cfg.EventsFile, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		table, cacheValid = loadHolidays(cfg.HolidaysFile)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	opts := []calendar.Option{calendar.WithEvents(evs)}
	if table != nil {
		opts = append(opts, calendar.WithHolidays(table))
	}
	if cfg.AlignWeekEnd {
		opts = append(opts, calendar.WithConfiguredWeekEnd())
	}
	service := calendar.NewService(opts...)

	count := *periods
	if tgt.wholeYear && count == 0 {
		count = 12
	}
	if *plain || count > 0 {
		return render.RunPlain(render.PlainOptions{
			Service:           service,
			State:             state,
			Periods:           count,
			HolidayCacheValid: cacheValid,
		})
	}

	return tui.Run(service, state, tui.Options{
		EventsFile:        cfg.EventsFile,
		HolidayCacheValid: cacheValid,
	})
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			appLog.Error("no config directory, using defaults", err)
			return config.DefaultConfig(), nil
		}
		path = p
	}
	return config.Load(path)
}

// applyFlags lets explicit command-line flags override the loaded config.
func applyFlags(cfg *config.Config) {
	if *weekFlag {
		cfg.Mode = calendar.ModeWeek.String()
	}
	if *weekStartFlag != "" {
		cfg.WeekStart = *weekStartFlag
	}
	if *localeFlag != "" {
		cfg.Locale = *localeFlag
	}
	if *eventsFlag != "" {
		cfg.EventsFile = *eventsFlag
	}
	if f := firstNonEmpty(*holidaysFile, *holidaysFileLong); f != "" {
		cfg.HolidaysFile = f
	}
	if *noColor || *noColorLong {
		cfg.NoColor = true
	}
}

// loadHolidays reads an explicit holiday file, or the download cache while it
// is fresh. The flag reports whether usable, current data was found.
func loadHolidays(path string) (holidays.Table, bool) {
	if path != "" {
		table, err := holidays.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "警告: 无法加载节假日文件 %s: %v\n", path, err)
			return nil, false
		}
		logSpan(path, table)
		return table, true
	}

	cachePath, err := holidays.CachePath()
	if err != nil {
		appLog.Error("holiday cache unavailable", err)
		return nil, false
	}
	valid, err := holidays.IsCacheValid(cachePath, time.Now())
	if err != nil || !valid {
		return nil, false
	}
	table, err := holidays.LoadFromCache()
	if err != nil {
		// Cache file exists but can't be read, mark as invalid
		appLog.Error("holiday cache unreadable", err, "path", cachePath)
		return nil, false
	}
	logSpan(cachePath, table)
	return table, true
}

func logSpan(path string, table holidays.Table) {
	if span, ok := holidays.Span(table); ok {
		appLog.Debug("holidays loaded", "path", path, "from", span.Min, "to", span.Max, "years", span.Count)
	}
}

// target is what the positional arguments select.
type target struct {
	year, month, week int
	anchor            time.Time
	// wholeYear is set when only a year was given in month mode.
	wholeYear bool
}

// parseTarget reads the positional arguments:
//
//	month mode: [month] | [year] | [year month] | [date]
//	week mode:  [week] | [year week] | [date]
func parseTarget(args []string, mode calendar.Mode, loc *time.Location) (target, error) {
	switch len(args) {
	case 0:
		return target{}, nil
	case 1:
		val, err := strconv.Atoi(args[0])
		if err != nil {
			anchor, _, err := events.ParseDate(args[0], loc)
			if err != nil {
				return target{}, fmt.Errorf("无法将 %q 解析为日期", args[0])
			}
			return target{anchor: anchor}, nil
		}
		if mode == calendar.ModeWeek {
			if val < 1 || val > 53 {
				return target{}, fmt.Errorf("周数需要在 1-53 之间 (收到 %d)", val)
			}
			return target{week: val}, nil
		}
		if val >= 1 && val <= 12 {
			return target{month: val}, nil
		}
		return target{year: val, month: 1, wholeYear: true}, nil
	case 2:
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return target{}, err
		}
		n, err := parseNumber(args[1], "month/week")
		if err != nil {
			return target{}, err
		}
		if mode == calendar.ModeWeek {
			if n < 1 || n > 53 {
				return target{}, fmt.Errorf("周数需要在 1-53 之间 (收到 %d)", n)
			}
			return target{year: y, week: n}, nil
		}
		if n < 1 || n > 12 {
			return target{}, fmt.Errorf("月份需要在 1-12 之间 (收到 %d)", n)
		}
		return target{year: y, month: n}, nil
	default:
		return target{}, errors.New("参数过多，请参考 --help")
	}
}

func parseNumber(value string, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("无法将 %q 解析为 %s", value, field)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
