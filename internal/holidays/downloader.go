package holidays

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// SourceURL publishes the holiday data consumed by calgrid.
const SourceURL = "https://raw.githubusercontent.com/lululau/lucal/main/holidays.json"

// Result describes a finished download.
type Result struct {
	Path     string
	Size     int64
	Years    Years
	HasYears bool
}

// Download fetches url into dest. The body must parse as holiday data before
// it replaces dest. report, if set, is called as bytes arrive; total is -1
// when the server does not announce a length.
func Download(ctx context.Context, url, dest string, report func(done, total int64)) (Result, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("start download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("download holidays: HTTP %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, ".holidays-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	counter := &countingWriter{total: resp.ContentLength, report: report}
	body, err := io.ReadAll(io.TeeReader(resp.Body, counter))
	if err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("read body: %w", err)
	}
	table, err := Parse(body)
	if err != nil {
		tmp.Close()
		return Result{}, err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return Result{}, fmt.Errorf("install holidays file: %w", err)
	}

	res := Result{Path: dest, Size: int64(len(body))}
	res.Years, res.HasYears = Span(table)
	return res, nil
}

type countingWriter struct {
	done   atomic.Int64
	total  int64
	report func(done, total int64)
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n := w.done.Add(int64(len(p)))
	if w.report != nil {
		w.report(n, w.total)
	}
	return len(p), nil
}

type progressMsg struct {
	done  int64
	total int64
}

type finishedMsg struct {
	res Result
	err error
}

type downloadModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	url     string
	dest    string
	bar     progress.Model
	updates chan progressMsg
	started time.Time
	done    int64
	total   int64
	result  *finishedMsg
}

func newDownloadModel(ctx context.Context, url, dest string) downloadModel {
	ctx, cancel := context.WithCancel(ctx)
	return downloadModel{
		ctx:     ctx,
		cancel:  cancel,
		url:     url,
		dest:    dest,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		updates: make(chan progressMsg, 16),
		started: time.Now(),
		total:   -1,
	}
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(m.fetch, m.listen)
}

func (m downloadModel) fetch() tea.Msg {
	defer close(m.updates)
	res, err := Download(m.ctx, m.url, m.dest, func(done, total int64) {
		select {
		case m.updates <- progressMsg{done: done, total: total}:
		default:
		}
	})
	return finishedMsg{res: res, err: err}
}

func (m downloadModel) listen() tea.Msg {
	msg, ok := <-m.updates
	if !ok {
		return nil
	}
	return msg
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.result != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancel()
			return m, tea.Quit
		}
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		return m, m.listen
	case finishedMsg:
		m.result = &msg
		m.cancel()
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.result != nil {
		if m.result.err != nil {
			var sb strings.Builder
			fmt.Fprintf(&sb, "❌ 下载失败\n\n错误详情: %v\n\n", m.result.err)
			sb.WriteString("您可以手动下载节假日数据文件：\n")
			fmt.Fprintf(&sb, "1. 访问: %s\n", m.url)
			fmt.Fprintf(&sb, "2. 下载文件并保存到: %s\n\n", m.dest)
			sb.WriteString("按任意键退出...\n")
			return sb.String()
		}
		res := m.result.res
		out := fmt.Sprintf("✅ 下载成功!\n\n文件大小: %s\n保存位置: %s\n", formatBytes(res.Size), res.Path)
		if res.HasYears {
			out += fmt.Sprintf("\n数据年份范围: %d 年 - %d 年 (共 %d 年)\n", res.Years.Min, res.Years.Max, res.Years.Count)
		}
		return out + "\n按任意键退出...\n"
	}

	var percent float64
	info := formatBytes(m.done)
	if m.total > 0 {
		percent = min(float64(m.done)/float64(m.total), 1)
		info += " / " + formatBytes(m.total)
	}
	if elapsed := time.Since(m.started).Seconds(); elapsed > 0 && m.done > 0 {
		info += fmt.Sprintf("  %s/s", formatBytes(int64(float64(m.done)/elapsed)))
	}
	return fmt.Sprintf("正在下载节假日数据...\n\n%s\n%s\n\n按 Ctrl+C 取消\n", m.bar.ViewAs(percent), info)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// DownloadHolidays refreshes the cached holiday file with a progress screen.
func DownloadHolidays(ctx context.Context) error {
	path, err := CachePath()
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(newDownloadModel(ctx, SourceURL, path), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(downloadModel); ok && m.result != nil {
		return m.result.err
	}
	return nil
}
