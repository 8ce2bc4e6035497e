package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/tools"
)

type progressMsg tools.Progress

type doneMsg common.Result

// downloadModel renders a tools.Task. The task's channel is read from a
// tea.Cmd so every UI update happens on the program's own goroutine.
type downloadModel struct {
	name    string
	task    *tools.Task
	bar     progress.Model
	current tools.Progress
	result  *common.Result
}

func newDownloadModel(name string, task *tools.Task) downloadModel {
	return downloadModel{
		name: name,
		task: task,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func waitForProgress(task *tools.Task) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-task.Progress()
		if !ok {
			return doneMsg(task.Wait())
		}
		return progressMsg(p)
	}
}

func (m downloadModel) Init() tea.Cmd {
	return waitForProgress(m.task)
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.current = tools.Progress(msg)
		return m, waitForProgress(m.task)
	case doneMsg:
		res := common.Result(msg)
		m.result = &res
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.result != nil {
		return ""
	}
	status := "waiting for server..."
	if m.current.Total > 0 {
		status = fmt.Sprintf("%s / %s", humanBytes(m.current.Downloaded), humanBytes(m.current.Total))
	} else if m.current.Downloaded > 0 {
		status = humanBytes(m.current.Downloaded)
	}
	return fmt.Sprintf("Downloading %s\n%s %s\n", m.name, m.bar.ViewAs(m.current.Percent()), mutedStyle.Render(status))
}

// runDownloadView blocks until the task finishes. If the view is closed
// early the task keeps running and its result is still returned.
func runDownloadView(out io.Writer, name string, task *tools.Task) (common.Result, error) {
	p := tea.NewProgram(newDownloadModel(name, task), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return task.Wait(), err
	}
	if m, ok := final.(downloadModel); ok && m.result != nil {
		return *m.result, nil
	}
	return task.Wait(), nil
}

// runDownloadPlain prints a line per ten percent for non-interactive output.
func runDownloadPlain(out io.Writer, name string, task *tools.Task) common.Result {
	fmt.Fprintf(out, "Downloading %s\n", name)
	step := -1
	for p := range task.Progress() {
		if s := int(p.Percent() * 10); s > step {
			step = s
			fmt.Fprintf(out, "  %3d%%  %s / %s\n", s*10, humanBytes(p.Downloaded), humanBytes(p.Total))
		}
	}
	return task.Wait()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
