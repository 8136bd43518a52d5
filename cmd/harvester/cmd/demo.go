package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/harvester/cmd/harvester/internal/render"
	"github.com/go-drift/harvester/pkg/attach"
	"github.com/go-drift/harvester/pkg/geometry"
	"github.com/go-drift/harvester/pkg/mainthread"
	"github.com/go-drift/harvester/pkg/stream"
	"github.com/go-drift/harvester/pkg/view"
)

const maxDemoEvents = 6

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an interactive loading overlay demo",
	Long: `Demo shows a screen controller with a loading spinner attached
through a boolean stream. The terminal event loop is the UI context.

Keys:
  space  toggle the loading stream on the UI context
  d      simulate a download that toggles loading from a background goroutine
  c      cancel the attachment
  r      attach again after cancelling
  q      quit`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOwnsTerminal: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context(), settings.GetDuration("download"))
	},
}

func init() {
	demoCmd.Flags().String("log-file", "", "Write logs to this file (the terminal is taken by the demo)")
	demoCmd.Flags().Duration("download", 1500*time.Millisecond, "Length of a simulated download")
	_ = settings.BindPFlag("log-file", demoCmd.Flags().Lookup("log-file"))
	_ = settings.BindPFlag("download", demoCmd.Flags().Lookup("download"))
}

func runDemo(ctx context.Context, download time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d := &teaDispatcher{}
	prev := mainthread.Register(d)
	defer mainthread.Register(prev)

	m := newDemoModel(d, download)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	d.bind(p.Send)

	_, err := p.Run()
	d.stop()
	m.close()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return nil
}

// downloadDoneMsg reports the end of a simulated download.
type downloadDoneMsg struct{}

type demoModel struct {
	dispatcher *teaDispatcher
	download   time.Duration

	screen  *view.Controller
	spinner *view.Controller
	loading *stream.Subject[bool]

	attachment  stream.Cancellable
	downloading bool
	events      []string
}

func newDemoModel(d *teaDispatcher, download time.Duration) *demoModel {
	m := &demoModel{
		dispatcher: d,
		download:   download,
		screen:     view.NewController("screen"),
		spinner:    view.NewController("spinner"),
		loading:    stream.NewSubject[bool]("isLoading"),
	}
	m.spinner.OnWillMove = func(parent *view.Controller) {
		m.record("will move", parent)
	}
	m.spinner.OnDidMove = func(parent *view.Controller) {
		m.record("did move", parent)
	}
	m.attach()
	return m
}

func (m *demoModel) Init() tea.Cmd {
	m.dispatcher.enter()
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.dispatcher.enter()

	switch msg := msg.(type) {
	case flushMsg:
		m.dispatcher.flush()
	case downloadDoneMsg:
		m.downloading = false
	case tea.WindowSizeMsg:
		m.screen.View().SetFrame(geometry.RectFromLTWH(0, 0, float64(msg.Width), float64(msg.Height)))
		m.screen.View().LayoutSubviews()
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "space":
			m.loading.Send(!m.attached())
		case "d":
			if !m.downloading {
				m.downloading = true
				return m, simulateDownload(m.loading, m.download)
			}
		case "c":
			if m.attachment != nil {
				m.attachment.Cancel()
				m.attachment = nil
				logger.Debug("attachment cancelled")
			}
		case "r":
			if m.attachment == nil {
				m.attach()
			}
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *demoModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("harvester demo"))
	b.WriteString("\n\n")
	b.WriteString(render.Tree(m.screen))
	if !m.attached() {
		b.WriteString("\n")
		b.WriteString(render.Tree(m.spinner))
	}
	b.WriteString("\n\n")

	state := "active"
	if m.attachment == nil {
		state = "cancelled"
	}
	status := fmt.Sprintf("attachment: %s   loading: %t", state, m.attached())
	if m.downloading {
		status += "   downloading..."
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	for _, e := range m.events {
		b.WriteString(statusStyle.Render("  " + e))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space toggle • d download • c cancel • r reattach • q quit"))
	return b.String()
}

func (m *demoModel) attached() bool {
	return m.spinner.Parent() == m.screen
}

func (m *demoModel) attach() {
	m.attachment = attach.AttachLoader(m.loading, m.spinner, m.screen, 1)
}

func (m *demoModel) record(event string, parent *view.Controller) {
	target := "nil"
	if parent != nil {
		target = parent.Title()
	}
	m.events = append(m.events, fmt.Sprintf("%s %s(%s)", time.Now().Format("15:04:05.000"), event, target))
	if len(m.events) > maxDemoEvents {
		m.events = m.events[len(m.events)-maxDemoEvents:]
	}
	logger.Debug("spinner moved", zap.String("event", event), zap.String("parent", target))
}

// close tears down the attachment. Call it on the UI context.
func (m *demoModel) close() {
	if m.attachment != nil {
		m.attachment.Cancel()
		m.attachment = nil
	}
	m.loading.Complete()
}

// simulateDownload toggles loading from the command goroutine, off the UI
// context, so every event is posted through the dispatcher.
func simulateDownload(loading *stream.Subject[bool], d time.Duration) tea.Cmd {
	return func() tea.Msg {
		loading.Send(true)
		time.Sleep(d)
		loading.Send(false)
		return downloadDoneMsg{}
	}
}
