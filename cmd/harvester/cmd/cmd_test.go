package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	herrors "github.com/go-drift/harvester/pkg/errors"
	"github.com/go-drift/harvester/pkg/geometry"
	"github.com/go-drift/harvester/pkg/mainthread"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const loaderScenario = `
name: loader
controllers:
  - {title: screen, width: 390, height: 844}
  - {title: spinner}
streams: [isLoading]
attachments:
  - {id: loading, stream: isLoading, child: spinner, parent: screen, lock_navigation: true, padding: 8}
steps:
  - {stream: isLoading, value: false}
  - {stream: isLoading, value: true}
  - {stream: isLoading, value: true}
  - {cancel: loading}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { herrors.SetHandler(nil) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "harvester "+Version))
}

func TestReplayCmd_RendersSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loaderScenario), 0o644))

	out, err := execute(t, "replay", path)
	require.NoError(t, err)

	assert.Contains(t, out, "initial")
	assert.Contains(t, out, "step 1: isLoading <- false")
	assert.Contains(t, out, "step 2: isLoading <- true")
	assert.Contains(t, out, "step 4: cancel loading")
	// Only the two steps holding the spinner show the lock.
	assert.Equal(t, 2, strings.Count(out, "[modal]"))
	assert.Contains(t, out, "spinner (8,8 374x828)")
	assert.Nil(t, mainthread.Current())
}

func TestReplayCmd_RejectsInvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - {stream: missing, value: true}\n"), 0o644))

	_, err := execute(t, "replay", path)
	require.Error(t, err)

	var herr *herrors.HarvesterError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, herrors.KindConfig, herr.Kind)
}

func TestTeaDispatcher_QueuesUntilFlush(t *testing.T) {
	d := &teaDispatcher{}
	assert.False(t, d.Post(func() {}), "unbound dispatcher refuses work")

	msgs := make(chan tea.Msg, 8)
	d.bind(func(msg tea.Msg) { msgs <- msg })

	var order []int
	require.True(t, d.Post(func() { order = append(order, 1) }))
	require.True(t, d.Post(func() { order = append(order, 2) }))
	assert.IsType(t, flushMsg{}, <-msgs)
	assert.IsType(t, flushMsg{}, <-msgs)

	assert.False(t, d.IsCurrent())
	d.enter()
	assert.True(t, d.IsCurrent())

	d.flush()
	assert.Equal(t, []int{1, 2}, order)

	require.True(t, d.Post(func() { order = append(order, 3) }))
	<-msgs
	d.stop()
	assert.Equal(t, []int{1, 2, 3}, order, "stop runs leftovers")
	assert.False(t, d.Post(func() {}))
}

func TestDemoModel_KeyBindings(t *testing.T) {
	msgs := make(chan tea.Msg, 16)
	d := &teaDispatcher{}
	d.bind(func(msg tea.Msg) { msgs <- msg })
	prev := mainthread.Register(d)
	t.Cleanup(func() { mainthread.Register(prev) })

	m := newDemoModel(d, time.Millisecond)
	require.Nil(t, m.Init())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	require.True(t, m.attached())
	assert.True(t, m.screen.ModalInPresentation())
	assert.Equal(t, geometry.RectFromLTWH(1, 1, 78, 22), m.spinner.View().Frame())
	assert.Contains(t, m.View(), "attachment: active")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.False(t, m.attached())
	assert.False(t, m.screen.ModalInPresentation())
	assert.Contains(t, m.View(), "attachment: cancelled")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, m.attachment)
	m.events = nil

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	assert.True(t, m.downloading)

	done := make(chan tea.Msg)
	go func() { done <- cmd() }()
	msg := <-done
	assert.False(t, m.attached(), "download events wait for the event loop")

	m.Update(flushMsg{})
	m.Update(msg)
	assert.False(t, m.downloading)
	assert.False(t, m.attached())
	assert.Len(t, m.events, 4)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	d.stop()
	m.close()
	assert.Equal(t, 0, m.loading.SubscriberCount())
}
