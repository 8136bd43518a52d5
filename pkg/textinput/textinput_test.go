package textinput

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/harvester/pkg/notify"
	"github.com/go-drift/harvester/pkg/stream"
)

func collect(t *testing.T, p stream.Publisher[string]) *[]string {
	t.Helper()
	var got []string
	c := stream.Sink(p, func(s string) { got = append(got, s) }, nil)
	t.Cleanup(c.Cancel)
	return &got
}

func TestTextField_Changes(t *testing.T) {
	center := notify.NewCenter()
	field := NewTextField(center)
	got := collect(t, field.TextChanges())

	field.SetText("ignored")
	field.SetText("")
	field.Type("go")
	field.Type("")
	field.Type("é")
	field.DeleteBackward()
	field.Paste("drift")

	assert.Equal(t, []string{"go", "goé", "go", "drift"}, *got)
	assert.Equal(t, "drift", field.Text())
}

func TestTextField_IgnoresOtherFields(t *testing.T) {
	center := notify.NewCenter()
	a := NewTextField(center)
	b := NewTextField(center)
	view := NewTextView(center)
	got := collect(t, a.TextChanges())

	b.Type("b")
	view.Type("v")
	a.Type("a")

	assert.Equal(t, []string{"a"}, *got)
}

func TestTextView_Changes(t *testing.T) {
	center := notify.NewCenter()
	v := NewTextView(center)
	got := collect(t, v.TextChanges())

	v.Type("line")
	v.NewLine()
	v.DeleteBackward()
	v.SetText("")
	v.DeleteBackward()

	assert.Equal(t, []string{"line", "line\n", "line"}, *got)
}

func TestDefaultCenter_Shared(t *testing.T) {
	field := NewTextField(nil)
	got := collect(t, field.TextChanges())

	field.Type("x")

	assert.Equal(t, []string{"x"}, *got)
}
