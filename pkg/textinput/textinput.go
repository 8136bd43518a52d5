// Package textinput provides text entry controls whose edits are observable
// as streams.
//
//	bag.Add(stream.Sink(field.TextChanges(), viewModel.SetQuery, nil))
package textinput

import (
	"unicode/utf8"

	"github.com/go-drift/harvester/pkg/notify"
	"github.com/go-drift/harvester/pkg/stream"
)

// Notification names posted after a user edit.
const (
	TextFieldTextDidChange notify.Name = "TextFieldTextDidChange"
	TextViewTextDidChange  notify.Name = "TextViewTextDidChange"
)

// editor is the text storage shared by TextField and TextView.
type editor struct {
	center *notify.Center
	text   string
}

func (e *editor) notifier() *notify.Center {
	if e.center == nil {
		return notify.Default
	}
	return e.center
}

func (e *editor) deleteBackward() bool {
	if e.text == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(e.text)
	e.text = e.text[:len(e.text)-size]
	return true
}

// TextField is a single-line text input.
type TextField struct {
	editor
	Placeholder string
}

// NewTextField creates a field posting to center, or to notify.Default
// when center is nil.
func NewTextField(center *notify.Center) *TextField {
	return &TextField{editor: editor{center: center}}
}

// Text returns the current content.
func (f *TextField) Text() string {
	return f.text
}

// SetText replaces the content programmatically. Like any programmatic
// change it does not post a notification.
func (f *TextField) SetText(text string) {
	f.text = text
}

// Type appends s as if the user typed it.
func (f *TextField) Type(s string) {
	if s == "" {
		return
	}
	f.text += s
	f.changed()
}

// DeleteBackward removes the last character as the backspace key does.
func (f *TextField) DeleteBackward() {
	if f.deleteBackward() {
		f.changed()
	}
}

// Paste replaces the whole content as a user edit.
func (f *TextField) Paste(text string) {
	f.text = text
	f.changed()
}

// TextChanges streams the field's text after every user edit.
func (f *TextField) TextChanges() stream.Publisher[string] {
	return textChanges[*TextField](f.notifier(), TextFieldTextDidChange, f)
}

func (f *TextField) changed() {
	f.notifier().Post(notify.Notification{Name: TextFieldTextDidChange, Object: f})
}

// TextView is a multi-line text input.
type TextView struct {
	editor
}

// NewTextView creates a text view posting to center, or to notify.Default
// when center is nil.
func NewTextView(center *notify.Center) *TextView {
	return &TextView{editor: editor{center: center}}
}

// Text returns the current content.
func (v *TextView) Text() string {
	return v.text
}

// SetText replaces the content without posting a notification.
func (v *TextView) SetText(text string) {
	v.text = text
}

// Type appends s as if the user typed it.
func (v *TextView) Type(s string) {
	if s == "" {
		return
	}
	v.text += s
	v.changed()
}

// NewLine inserts a line break as a user edit.
func (v *TextView) NewLine() {
	v.Type("\n")
}

// DeleteBackward removes the last character as the backspace key does.
func (v *TextView) DeleteBackward() {
	if v.deleteBackward() {
		v.changed()
	}
}

// TextChanges streams the view's text after every user edit.
func (v *TextView) TextChanges() stream.Publisher[string] {
	return textChanges[*TextView](v.notifier(), TextViewTextDidChange, v)
}

func (v *TextView) changed() {
	v.notifier().Post(notify.Notification{Name: TextViewTextDidChange, Object: v})
}

type texter interface {
	Text() string
}

func textChanges[T texter](center *notify.Center, name notify.Name, sender T) stream.Publisher[string] {
	return stream.CompactMap(center.Publisher(name, sender), func(n notify.Notification) (string, bool) {
		src, ok := n.Object.(T)
		if !ok {
			return "", false
		}
		return src.Text(), true
	})
}
