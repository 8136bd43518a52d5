// Package scenario loads replay scenarios for the harvester CLI.
//
// A scenario declares controllers, boolean streams, attachments that bind a
// stream to a child and parent controller, and a timeline of steps that
// drive the streams.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	herrors "github.com/go-drift/harvester/pkg/errors"
	"github.com/go-drift/harvester/pkg/geometry"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	Name        string       `yaml:"name,omitempty"`
	Controllers []Controller `yaml:"controllers"`
	Streams     []string     `yaml:"streams"`
	Attachments []Attachment `yaml:"attachments"`
	Steps       []Step       `yaml:"steps"`
}

// Controller declares a view controller. Width and height size its root
// view; attached children take their frames from the parent.
type Controller struct {
	Title  string  `yaml:"title"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// Attachment binds a stream to a child and parent controller.
type Attachment struct {
	ID             string  `yaml:"id"`
	Stream         string  `yaml:"stream"`
	Child          string  `yaml:"child"`
	Parent         string  `yaml:"parent"`
	LockNavigation bool    `yaml:"lock_navigation,omitempty"`
	Padding        float64 `yaml:"padding,omitempty"`
	Insets         *Insets `yaml:"insets,omitempty"`
}

// Insets mirrors geometry.EdgeInsets in scenario files.
type Insets struct {
	Top    float64 `yaml:"top"`
	Left   float64 `yaml:"left"`
	Bottom float64 `yaml:"bottom"`
	Right  float64 `yaml:"right"`
}

// EdgeInsets returns the explicit insets if set, otherwise the padding
// expanded with geometry.Padding.
func (a Attachment) EdgeInsets() geometry.EdgeInsets {
	if a.Insets != nil {
		return geometry.EdgeInsets{
			Top:    a.Insets.Top,
			Left:   a.Insets.Left,
			Bottom: a.Insets.Bottom,
			Right:  a.Insets.Right,
		}
	}
	return geometry.Padding(a.Padding)
}

// Step is one timeline entry. Exactly one action is set: a value for a
// stream, completion of a stream, or cancellation of an attachment.
type Step struct {
	Stream   string `yaml:"stream,omitempty"`
	Value    *bool  `yaml:"value,omitempty"`
	Complete bool   `yaml:"complete,omitempty"`
	Cancel   string `yaml:"cancel,omitempty"`
}

// String describes the step for replay output.
func (s Step) String() string {
	switch {
	case s.Cancel != "":
		return "cancel " + s.Cancel
	case s.Complete:
		return s.Stream + " complete"
	case s.Value != nil:
		return fmt.Sprintf("%s <- %t", s.Stream, *s.Value)
	default:
		return "empty step"
	}
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scenario")

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &herrors.HarvesterError{
			Op:   "scenario.Parse",
			Kind: herrors.KindConfig,
			Err:  fmt.Errorf("failed to parse scenario: %w", err),
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, &herrors.HarvesterError{
			Op:   "scenario.Validate",
			Kind: herrors.KindConfig,
			Err:  err,
		}
	}
	return &sc, nil
}

// Validate checks names and references.
func (sc *Scenario) Validate() error {
	controllers := make(map[string]bool, len(sc.Controllers))
	for i, c := range sc.Controllers {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			return fmt.Errorf("%w: controller %d has no title", ErrInvalid, i)
		}
		if controllers[title] {
			return fmt.Errorf("%w: duplicate controller %q", ErrInvalid, title)
		}
		if c.Width < 0 || c.Height < 0 {
			return fmt.Errorf("%w: controller %q has a negative size", ErrInvalid, title)
		}
		controllers[title] = true
	}

	streams := make(map[string]bool, len(sc.Streams))
	for _, name := range sc.Streams {
		if name == "" {
			return fmt.Errorf("%w: empty stream name", ErrInvalid)
		}
		if streams[name] {
			return fmt.Errorf("%w: duplicate stream %q", ErrInvalid, name)
		}
		streams[name] = true
	}

	attachments := make(map[string]bool, len(sc.Attachments))
	for i, a := range sc.Attachments {
		if a.ID == "" {
			return fmt.Errorf("%w: attachment %d has no id", ErrInvalid, i)
		}
		if attachments[a.ID] {
			return fmt.Errorf("%w: duplicate attachment %q", ErrInvalid, a.ID)
		}
		if !streams[a.Stream] {
			return fmt.Errorf("%w: attachment %q uses unknown stream %q", ErrInvalid, a.ID, a.Stream)
		}
		if !controllers[a.Child] {
			return fmt.Errorf("%w: attachment %q uses unknown child %q", ErrInvalid, a.ID, a.Child)
		}
		if !controllers[a.Parent] {
			return fmt.Errorf("%w: attachment %q uses unknown parent %q", ErrInvalid, a.ID, a.Parent)
		}
		if a.Child == a.Parent {
			return fmt.Errorf("%w: attachment %q attaches %q to itself", ErrInvalid, a.ID, a.Child)
		}
		if a.Insets != nil && a.Padding != 0 {
			return fmt.Errorf("%w: attachment %q sets both padding and insets", ErrInvalid, a.ID)
		}
		attachments[a.ID] = true
	}

	for i, s := range sc.Steps {
		actions := 0
		if s.Value != nil {
			actions++
		}
		if s.Complete {
			actions++
		}
		if s.Cancel != "" {
			actions++
		}
		if actions != 1 {
			return fmt.Errorf("%w: step %d must set exactly one of value, complete or cancel", ErrInvalid, i)
		}
		if s.Cancel != "" {
			if !attachments[s.Cancel] {
				return fmt.Errorf("%w: step %d cancels unknown attachment %q", ErrInvalid, i, s.Cancel)
			}
			continue
		}
		if !streams[s.Stream] {
			return fmt.Errorf("%w: step %d uses unknown stream %q", ErrInvalid, i, s.Stream)
		}
	}
	return nil
}
