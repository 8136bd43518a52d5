package testing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/harvester/pkg/view"
)

// Finder locates controllers in a controller tree.
type Finder interface {
	// Matches reports whether c is a match.
	Matches(c *view.Controller) bool
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	controllers []*view.Controller
	finder      Finder
}

// Find evaluates finder against root and its descendants (depth-first
// pre-order, root included).
func Find(root *view.Controller, finder Finder) FinderResult {
	var matches []*view.Controller
	if root != nil {
		root.Walk(func(c *view.Controller, _ int) bool {
			if finder.Matches(c) {
				matches = append(matches, c)
			}
			return true
		})
	}
	return FinderResult{controllers: matches, finder: finder}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *view.Controller {
	if len(r.controllers) == 0 {
		panic(fmt.Sprintf("Finder found no controllers: %s", r.finder.Description()))
	}
	return r.controllers[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *view.Controller {
	if len(r.controllers) == 0 {
		return nil
	}
	return r.controllers[0]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*view.Controller {
	return r.controllers
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.controllers)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.controllers) > 0
}

type titleFinder struct {
	title string
}

func (f titleFinder) Matches(c *view.Controller) bool {
	return c.Title() == f.title
}

func (f titleFinder) Description() string {
	return fmt.Sprintf("ByTitle(%q)", f.title)
}

// ByTitle matches controllers with exactly this title.
func ByTitle(title string) Finder {
	return titleFinder{title: title}
}

type identityFinder struct {
	target *view.Controller
}

func (f identityFinder) Matches(c *view.Controller) bool {
	return c == f.target
}

func (f identityFinder) Description() string {
	return fmt.Sprintf("ByController(%s)", f.target.Title())
}

// ByController matches one specific controller.
func ByController(c *view.Controller) Finder {
	return identityFinder{target: c}
}

type idFinder struct {
	id uuid.UUID
}

func (f idFinder) Matches(c *view.Controller) bool {
	return c.ID() == f.id
}

func (f idFinder) Description() string {
	return fmt.Sprintf("ByID(%s)", f.id)
}

// ByID matches the controller with this ID.
func ByID(id uuid.UUID) Finder {
	return idFinder{id: id}
}

type predicateFinder struct {
	fn   func(*view.Controller) bool
	desc string
}

func (f predicateFinder) Matches(c *view.Controller) bool {
	return f.fn(c)
}

func (f predicateFinder) Description() string {
	return fmt.Sprintf("ByPredicate(%s)", f.desc)
}

// ByPredicate matches controllers for which fn returns true.
func ByPredicate(desc string, fn func(*view.Controller) bool) Finder {
	return predicateFinder{fn: fn, desc: desc}
}
