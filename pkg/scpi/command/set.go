// File: set.go
// Title: Command Set and Tree Builder
// Description: Implements the declarative registration table for commands
//              and its compilation into a trie. A set can extend exactly one
//              base set; building a derived set compiles the base templates
//              into a fresh tree first and overlays the derived templates,
//              so the base set's own tree is never touched.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial set builder

package command

import (
	"fmt"

	"github.com/stonerlab/goscpi/pkg/scpi/param"
)

// Spec is one registration entry: a template bound to a handler, its
// parameter converters and its concurrency mode
type Spec struct {
	// Template is the command path in SCPI notation: ':'-separated words,
	// capitalized prefixes marking the short form, '[...]' for optional
	// segments and a leading '*' for IEEE-488.2 common commands
	Template string

	// Handler runs when the command is dispatched
	Handler HandlerFunc

	// Converters declare the parameter slots; nil means no parameters
	Converters []param.Converter

	// Mode is the concurrency discipline; the zero value is Sync
	Mode Mode

	// Name identifies the handler in the task registry and logs; when
	// empty it is derived from the template
	Name string
}

// Set is an ordered collection of command specs, optionally extending a
// single base set
type Set struct {
	base  *Set
	specs []Spec
}

// NewSet creates an empty command set
func NewSet() *Set {
	return &Set{}
}

// Extend returns a new empty set whose Build compiles this set's commands
// first and overlays the new set's own declarations
func (s *Set) Extend() *Set {
	return &Set{base: s}
}

// Declare appends a registration entry to the set
func (s *Set) Declare(spec Spec) {
	s.specs = append(s.specs, spec)
}

// Specs returns the set's own entries, excluding inherited ones
func (s *Set) Specs() []Spec {
	return s.specs
}

// Build compiles the set (base chain first, then overlays) into a fresh
// command tree. Malformed templates and leaf collisions are returned as
// errors; callers treat them as fatal configuration errors at startup.
func (s *Set) Build() (*Tree, error) {
	tree := &Tree{root: newNode()}
	if err := s.compileInto(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Set) compileInto(tree *Tree) error {
	if s.base != nil {
		if err := s.base.compileInto(tree); err != nil {
			return err
		}
	}

	for _, spec := range s.specs {
		if spec.Handler == nil {
			return fmt.Errorf("template %q declared without a handler", spec.Template)
		}

		leaf := &Leaf{
			Name:       spec.Name,
			Handler:    spec.Handler,
			Converters: spec.Converters,
			Mode:       spec.Mode,
		}
		if leaf.Name == "" {
			leaf.Name = canonicalName(spec.Template)
		}

		variants, err := expandOptional(spec.Template)
		if err != nil {
			return err
		}
		for _, variant := range variants {
			words, err := splitWords(variant)
			if err != nil {
				return err
			}
			if err := tree.insert(words, leaf); err != nil {
				return err
			}
		}
	}
	return nil
}
