// File: parser.go
// Title: Command Resolver
// Description: Resolves one textual command against the compiled command
//              tree. A command starting with ':' or '*' is resolved from
//              the root; anything else is resolved relative to the session
//              cursor first and retried from the root when the cursor path
//              misses, which is what lets "SYST:ERR?;VERS?" work. The
//              cursor follows the parent of the final token on rooted
//              traversals; common commands never move it.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial resolver

package parser

import (
	"strings"

	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
	"github.com/stonerlab/goscpi/pkg/scpi/token"
)

// Resolved is the outcome of resolving one command: the leaf to dispatch
// and its raw parameter strings
type Resolved struct {
	// Leaf is the matched terminal
	Leaf *command.Leaf

	// Args holds the raw parameter strings in input order
	Args []string
}

// Cursor is the per-session resolution anchor. It tracks the branch node
// the previous rooted command descended into, so subsequent commands in
// the same subsystem can omit the common prefix.
type Cursor struct {
	node *command.Node
}

// Reset clears the cursor back to the tree root
func (c *Cursor) Reset() {
	c.node = nil
}

// Resolver resolves commands against a compiled tree. The tree is
// read-only, so one resolver serves any number of sessions.
type Resolver struct {
	tree *command.Tree
}

// NewResolver creates a resolver for the given tree
func NewResolver(tree *command.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Resolve matches one command (path plus parameter portion, no semicolons)
// against the tree and updates the cursor. Unknown headers yield a command
// error, a path ending on a pure branch yields a syntax error.
func (r *Resolver) Resolve(cmd string, cursor *Cursor) (*Resolved, *status.Error) {
	path, portion := token.SplitPath(cmd)
	if path == "" {
		return nil, status.Errorf(status.ErrSyntax, "empty command")
	}

	tokens := splitTokens(path)
	if len(tokens) == 0 {
		return nil, status.Errorf(status.ErrSyntax, "empty command header %q", path)
	}

	switch {
	case strings.HasPrefix(path, "*"):
		// Common commands resolve from the root and leave the cursor alone.
		leaf, _, err := walk(r.tree.Root(), tokens)
		if err != nil {
			return nil, err
		}
		return &Resolved{Leaf: leaf, Args: token.SplitParams(portion)}, nil

	case strings.HasPrefix(path, ":"), cursor.node == nil:
		leaf, parent, err := walk(r.tree.Root(), tokens)
		if err != nil {
			return nil, err
		}
		cursor.node = parent
		return &Resolved{Leaf: leaf, Args: token.SplitParams(portion)}, nil

	default:
		// Relative: try the cursor subtree, fall back to the root.
		if leaf, _, err := walk(cursor.node, tokens); err == nil {
			return &Resolved{Leaf: leaf, Args: token.SplitParams(portion)}, nil
		}
		leaf, parent, err := walk(r.tree.Root(), tokens)
		if err != nil {
			return nil, err
		}
		cursor.node = parent
		return &Resolved{Leaf: leaf, Args: token.SplitParams(portion)}, nil
	}
}

// walk descends from start along the tokens and returns the final leaf
// together with the parent node of the last token
func walk(start *command.Node, tokens []string) (*command.Leaf, *command.Node, *status.Error) {
	node := start
	parent := start
	for _, tok := range tokens {
		next := node.Child(tok)
		if next == nil {
			return nil, nil, status.Errorf(status.ErrCommand, "undefined header %q", strings.Join(tokens, ":"))
		}
		parent = node
		node = next
	}
	leaf := node.Leaf()
	if leaf == nil {
		return nil, nil, status.Errorf(status.ErrSyntax, "incomplete header %q", strings.Join(tokens, ":"))
	}
	return leaf, parent, nil
}

// splitTokens breaks an upper-cased header into its path tokens. A common
// command keeps its '*' prefix as part of the single token.
func splitTokens(path string) []string {
	if strings.HasPrefix(path, "*") {
		return []string{path}
	}
	var tokens []string
	for _, part := range strings.Split(path, ":") {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
