// File: tree.go
// Title: Command Tree
// Description: Implements the compiled command trie. Nodes map upper-case
//              tokens to children, with long and short forms of a word
//              resolving to the same child. A node may carry a terminal
//              leaf (held in a dedicated slot, so it can never collide with
//              a real token) while still having children, which is how
//              SYSTem:ERRor? coexists with SYSTem:ERRor:NEXT?.
//              The tree is immutable once built and safe for concurrent
//              reads by any number of sessions.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial trie implementation

package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stonerlab/goscpi/pkg/scpi/param"
)

// Leaf is the compiled, invocable unit attached to a node's terminal slot
type Leaf struct {
	// Name identifies the handler in task bookkeeping and logs
	Name string

	// Handler is invoked with the converted parameters
	Handler HandlerFunc

	// Converters turn raw parameter strings into typed values; the
	// length fixes the command's arity
	Converters []param.Converter

	// Mode is the concurrency discipline the leaf is dispatched under
	Mode Mode
}

// Node is one element of the command trie
type Node struct {
	children map[string]*Node
	leaf     *Leaf
}

// newNode creates an empty node
func newNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Child returns the child for a token (already upper-cased) or nil
func (n *Node) Child(tok string) *Node {
	return n.children[tok]
}

// Leaf returns the terminal leaf of the node, or nil for a pure branch
func (n *Node) Leaf() *Leaf {
	return n.leaf
}

// Tokens returns the sorted child tokens, used by debug commands and tests
func (n *Node) Tokens() []string {
	tokens := make([]string, 0, len(n.children))
	for tok := range n.children {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// Tree is a compiled command trie, read-only after Build
type Tree struct {
	root *Node
}

// Root returns the root node
func (t *Tree) Root() *Node {
	return t.root
}

// insert walks/creates nodes for one expanded word sequence and attaches
// the leaf at the final word
func (t *Tree) insert(words []Word, leaf *Leaf) error {
	node := t.root
	for ix, word := range words {
		child, err := node.childFor(word)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", joinWords(words[:ix+1]), err)
		}
		node = child
	}

	if existing := node.leaf; existing != nil {
		if len(existing.Converters) != len(leaf.Converters) || existing.Mode != leaf.Mode {
			return fmt.Errorf("command %s collides with %s: arity or mode differs",
				leaf.Name, existing.Name)
		}
	}
	node.leaf = leaf
	return nil
}

// childFor returns the child node for a word, creating it if needed and
// aliasing the short form to the same node as the long form
func (n *Node) childFor(word Word) (*Node, error) {
	child, hasLong := n.children[word.Long]
	shortChild, hasShort := n.children[word.Short]

	switch {
	case hasLong && hasShort:
		if child != shortChild {
			return nil, fmt.Errorf("short form %s of %s is ambiguous with a sibling", word.Short, word.Long)
		}
		return child, nil
	case hasLong:
		n.children[word.Short] = child
		return child, nil
	case hasShort:
		// Another word already claimed this short form
		if word.Short != word.Long {
			return nil, fmt.Errorf("short form %s of %s is ambiguous with a sibling", word.Short, word.Long)
		}
		return shortChild, nil
	default:
		child = newNode()
		n.children[word.Long] = child
		n.children[word.Short] = child
		return child, nil
	}
}

func joinWords(words []Word) string {
	parts := make([]string, len(words))
	for ix, w := range words {
		parts[ix] = w.Long
	}
	return strings.Join(parts, ":")
}
