// File: command_test.go
// Title: Command Set Tests
// Description: Tests for template expansion, tree compilation, short-form
//              aliasing, collision detection and set inheritance.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial tests

package command

import (
	"context"
	"sort"
	"testing"

	"github.com/stonerlab/goscpi/pkg/scpi/param"
)

func nopHandler(ctx context.Context, inv *Invocation) error { return nil }

func TestExpandOptional(t *testing.T) {
	tests := []struct {
		template string
		want     []string
	}{
		{"SYSTem:VERSion?", []string{"SYSTem:VERSion?"}},
		{"SYSTem:ERRor[:NEXT]?", []string{"SYSTem:ERRor?", "SYSTem:ERRor:NEXT?"}},
		{"[SOURce:]FREQuency", []string{"FREQuency", "SOURce:FREQuency"}},
		{
			"[SOURce:]POWer[:LEVel]",
			[]string{"POWer", "POWer:LEVel", "SOURce:POWer", "SOURce:POWer:LEVel"},
		},
	}

	for _, tc := range tests {
		got, err := expandOptional(tc.template)
		if err != nil {
			t.Fatalf("expandOptional(%q): %v", tc.template, err)
		}
		sort.Strings(got)
		want := append([]string(nil), tc.want...)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("expandOptional(%q) = %v, want %v", tc.template, got, want)
		}
		for ix := range want {
			if got[ix] != want[ix] {
				t.Errorf("expandOptional(%q) = %v, want %v", tc.template, got, want)
				break
			}
		}
	}
}

func TestExpandOptionalUnbalanced(t *testing.T) {
	for _, template := range []string{"SYST[:ERR?", "SYST:ERR]?", "SYST][:ERR?"} {
		if _, err := expandOptional(template); err == nil {
			t.Errorf("expandOptional(%q): expected error", template)
		}
	}
}

// resolveTokens walks the tree along the given upper-cased tokens and
// returns the leaf at the end, or nil.
func resolveTokens(tree *Tree, tokens ...string) *Leaf {
	node := tree.Root()
	for _, tok := range tokens {
		node = node.Child(tok)
		if node == nil {
			return nil
		}
	}
	return node.Leaf()
}

func TestBuildSpellings(t *testing.T) {
	set := NewSet()
	set.Declare(Spec{Template: "SYSTem:EXAMple[:ECHO]", Handler: nopHandler})

	tree, err := set.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	matches := [][]string{
		{"SYST", "EXAM"},
		{"SYSTEM", "EXAMPLE"},
		{"SYST", "EXAM", "ECHO"},
		{"SYSTEM", "EXAMPLE", "ECHO"},
		{"SYSTEM", "EXAM"},
		{"SYST", "EXAMPLE", "ECHO"},
	}
	for _, path := range matches {
		if resolveTokens(tree, path...) == nil {
			t.Errorf("path %v: expected a leaf", path)
		}
	}

	misses := [][]string{
		{"SYSTE", "EXAM"},
		{"SYS", "EXAM"},
		{"SYST", "EXAMPL"},
		{"SYST", "EXAM", "ECH"},
	}
	for _, path := range misses {
		if resolveTokens(tree, path...) != nil {
			t.Errorf("path %v: expected no leaf", path)
		}
	}
}

func TestBuildSharedBranch(t *testing.T) {
	set := NewSet()
	set.Declare(Spec{Template: "SYSTem:ERRor[:NEXT]?", Handler: nopHandler, Name: "errq"})
	set.Declare(Spec{Template: "SYSTem:VERSion?", Handler: nopHandler, Name: "versq"})

	tree, err := set.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if leaf := resolveTokens(tree, "SYST", "ERR?"); leaf == nil || leaf.Name != "errq" {
		t.Fatalf("SYST:ERR? resolved to %+v", leaf)
	}
	// The '?' belongs to the final word, so the NEXT form lives under the
	// plain ERRor branch, not under the ERRor? leaf token.
	if leaf := resolveTokens(tree, "SYST", "ERR", "NEXT?"); leaf == nil || leaf.Name != "errq" {
		t.Fatalf("SYST:ERR:NEXT? resolved to %+v", leaf)
	}
	if resolveTokens(tree, "SYST", "ERR?", "NEXT?") != nil {
		t.Fatal("ERR? leaf token must not carry the NEXT branch")
	}
	if leaf := resolveTokens(tree, "SYSTEM", "VERSION?"); leaf == nil || leaf.Name != "versq" {
		t.Fatalf("SYSTEM:VERSION? resolved to %+v", leaf)
	}
}

func TestBuildCommonCommand(t *testing.T) {
	set := NewSet()
	set.Declare(Spec{Template: "*IDN?", Handler: nopHandler})

	tree, err := set.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	leaf := resolveTokens(tree, "*IDN?")
	if leaf == nil {
		t.Fatal("*IDN? not registered")
	}
	if leaf.Name != "*IDN?" {
		t.Errorf("default name = %q, want *IDN?", leaf.Name)
	}
}

func TestBuildCollision(t *testing.T) {
	set := NewSet()
	set.Declare(Spec{Template: "OUTPut", Handler: nopHandler, Converters: []param.Converter{param.String()}})
	set.Declare(Spec{Template: "OUTPut[:LEVel]", Handler: nopHandler})

	if _, err := set.Build(); err == nil {
		t.Fatal("expected arity collision error")
	}
}

func TestBuildAmbiguousShortForm(t *testing.T) {
	set := NewSet()
	set.Declare(Spec{Template: "FREQuency", Handler: nopHandler})
	set.Declare(Spec{Template: "FREQuencies", Handler: nopHandler})

	if _, err := set.Build(); err == nil {
		t.Fatal("expected ambiguous short form error")
	}
}

func TestSetExtend(t *testing.T) {
	base := NewSet()
	base.Declare(Spec{Template: "SYSTem:VERSion?", Handler: nopHandler, Name: "base-vers"})
	base.Declare(Spec{Template: "*RST", Handler: nopHandler, Name: "base-rst"})

	derived := base.Extend()
	derived.Declare(Spec{Template: "*RST", Handler: nopHandler, Name: "derived-rst"})
	derived.Declare(Spec{Template: "OUTPut?", Handler: nopHandler, Name: "outq"})

	tree, err := derived.Build()
	if err != nil {
		t.Fatalf("Build derived: %v", err)
	}
	if leaf := resolveTokens(tree, "*RST"); leaf == nil || leaf.Name != "derived-rst" {
		t.Fatalf("*RST = %+v, want derived override", leaf)
	}
	if leaf := resolveTokens(tree, "SYST", "VERS?"); leaf == nil || leaf.Name != "base-vers" {
		t.Fatalf("inherited SYST:VERS? = %+v", leaf)
	}

	// The base set on its own must stay untouched by the overlay.
	baseTree, err := base.Build()
	if err != nil {
		t.Fatalf("Build base: %v", err)
	}
	if leaf := resolveTokens(baseTree, "*RST"); leaf == nil || leaf.Name != "base-rst" {
		t.Fatalf("base *RST = %+v, want base-rst", leaf)
	}
	if resolveTokens(baseTree, "OUTP?") != nil {
		t.Fatal("derived command leaked into base tree")
	}
}

func TestInvocationAccessors(t *testing.T) {
	var got []string
	inv := NewInvocation([]interface{}{3.5, int64(7), true, "hello"}, func(s string) {
		got = append(got, s)
	})

	if inv.Float(0) != 3.5 {
		t.Errorf("Float(0) = %v", inv.Float(0))
	}
	if inv.Int(1) != 7 {
		t.Errorf("Int(1) = %v", inv.Int(1))
	}
	if !inv.Bool(2) {
		t.Error("Bool(2) = false")
	}
	if inv.String(3) != "hello" {
		t.Errorf("String(3) = %q", inv.String(3))
	}

	inv.Reply("a")
	inv.Replyf("b=%d", 2)
	if len(got) != 2 || got[0] != "a" || got[1] != "b=2" {
		t.Errorf("replies = %v", got)
	}
}
