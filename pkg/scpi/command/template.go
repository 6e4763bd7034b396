// File: template.go
// Title: Command Template Expansion
// Description: Parses declarative command templates into token sequences.
//              Bracketed optional segments are expanded recursively into
//              every legal inclusion/exclusion permutation, so a template
//              such as SYSTem:ERRor[:NEXT]? compiles to both SYST:ERR? and
//              SYST:ERR:NEXT? with their long-form spellings.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial template expansion

package command

import (
	"fmt"
	"strings"

	"github.com/stonerlab/goscpi/pkg/scpi/token"
)

// Word is one path element of an expanded template, carrying both spellings
type Word struct {
	Long  string
	Short string
}

// expandOptional returns every inclusion/exclusion permutation of the
// bracketed segments in a template. Sibling and nested segments expand as a
// full cross product. Unbalanced brackets are a configuration error.
func expandOptional(template string) ([]string, error) {
	if strings.Count(template, "[") != strings.Count(template, "]") {
		return nil, fmt.Errorf("unbalanced brackets in template %q", template)
	}

	variants := []string{template}
	for ix := 0; ix < len(variants); {
		variant := variants[ix]
		start, end, err := innermostGroup(variant)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", template, err)
		}
		if start < 0 {
			ix++
			continue
		}
		// Replace the current variant with the segment excluded and queue
		// a new variant with the segment included (brackets stripped).
		variants[ix] = variant[:start] + variant[end+1:]
		variants = append(variants, variant[:start]+variant[start+1:end]+variant[end+1:])
	}
	return variants, nil
}

// innermostGroup locates the first bracket group containing no nested
// brackets. Returns start = -1 when the string has no brackets left.
func innermostGroup(s string) (start, end int, err error) {
	open := -1
	for ix, r := range s {
		switch r {
		case '[':
			open = ix
		case ']':
			if open < 0 {
				return 0, 0, fmt.Errorf("unexpected ']' at position %d", ix)
			}
			return open, ix, nil
		}
	}
	if open >= 0 {
		return 0, 0, fmt.Errorf("unclosed '[' at position %d", open)
	}
	return -1, 0, nil
}

// splitWords turns one expanded template variant into its path words.
// Empty segments left behind by an excluded leading segment are dropped.
func splitWords(variant string) ([]Word, error) {
	var words []Word
	for _, part := range strings.Split(variant, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words = append(words, Word{
			Long:  token.LongForm(part),
			Short: token.ShortForm(part),
		})
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("template variant %q has no words", variant)
	}
	return words, nil
}

// canonicalName derives a default leaf name from a template: the long form
// with all optional segments included
func canonicalName(template string) string {
	cleaned := strings.NewReplacer("[", "", "]", "").Replace(template)
	return token.LongForm(strings.TrimSpace(cleaned))
}
