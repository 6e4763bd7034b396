// File: token.go
// Title: SCPI Lexical Helpers
// Description: Implements the lexical layer of the interpreter: splitting an
//              input line into semicolon-separated commands, separating a
//              command path from its parameter portion, quote-aware parameter
//              splitting, and the long/short form derivation used for both
//              command words and enum labels.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial tokenizer

package token

import "strings"

// ShortForm derives the SCPI abbreviation of a mixed-case word: the
// capitalized prefix forms the short form, so SYSTem yields SYST. Digits
// and punctuation ('*', '?', ':') pass through unchanged.
func ShortForm(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LongForm returns the full spelling of a word, folded to upper case
func LongForm(word string) string {
	return strings.ToUpper(word)
}

// SplitCommands splits an input line on semicolons that sit outside double
// quotes. Surrounding whitespace is trimmed and empty commands dropped, so
// a trailing semicolon is harmless.
func SplitCommands(line string) []string {
	var commands []string
	var b strings.Builder
	inQuote := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ';' && !inQuote:
			if cmd := strings.TrimSpace(b.String()); cmd != "" {
				commands = append(commands, cmd)
			}
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if cmd := strings.TrimSpace(b.String()); cmd != "" {
		commands = append(commands, cmd)
	}
	return commands
}

// SplitPath separates the command path from its parameter portion at the
// first whitespace. The path is folded to upper case; the parameter portion
// is returned verbatim (leading/trailing space trimmed) for SplitParams.
func SplitPath(command string) (path, params string) {
	command = strings.TrimSpace(command)
	if ix := strings.IndexAny(command, " \t"); ix >= 0 {
		return strings.ToUpper(command[:ix]), strings.TrimSpace(command[ix+1:])
	}
	return strings.ToUpper(command), ""
}

// SplitParams splits a parameter portion on commas outside double quotes.
// The outer quote pair is stripped and quoted content passes through
// verbatim, so `"a,b"` yields the single parameter `a,b` and `" a "` keeps
// its inner spaces. Unquoted parameters are whitespace-trimmed. An empty
// portion yields nil.
func SplitParams(portion string) []string {
	portion = strings.TrimSpace(portion)
	if portion == "" {
		return nil
	}

	var params []string
	var b strings.Builder
	inQuote := false

	flush := func() {
		tok := strings.TrimSpace(b.String())
		if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
			tok = tok[1 : len(tok)-1]
		}
		params = append(params, tok)
		b.Reset()
	}

	for _, r := range portion {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ',' && !inQuote:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return params
}
