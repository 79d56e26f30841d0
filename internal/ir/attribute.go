package ir

import (
	"fmt"
	"strings"
	"text/scanner"
)

// Attribute is a single declaration attribute such as repr(u8) or
// derive(NumberEnum).
type Attribute struct {
	Name string `json:"name"`

	// List is true when the attribute carries a bracketed argument list.
	List bool `json:"list"`

	// Tokens are the top-level tokens inside the brackets, separators
	// included: repr(C, u8) yields ["C", ",", "u8"]. A nested group counts
	// as a single token.
	Tokens []string `json:"tokens,omitempty"`
}

// String renders the attribute back to its source form.
func (a Attribute) String() string {
	if !a.List {
		return a.Name
	}
	return a.Name + "(" + strings.Join(a.Tokens, " ") + ")"
}

// ParseAttribute tokenizes the source form of an attribute.
//
// Accepted forms:
//
//	name
//	name(tok tok ...)    also name[...] and name{...}
//	name = value         (not a list; value is discarded)
func ParseAttribute(src string) (Attribute, error) {
	var attr Attribute

	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings | scanner.ScanChars
	var scanErr error
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("attribute %q: %s", src, msg)
		}
	}

	if s.Scan() != scanner.Ident {
		return attr, fmt.Errorf("attribute %q: expected a name", src)
	}
	attr.Name = s.TokenText()

	switch tok := s.Scan(); tok {
	case scanner.EOF:
	case '=':
		for s.Scan() != scanner.EOF {
		}
	case '(', '[', '{':
		attr.List = true
		tokens, err := scanGroup(&s, closing(tok))
		if err != nil {
			return attr, fmt.Errorf("attribute %q: %w", src, err)
		}
		attr.Tokens = tokens
		if s.Scan() != scanner.EOF {
			return attr, fmt.Errorf("attribute %q: unexpected %q after argument list", src, s.TokenText())
		}
	default:
		return attr, fmt.Errorf("attribute %q: unexpected %q after name", src, s.TokenText())
	}

	return attr, scanErr
}

// MustParseAttribute is like ParseAttribute but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseAttribute(src string) Attribute {
	attr, err := ParseAttribute(src)
	if err != nil {
		panic(err)
	}
	return attr
}

func scanGroup(s *scanner.Scanner, end rune) ([]string, error) {
	tokens := []string{}
	for {
		tok := s.Scan()
		switch tok {
		case scanner.EOF:
			return nil, fmt.Errorf("unterminated argument list")
		case end:
			return tokens, nil
		case '(', '[', '{':
			inner, err := scanGroup(s, closing(tok))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, string(tok)+strings.Join(inner, " ")+string(closing(tok)))
		case ')', ']', '}':
			return nil, fmt.Errorf("unbalanced %q", tok)
		default:
			tokens = append(tokens, s.TokenText())
		}
	}
}

func closing(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}
