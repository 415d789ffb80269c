package geometry

import (
	"strconv"
)

// SelectorKind identifies which pages an ignore rectangle applies to.
type SelectorKind int

const (
	SelectAll SelectorKind = iota
	SelectEven
	SelectOdd
	SelectExact
	// SelectNever is used for selectors that can never equal a page
	// number, e.g. "first" or "03".
	SelectNever
)

// Selector is a parsed page selector.
type Selector struct {
	Kind SelectorKind
	Page int    // only meaningful for SelectExact
	Raw  string // value as written in the configuration
}

// ParseSelector converts a configuration page value into a Selector.
//
// "all", "even" and "odd" are keywords. Any other value is compared as a
// literal against the decimal form of the page number, so only canonical
// positive integers ("7", not "07" or "+7") can ever match.
func ParseSelector(raw string) Selector {
	switch raw {
	case "all":
		return Selector{Kind: SelectAll, Raw: raw}
	case "even":
		return Selector{Kind: SelectEven, Raw: raw}
	case "odd":
		return Selector{Kind: SelectOdd, Raw: raw}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || strconv.Itoa(n) != raw {
		return Selector{Kind: SelectNever, Raw: raw}
	}
	return Selector{Kind: SelectExact, Page: n, Raw: raw}
}

// Matches reports whether the selector applies to the 1-based page number.
func (s Selector) Matches(page int) bool {
	switch s.Kind {
	case SelectAll:
		return true
	case SelectEven:
		return page%2 == 0
	case SelectOdd:
		return page%2 == 1
	case SelectExact:
		return page == s.Page
	}
	return false
}

func (s Selector) String() string {
	if s.Raw != "" {
		return s.Raw
	}
	switch s.Kind {
	case SelectAll:
		return "all"
	case SelectEven:
		return "even"
	case SelectOdd:
		return "odd"
	case SelectExact:
		return strconv.Itoa(s.Page)
	}
	return "never"
}
