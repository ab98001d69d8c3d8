// Package literal implements the "k=v,k=v,..." grammar spec.md §6 uses for
// both the results-store record format and the configuration string
// surface: commas inside balanced brackets/parens/braces do not split
// key/value pairs, and nested config literals use `c(k=v,...)`. Grounded
// directly on original_source/all.py's config_lib.py (`_next_comma`,
// `_comma_iterator`, `Config.parse`, `Config.pretty_str`).
package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one parsed literal: a bool, int64, float64, string, []Value, or
// a nested map[string]Value produced by a `c(...)` term.
type Value struct {
	Bool        *bool
	Int         *int64
	Float       *float64
	Str         *string
	List        []Value
	Nested      map[string]Value
	NestedOrder []string
}

// Pairs is an ordered key/value list, preserving insertion order the way
// Python's dict iteration (and Config.pretty_str) does.
type Pairs struct {
	keys   []string
	values map[string]Value
}

// NewPairs returns an empty, order-tracking Pairs.
func NewPairs() *Pairs {
	return &Pairs{values: make(map[string]Value)}
}

// Set appends key=v, or overwrites v in place if key was already set.
func (p *Pairs) Set(key string, v Value) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Get returns the value for key and whether it was present.
func (p *Pairs) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (p *Pairs) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Bool, Int, Float, String are convenience constructors.
func Bool(b bool) Value       { return Value{Bool: &b} }
func Int(i int64) Value       { return Value{Int: &i} }
func Float(f float64) Value   { return Value{Float: &f} }
func String(s string) Value   { return Value{Str: &s} }

// Encode renders p as "k=v,k=v,..." in insertion order, quoting strings and
// rendering nested Pairs as c(...), matching Config.pretty_str's single-line
// form.
func Encode(p *Pairs) string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encodeValue(p.values[k]))
	}
	return b.String()
}

// EncodeValue renders a single Value the same way Encode renders each
// right-hand side of a "k=v" pair.
func EncodeValue(v Value) string {
	return encodeValue(v)
}

func encodeValue(v Value) string {
	switch {
	case v.Bool != nil:
		if *v.Bool {
			return "True"
		}
		return "False"
	case v.Int != nil:
		return strconv.FormatInt(*v.Int, 10)
	case v.Float != nil:
		return strconv.FormatFloat(*v.Float, 'g', -1, 64)
	case v.Str != nil:
		return strconv.Quote(*v.Str)
	case v.List != nil:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = encodeValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case v.Nested != nil:
		nested := NewPairs()
		order := v.NestedOrder
		if order == nil {
			for k := range v.Nested {
				order = append(order, k)
			}
		}
		for _, k := range order {
			nested.Set(k, v.Nested[k])
		}
		return "c(" + Encode(nested) + ")"
	default:
		return "None"
	}
}

// NestedValue wraps a *Pairs as a nested c(...) Value, preserving order.
func NestedValue(p *Pairs) Value {
	nested := make(map[string]Value, len(p.keys))
	for _, k := range p.keys {
		nested[k] = p.values[k]
	}
	return Value{Nested: nested, NestedOrder: p.Keys()}
}

// ParseError reports a literal-grammar syntax error at a specific byte
// offset into the original input string, so callers (and the CLI) can point
// at the exact character that failed to parse instead of just a message.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("literal: %s (at byte %d)", e.Msg, e.Offset)
}

func newParseError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// Parse parses a "k=v,k=v,..." string into Pairs. Empty/blank input yields
// an empty Pairs, matching Config.parse's behavior for an empty string. On
// failure it returns a *ParseError naming the byte offset of the bad token.
func Parse(s string) (*Pairs, error) {
	return parseAt(s, 0)
}

type offsetChunk struct {
	text   string
	offset int
}

// commaSplitOffsets splits on top-level commas only, mirroring
// _next_comma/_comma_iterator (parens, brackets, and braces nest and
// suppress splitting), and records each chunk's byte offset into s so parse
// errors can be reported with a precise location.
func commaSplitOffsets(s string) []offsetChunk {
	var parts []offsetChunk
	depth := 0
	start := 0
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, offsetChunk{text: s[start:i], offset: start})
			start = i + 1
		}
	}
	parts = append(parts, offsetChunk{text: s[start:], offset: start})
	return parts
}

func parseValue(s string, offset int) (Value, error) {
	switch {
	case s == "True":
		return Bool(true), nil
	case s == "False":
		return Bool(false), nil
	case strings.HasPrefix(s, "c(") && strings.HasSuffix(s, ")"):
		inner, err := parseAt(s[2:len(s)-1], offset+2)
		if err != nil {
			return Value{}, err
		}
		return NestedValue(inner), nil
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		inner := s[1 : len(s)-1]
		trimmed := strings.TrimSpace(inner)
		if trimmed == "" {
			return Value{List: []Value{}}, nil
		}
		innerOffset := offset + 1 + (len(inner) - len(strings.TrimLeft(inner, " \t")))
		items := commaSplitOffsets(trimmed)
		list := make([]Value, len(items))
		for i, item := range items {
			itemTrimmed := strings.TrimSpace(item.text)
			itemOffset := innerOffset + item.offset + (len(item.text) - len(strings.TrimLeft(item.text, " \t")))
			v, err := parseValue(itemTrimmed, itemOffset)
			if err != nil {
				return Value{}, err
			}
			list[i] = v
		}
		return Value{List: list}, nil
	case len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]:
		unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(s[1:len(s)-1], `"`, `\"`) + `"`)
		if err != nil {
			return Value{}, newParseError(offset, "invalid quoted string %q: %v", s, err)
		}
		return String(unquoted), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f), nil
	}
	return Value{}, newParseError(offset, "cannot parse value %q", s)
}

// parseAt is Parse with a caller-supplied base offset, used when recursing
// into a nested c(...) term so error offsets stay relative to the top-level
// input rather than restarting at 0.
func parseAt(s string, baseOffset int) (*Pairs, error) {
	pairs := NewPairs()
	if strings.TrimSpace(s) == "" {
		return pairs, nil
	}
	for _, chunk := range commaSplitOffsets(s) {
		eq := strings.IndexByte(chunk.text, '=')
		if eq < 0 {
			return nil, newParseError(baseOffset+chunk.offset, "no '=' in pair %q", chunk.text)
		}
		key := strings.TrimSpace(chunk.text[:eq])
		valStr := strings.TrimSpace(chunk.text[eq+1:])
		valOffset := baseOffset + chunk.offset + eq + 1 + (len(chunk.text[eq+1:]) - len(strings.TrimLeft(chunk.text[eq+1:], " \t")))
		v, err := parseValue(valStr, valOffset)
		if err != nil {
			return nil, err
		}
		pairs.Set(key, v)
	}
	return pairs, nil
}
