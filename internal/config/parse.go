package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/evosynth/evosynth/internal/literal"
)

// ParseError reports a configuration-string syntax error at a specific byte
// offset into the original --config value, matching the "Configuration
// error" taxonomy entry: CLI commands surface Offset alongside Msg so the
// operator can see exactly which character was rejected.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: %s (at byte %d)", e.Msg, e.Offset)
}

// ParseString parses the "k=v,k=v,..." grammar (spec.md §6) into a Config
// tree. Nested `c(...)` literals become nested *Config values; OneOf
// branching is a program-level construct and never appears in parsed text,
// matching Config.parse's behavior in original_source/all.py. Syntax errors
// are returned as *ParseError.
func ParseString(s string) (*Config, error) {
	pairs, err := literal.Parse(s)
	if err != nil {
		if lerr, ok := err.(*literal.ParseError); ok {
			return nil, &ParseError{Msg: lerr.Msg, Offset: lerr.Offset}
		}
		return nil, err
	}
	return fromPairs(pairs), nil
}

func fromPairs(pairs *literal.Pairs) *Config {
	c := New()
	for _, k := range pairs.Keys() {
		v, _ := pairs.Get(k)
		c.Set(k, fromValue(v))
	}
	return c
}

func fromValue(v literal.Value) any {
	if v.Nested != nil {
		nestedPairs := literal.NewPairs()
		order := v.NestedOrder
		if order == nil {
			for k := range v.Nested {
				order = append(order, k)
			}
		}
		for _, k := range order {
			nestedPairs.Set(k, v.Nested[k])
		}
		return fromPairs(nestedPairs)
	}
	return v
}

// tomlDoc is the flat TOML representation used by SaveTOML/LoadTOML: every
// leaf scalar is stringified through internal/literal's grammar so a round
// trip through TOML never needs to resolve OneOf branches again.
type tomlDoc struct {
	Literal string `toml:"literal"`
}

// SaveTOML persists c as a single literal-grammar string inside a TOML
// file, matching the teacher's internal/daemon config.toml convention for
// where persisted configuration lives on disk.
func SaveTOML(path string, c *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(tomlDoc{Literal: ToLiteralString(c)})
}

// LoadTOML reads a config written by SaveTOML.
func LoadTOML(path string) (*Config, error) {
	var doc tomlDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	return ParseString(doc.Literal)
}

// ToLiteralString renders c back into the "k=v,..." grammar, recursively
// rendering nested Configs as c(...) and OneOf values as their current
// selection (or default config, if never updated).
func ToLiteralString(c *Config) string {
	p := literal.NewPairs()
	for _, k := range c.keys {
		p.Set(k, toValue(c.values[k]))
	}
	return literal.Encode(p)
}

func toValue(v any) literal.Value {
	switch t := v.(type) {
	case literal.Value:
		return t
	case *Config:
		nested := literal.NewPairs()
		for _, k := range t.keys {
			nested.Set(k, toValue(t.values[k]))
		}
		return literal.NestedValue(nested)
	case *OneOf:
		return toValue(t.Default())
	default:
		return literal.Value{}
	}
}
