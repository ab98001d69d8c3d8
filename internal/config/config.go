// Package config implements the tagged configuration tree spec.md §6
// describes: an ordered set of named key/value pairs with a strict-update
// mode that forbids new keys and type changes, plus a OneOf node that
// branches on one named key. Grounded directly on
// original_source/all.py's config_lib.py (Config.update, Config.strict_update,
// Config.make_default, OneOf.update, OneOf.strict_update) — the Python
// dict-subclass is replaced with an explicit Go struct over
// internal/literal.Value so type identity is checked at the value level
// instead of relying on Python's isinstance.
package config

import (
	"fmt"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/literal"
)

// Config is an ordered tree of named values. A value is either a scalar
// literal.Value, a nested *Config, or a *OneOf branch awaiting selection.
type Config struct {
	keys   []string
	values map[string]any // literal.Value, *Config, or *OneOf
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: make(map[string]any)}
}

// Set assigns key=value, appending key to the iteration order on first use.
// value must be a literal.Value, *Config, or *OneOf.
func (c *Config) Set(key string, value any) {
	switch value.(type) {
	case literal.Value, *Config, *OneOf:
	default:
		panic(fmt.Sprintf("config: Set(%q, %T): value must be literal.Value, *Config, or *OneOf", key, value))
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the raw stored value for key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (c *Config) Keys() []string {
	return append([]string(nil), c.keys...)
}

// MakeDefault replaces every OneOf value reachable from c (recursively,
// through nested Configs) with that OneOf's default Config, matching
// Config.make_default's traversal.
func (c *Config) MakeDefault() {
	for _, k := range c.keys {
		switch v := c.values[k].(type) {
		case *OneOf:
			c.values[k] = v.Default()
			if nested, ok := c.values[k].(*Config); ok {
				nested.MakeDefault()
			}
		case *Config:
			v.MakeDefault()
		}
	}
}

// Update applies other's entries onto c, following Config.update: nested
// Configs merge recursively, OneOf values select and update a branch, and
// any key not touched by this update is passed through MakeDefault.
func (c *Config) Update(other *Config) {
	touched := make(map[string]bool, len(other.keys))
	for _, k := range other.keys {
		touched[k] = true
		newVal := other.values[k]
		existing, exists := c.values[k]
		if exists {
			if existingCfg, ok := existing.(*Config); ok {
				if newCfg, ok := newVal.(*Config); ok {
					existingCfg.Update(newCfg)
					continue
				}
			}
			if existingOneOf, ok := existing.(*OneOf); ok {
				if newCfg, ok := newVal.(*Config); ok {
					c.values[k] = existingOneOf.UpdateWith(newCfg)
					if !contains(c.keys, k) {
						c.keys = append(c.keys, k)
					}
					continue
				}
			}
		}
		if !exists {
			c.keys = append(c.keys, k)
		}
		c.values[k] = newVal
	}

	untouched := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		if !touched[k] {
			untouched = append(untouched, k)
		}
	}
	c.makeDefaultFor(untouched)
}

// StrictUpdate applies other's entries onto c, forbidding new keys and
// value-kind changes, per Config.strict_update. Returns an error instead of
// raising, matching spec.md §7's "configuration error aborts the run"
// policy.
func (c *Config) StrictUpdate(other *Config) error {
	touched := make(map[string]bool, len(other.keys))
	for _, k := range other.keys {
		existing, exists := c.values[k]
		if !exists {
			return fmt.Errorf("config: key %q: %w", k, domain.ErrConfigKeyUnknown)
		}
		touched[k] = true
		newVal := other.values[k]

		switch ev := existing.(type) {
		case *Config:
			nv, ok := newVal.(*Config)
			if !ok {
				return fmt.Errorf("config: key %q expects a nested config, got %T", k, newVal)
			}
			if err := ev.StrictUpdate(nv); err != nil {
				return err
			}
		case *OneOf:
			nv, ok := newVal.(*Config)
			if !ok {
				return fmt.Errorf("config: key %q expects a config to select a OneOf branch, got %T", k, newVal)
			}
			chosen, err := ev.StrictUpdateWith(nv)
			if err != nil {
				return err
			}
			c.values[k] = chosen
		case literal.Value:
			nv, ok := newVal.(literal.Value)
			if !ok {
				return fmt.Errorf("config: key %q expects a scalar value, got %T", k, newVal)
			}
			if kindOf(ev) != kindOf(nv) {
				return fmt.Errorf("config: key %q: expected type %s, got %s: %w", k, kindOf(ev), kindOf(nv), domain.ErrConfigTypeMismatch)
			}
			c.values[k] = nv
		}
	}

	untouched := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		if !touched[k] {
			untouched = append(untouched, k)
		}
	}
	c.makeDefaultFor(untouched)
	return nil
}

func (c *Config) makeDefaultFor(keys []string) {
	for _, k := range keys {
		switch v := c.values[k].(type) {
		case *OneOf:
			c.values[k] = v.Default()
			if nested, ok := c.values[k].(*Config); ok {
				nested.MakeDefault()
			}
		case *Config:
			v.MakeDefault()
		}
	}
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func kindOf(v literal.Value) string {
	switch {
	case v.Bool != nil:
		return "bool"
	case v.Int != nil:
		return "int"
	case v.Float != nil:
		return "float"
	case v.Str != nil:
		return "string"
	case v.List != nil:
		return "list"
	case v.Nested != nil:
		return "nested"
	default:
		return "none"
	}
}
