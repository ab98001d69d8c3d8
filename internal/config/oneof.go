package config

import (
	"fmt"

	"github.com/evosynth/evosynth/internal/literal"
)

// OneOf branches config on one named key, per spec.md §6: "A OneOf node
// branches on one named key. Updating it selects a branch whose matching
// key equals the supplied value and then updates that branch." Grounded
// directly on original_source/all.py's OneOf class.
type OneOf struct {
	key          string
	defaultValue literal.Value
	byValue      map[string]*Config
}

// NewOneOf builds a OneOf over choices, each of which must already have key
// set to a distinct scalar value; defaultValue selects which choice
// Default() returns.
func NewOneOf(key string, defaultValue literal.Value, choices ...*Config) (*OneOf, error) {
	byValue := make(map[string]*Config, len(choices))
	for _, choice := range choices {
		raw, ok := choice.Get(key)
		if !ok {
			return nil, fmt.Errorf("config: OneOf choice missing branching key %q", key)
		}
		v, ok := raw.(literal.Value)
		if !ok {
			return nil, fmt.Errorf("config: OneOf branching key %q must be a scalar, got %T", key, raw)
		}
		k := encodeScalar(v)
		if _, dup := byValue[k]; dup {
			return nil, fmt.Errorf("config: multiple choices given for %s=%s", key, k)
		}
		byValue[k] = choice
	}
	if _, ok := byValue[encodeScalar(defaultValue)]; !ok {
		return nil, fmt.Errorf("config: default value %s is not among the OneOf choices for key %q", encodeScalar(defaultValue), key)
	}
	return &OneOf{key: key, defaultValue: defaultValue, byValue: byValue}, nil
}

// Default returns the Config selected by the default branching value.
func (o *OneOf) Default() *Config {
	return o.byValue[encodeScalar(o.defaultValue)]
}

// UpdateWith chooses a branch from other's value at o.key and updates it,
// per OneOf.update. If other does not carry a recognized branching value,
// other is treated as opaque and stored as-is (mirroring the Python
// behavior of returning `other` unchanged).
func (o *OneOf) UpdateWith(other *Config) any {
	raw, ok := other.Get(o.key)
	if !ok {
		return other
	}
	v, ok := raw.(literal.Value)
	if !ok {
		return other
	}
	target, ok := o.byValue[encodeScalar(v)]
	if !ok {
		return other
	}
	target.Update(other)
	return target
}

// StrictUpdateWith chooses a branch from other's value at o.key and
// strict-updates it, per OneOf.strict_update. Unlike UpdateWith, an
// unrecognized or missing branching key is an error.
func (o *OneOf) StrictUpdateWith(other *Config) (*Config, error) {
	raw, ok := other.Get(o.key)
	if !ok {
		return nil, fmt.Errorf("config: branching key %q required but not found", o.key)
	}
	v, ok := raw.(literal.Value)
	if !ok {
		return nil, fmt.Errorf("config: branching key %q must be a scalar", o.key)
	}
	target, ok := o.byValue[encodeScalar(v)]
	if !ok {
		return nil, fmt.Errorf("config: value %s for key %q is not a possible choice", encodeScalar(v), o.key)
	}
	if err := target.StrictUpdate(other); err != nil {
		return nil, err
	}
	return target, nil
}

func encodeScalar(v literal.Value) string {
	return literal.EncodeValue(v)
}
