// Package theme exposes loosely typed theme options with typed accessors.
package theme

import (
	"maps"
	"strings"

	"github.com/spf13/cast"
)

// Well-known option keys understood by mvdocs itself.
const (
	OptBranchSubstringRemoved = "branch_substring_removed"
	OptHideVersionDropdown    = "hide_version_dropdown"
	OptVersionsUnstable       = "versions_unstable"
	OptVersionsDeprecated     = "versions_deprecated"
)

// Options is an immutable view over theme options.
type Options struct {
	values map[string]any
}

// NewOptions copies values into a new Options.
func NewOptions(values map[string]any) Options {
	return Options{values: maps.Clone(values)}
}

// String returns the option coerced to a string, or "".
func (o Options) String(key string) string {
	return cast.ToString(o.values[key])
}

// Bool coerces "true"/"false" strings and real booleans alike.
func (o Options) Bool(key string) bool {
	return cast.ToBool(o.values[key])
}

// StringSlice returns list options; a single string yields a one-element slice.
func (o Options) StringSlice(key string) []string {
	v, ok := o.values[key]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return cast.ToStringSlice(v)
}

// Label turns a ref name into the label shown in the version dropdown.
func (o Options) Label(name string) string {
	if sub := o.String(OptBranchSubstringRemoved); sub != "" {
		return strings.ReplaceAll(name, sub, "")
	}
	return name
}

// With returns a copy with key set to value.
func (o Options) With(key string, value any) Options {
	values := maps.Clone(o.values)
	if values == nil {
		values = make(map[string]any, 1)
	}
	values[key] = value
	return Options{values: values}
}

// Map returns a copy of the raw option values.
func (o Options) Map() map[string]any {
	return maps.Clone(o.values)
}
