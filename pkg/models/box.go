package models

import (
	"fmt"
	"strings"
)

// ScriptType tells the client how to load a plugin script
type ScriptType string

const (
	// ScriptInline scripts carry their JavaScript source directly
	ScriptInline ScriptType = "inline"
	// ScriptExternal scripts carry a URL the client loads
	ScriptExternal ScriptType = "external"
)

// Valid reports whether t is a known script type
func (t ScriptType) Valid() bool {
	return t == ScriptInline || t == ScriptExternal
}

// Script is a single client-side resource bundled with a plugin
type Script struct {
	Source     string     `yaml:"source,omitempty" json:"source"`
	Type       ScriptType `yaml:"type" json:"type"`
	SourceFile string     `yaml:"sourceFile,omitempty" json:"-"`
}

// Plugin is a named bundle of scripts registered with the UI framework. The
// name is the namespace used in box mode tags.
type Plugin struct {
	Name    string   `yaml:"name" json:"name"`
	Scripts []Script `yaml:"scripts" json:"scripts"`
}

// Box is a unit of display interpreted client-side by its mode tag
type Box struct {
	Mode   string            `yaml:"mode" json:"mode"`
	Data   map[string]string `yaml:"data,omitempty" json:"data,omitempty"`
	Ignore bool              `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

const modePrefix = "plugin:"

// FormatMode builds a mode tag of the form plugin:<name>.<function>
func FormatMode(plugin, function string) string {
	return modePrefix + plugin + "." + function
}

// ParseMode splits a plugin mode tag into its namespace and function name
func ParseMode(mode string) (plugin, function string, err error) {
	if !strings.HasPrefix(mode, modePrefix) {
		return "", "", fmt.Errorf("mode %q is not a plugin mode", mode)
	}

	rest := strings.TrimPrefix(mode, modePrefix)
	idx := strings.LastIndex(rest, ".")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("mode %q must have the form plugin:<name>.<function>", mode)
	}

	return rest[:idx], rest[idx+1:], nil
}

// ResolvesTo reports whether the box's mode namespace matches the plugin name
func (b *Box) ResolvesTo(p *Plugin) bool {
	if b == nil || p == nil {
		return false
	}
	name, _, err := ParseMode(b.Mode)
	if err != nil {
		return false
	}
	return name == p.Name
}

// Clone returns a copy of the plugin that shares no slices with the original
func (p *Plugin) Clone() *Plugin {
	scripts := make([]Script, len(p.Scripts))
	copy(scripts, p.Scripts)
	return &Plugin{Name: p.Name, Scripts: scripts}
}
