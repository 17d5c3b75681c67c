package models

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name looked up inside each plugin directory
const ManifestFile = "manifest.yaml"

// ErrBuiltinPlugin is recorded for manifests that reuse a built-in plugin name
var ErrBuiltinPlugin = errors.New("plugin name is reserved by a built-in plugin")

// LoadManifest loads a plugin manifest.yaml from the given directory. Scripts
// that name a sourceFile get their source read from that file, relative to
// the directory.
func LoadManifest(pluginDir string) (*Plugin, error) {
	manifestPath := filepath.Join(pluginDir, ManifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var plugin Plugin
	if err := yaml.Unmarshal(data, &plugin); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}

	for i := range plugin.Scripts {
		s := &plugin.Scripts[i]
		if s.SourceFile == "" {
			continue
		}
		src, err := os.ReadFile(filepath.Join(pluginDir, s.SourceFile))
		if err != nil {
			return nil, fmt.Errorf("script source not found: %w", err)
		}
		s.Source = string(src)
	}

	if err := plugin.Validate(); err != nil {
		return nil, err
	}

	return &plugin, nil
}

// WriteManifest writes the plugin as manifest YAML
func WriteManifest(w io.Writer, plugin *Plugin) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plugin); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// MarshalYAML writes the script as a mapping whose source keeps its exact
// text. Multi-line sources use a literal block only when yaml reads the block
// back unchanged; anything else is double-quoted.
func (s Script) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if s.Source != "" {
		node.Content = append(node.Content, strNode("source", 0), strNode(s.Source, sourceStyle(s.Source)))
	}
	node.Content = append(node.Content, strNode("type", 0), strNode(string(s.Type), 0))
	if s.SourceFile != "" {
		node.Content = append(node.Content, strNode("sourceFile", 0), strNode(s.SourceFile, 0))
	}
	return node, nil
}

func strNode(value string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: style}
}

func sourceStyle(src string) yaml.Style {
	if !strings.Contains(src, "\n") {
		return 0
	}
	if literalSafe(src) {
		return yaml.LiteralStyle
	}
	return yaml.DoubleQuotedStyle
}

// literalSafe reports whether src survives a literal block scalar: no leading
// whitespace or line break, no trailing spaces on a line and at most one
// trailing newline.
func literalSafe(src string) bool {
	switch src[0] {
	case ' ', '\t', '\n':
		return false
	}
	if strings.HasSuffix(src, "\n\n") || strings.Contains(src, " \n") || strings.HasSuffix(src, " ") {
		return false
	}
	for _, r := range src {
		if r != '\n' && !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// PluginRegistry manages the collection of plugins offered to clients
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
	builtin map[string]bool
	skipped map[string]error
}

// NewPluginRegistry creates a registry seeded with the given plugins. Seeded
// plugins cannot be replaced by loaded manifests.
func NewPluginRegistry(builtin ...*Plugin) *PluginRegistry {
	r := &PluginRegistry{
		plugins: make(map[string]*Plugin),
		builtin: make(map[string]bool),
		skipped: make(map[string]error),
	}
	for _, p := range builtin {
		r.plugins[p.Name] = p.Clone()
		r.builtin[p.Name] = true
	}
	return r
}

// LoadPlugins scans dir for <plugin>/manifest.yaml entries and adds them.
// Directories with a broken manifest, or one naming a built-in plugin, are
// skipped and reported by Skipped.
func (r *PluginRegistry) LoadPlugins(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read plugins directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		plugin, err := LoadManifest(filepath.Join(dir, entry.Name()))
		if err != nil {
			r.skipped[entry.Name()] = err
			continue
		}
		if r.builtin[plugin.Name] {
			r.skipped[entry.Name()] = fmt.Errorf("%w: %s", ErrBuiltinPlugin, plugin.Name)
			continue
		}
		r.plugins[plugin.Name] = plugin
	}

	return nil
}

// Get returns a copy of the plugin registered under name
func (r *PluginRegistry) Get(name string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// List returns copies of all plugins sorted by name
func (r *PluginRegistry) List() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		list = append(list, p.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Skipped returns the directories that failed to load, keyed by name
func (r *PluginRegistry) Skipped() map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]error, len(r.skipped))
	for k, v := range r.skipped {
		result[k] = v
	}
	return result
}

// Resolve finds the plugin owning a box's mode tag
func (r *PluginRegistry) Resolve(box *Box) (*Plugin, error) {
	name, _, err := ParseMode(box.Mode)
	if err != nil {
		return nil, err
	}
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("no plugin registered for mode %s", box.Mode)
	}
	return p, nil
}
