package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where a config value was set. Name labels default sources.
type Source struct {
	Kind   SourceKind
	Name   string
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config *Config
	// Sources maps a YAML path such as gaps.outer or routes[0].workspace to
	// the file position that last set it. Defaults are not recorded.
	Sources map[string]Source
	// Files lists every file read, includes before the files including them.
	Files []string
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/whim/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "whim", "config.yaml")
}

// LoadFromPath loads path and everything it includes over the defaults. A
// missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	var top layer
	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		w := includeWalker{seen: map[string]bool{}}
		if top, err = w.load(path); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(top.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, top.sources)
	}
	return &LoadResult{Config: cfg, Sources: top.sources, Files: top.files}, nil
}

// layer is one file merged over the files it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// under returns l with top applied over it.
func (l layer) under(top layer) layer {
	sources := maps.Clone(l.sources)
	if sources == nil {
		sources = map[string]Source{}
	}
	maps.Copy(sources, top.sources)
	return layer{
		raw:     l.raw.merge(top.raw),
		sources: sources,
		files:   append(slices.Clone(l.files), top.files...),
	}
}

// includeWalker follows include keys depth first. A file reached twice is
// read once; a file that includes one of its own includers is a cycle.
type includeWalker struct {
	seen  map[string]bool
	chain []string
}

func (w *includeWalker) load(path string) (layer, error) {
	file, err := filepath.Abs(path)
	if err != nil {
		return layer{}, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(file); err == nil {
		file = real
	}
	if slices.Contains(w.chain, file) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(w.chain, " -> "), file)
	}
	if w.seen[file] {
		return layer{}, nil
	}
	w.seen[file] = true
	w.chain = append(w.chain, file)
	defer func() { w.chain = w.chain[:len(w.chain)-1] }()

	own, err := readLayer(file)
	if err != nil {
		return layer{}, err
	}

	var merged layer
	for i, include := range own.raw.Include {
		targets, err := includeTargets(file, include)
		if err != nil {
			src := own.includeSource(i)
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", file, src.Line, src.Column, include, err)
		}
		for _, target := range targets {
			inc, err := w.load(target)
			if err != nil {
				return layer{}, err
			}
			merged = merged.under(inc)
		}
	}
	// The including file wins over its includes.
	return merged.under(own), nil
}

// readLayer strictly decodes one file and records the position of every
// value in it.
func readLayer(file string) (layer, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}

	sources := map[string]Source{}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		recordSources(doc.Content[0], file, "", sources)
	}
	return layer{raw: raw, sources: sources, files: []string{file}}, nil
}

// includeSource finds the position of the i-th include entry, written
// either as a list item or as the single scalar form.
func (l layer) includeSource(i int) Source {
	if src, ok := l.sources[fmt.Sprintf("include[%d]", i)]; ok {
		return src
	}
	return l.sources["include"]
}

// recordSources stores mapping keys as dotted paths and list items as
// path[i], the same paths ValidationError uses.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := node.Content[i].Value
			if prefix != "" {
				path = prefix + "." + path
			}
			value := node.Content[i+1]
			out[path] = Source{Kind: SourceFile, File: file, Line: value.Line, Column: value.Column}
			recordSources(value, file, path, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			out[path] = Source{Kind: SourceFile, File: file, Line: item.Line, Column: item.Column}
			recordSources(item, file, path, out)
		}
	}
}

// includeTargets resolves an include entry against the including file. A
// directory expands to its .yaml and .yml files in name order.
func includeTargets(from, include string) ([]string, error) {
	switch {
	case include == "":
		return nil, errors.New("path is empty")
	case include == "~":
		include = xdg.Home
	case strings.HasPrefix(include, "~/"):
		include = filepath.Join(xdg.Home, include[2:])
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(include, entry.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// withSource fills in the file position of a ValidationError, falling back
// to the nearest enclosing path that has one.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for path := verr.Path; path != ""; path = enclosingPath(path) {
		if src, ok := sources[path]; ok {
			verr.Source = src
			break
		}
	}
	return err
}

func enclosingPath(path string) string {
	i := strings.LastIndexAny(path, ".[")
	if i <= 0 {
		return ""
	}
	return path[:i]
}
