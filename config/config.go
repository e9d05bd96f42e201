// Package config handles docscript.toml project configuration.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/docscript/directive"
)

// FileName is the name of the project configuration file.
const FileName = "docscript.toml"

// Extension is the file extension of docscript sources.
const Extension = ".ds"

// Config represents a docscript.toml file.
type Config struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Compile Compile `toml:"compile"`

	// Dir is the directory containing the docscript.toml file (set at load time).
	Dir string `toml:"-"`
}

type Project struct {
	Name string `toml:"name"`
}

// Source configures where documents are read from and programs written to.
type Source struct {
	Dirs []string `toml:"dirs"`
	Out  string   `toml:"out"`
}

// Compile holds the defaults for compiler flags.
type Compile struct {
	Meta       bool   `toml:"meta"`
	Index      bool   `toml:"index"`
	Directives string `toml:"directives"`
	MaxDepth   int    `toml:"max-depth"`
}

// Load parses the docscript.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	if c.Source.Out == "" {
		c.Source.Out = "out"
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find a docscript.toml file and
// loads it. It returns nil without an error if there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// DirectiveTable returns the built-in directive table with the project's
// table, if any, merged over it. A nil config yields the built-in table.
func (c *Config) DirectiveTable() (*directive.Table, error) {
	tbl := directive.Default()
	if c == nil || c.Compile.Directives == "" {
		return tbl, nil
	}
	project, err := directive.LoadFile(c.path(c.Compile.Directives))
	if err != nil {
		return nil, err
	}
	tbl.Merge(project)
	return tbl, nil
}

// OutDir returns the absolute output directory.
func (c *Config) OutDir() string {
	return c.path(c.Source.Out)
}

// SourceFiles returns every docscript source below the configured source
// directories, sorted. The output directory is skipped.
func (c *Config) SourceFiles() ([]string, error) {
	out := c.OutDir()
	seen := make(map[string]bool)
	var files []string
	for _, d := range c.Source.Dirs {
		root := c.path(d)
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path == out || (path != root && strings.HasPrefix(entry.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == Extension && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps a source file to the program file it compiles to.
func (c *Config) OutputPath(src string) string {
	rel := filepath.Base(src)
	for _, d := range c.Source.Dirs {
		if r, err := filepath.Rel(c.path(d), src); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
			break
		}
	}
	return filepath.Join(c.OutDir(), strings.TrimSuffix(rel, Extension)+".dsb")
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Dir, p)
}
