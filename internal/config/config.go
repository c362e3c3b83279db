package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the immutable set of data sources and table descriptors handed
// to every operation.
type Config struct {
	sources map[string]model.DataSource
	tables  []*model.TableDescriptor
	byKey   map[string]*model.TableDescriptor
}

// New builds a Config from already compiled descriptors, checking the
// cross-references between them.
func New(sources map[string]model.DataSource, tables []*model.TableDescriptor) (*Config, error) {
	c := &Config{
		sources: make(map[string]model.DataSource, len(sources)),
		byKey:   make(map[string]*model.TableDescriptor, len(tables)),
	}
	for name, ds := range sources {
		ds.Name = name
		c.sources[name] = ds
	}
	for _, t := range tables {
		if err := checkTable(t); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[t.Key]; dup {
			return nil, apperr.Config("duplicated table key %q", t.Key)
		}
		if _, ok := c.sources[t.Source]; !ok {
			return nil, apperr.Config("table %q references missing data source %q", t.Key, t.Source)
		}
		c.byKey[t.Key] = t
		c.tables = append(c.tables, t)
	}
	return c, nil
}

// Table returns the descriptor registered under key (without suffix).
func (c *Config) Table(key string) (*model.TableDescriptor, bool) {
	t, ok := c.byKey[key]
	return t, ok
}

// Tables returns the descriptors in configuration order.
func (c *Config) Tables() []*model.TableDescriptor {
	return c.tables
}

func (c *Config) Source(name string) (model.DataSource, bool) {
	ds, ok := c.sources[name]
	return ds, ok
}

// Load reads a configuration file. Files ending in .json are decoded as
// JSON, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Config("read configuration %s: %v", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes, validates and compiles a configuration document.
func Parse(data []byte, format string) (*Config, error) {
	var f File
	switch format {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, apperr.Config("decode configuration: %v", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, apperr.Config("decode configuration: %v", err)
		}
	default:
		return nil, apperr.Config("unknown configuration format %q", format)
	}
	if err := validateFile(&f); err != nil {
		return nil, err
	}
	return compile(&f)
}

func compile(f *File) (*Config, error) {
	sources := make(map[string]model.DataSource, len(f.Sources))
	for name, s := range f.Sources {
		ds, err := compileSource(name, s)
		if err != nil {
			return nil, err
		}
		sources[name] = ds
	}
	tables := make([]*model.TableDescriptor, 0, len(f.Tables))
	for _, t := range f.Tables {
		td, err := compileTable(t)
		if err != nil {
			return nil, err
		}
		tables = append(tables, td)
	}
	return New(sources, tables)
}

func tableError(key, format string, args ...any) error {
	return apperr.Config("table %q: %s", key, fmt.Sprintf(format, args...))
}
