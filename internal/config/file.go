// Package config loads the data sources and table descriptors of the
// browser from a YAML or JSON file.
//
// Example (trimmed):
//
//	sources:
//	  demos:
//	    engine: sqlite
//	    file: demos.sq3
//	tables:
//	  - key: users
//	    source: demos
//	    table: users
//	    id: [UserID]
//	    list: [LogInName, Name]
//	    order: [Name]
//	    editable: [immediately, insert, delete]
package config

// File mirrors the on-disk configuration. It is decoded, validated and then
// compiled into a Config; nothing reads File after Load returns.
type File struct {
	Sources map[string]SourceFile `yaml:"sources" json:"sources" validate:"required,dive"`
	Tables  []TableFile           `yaml:"tables" json:"tables" validate:"required,dive"`
}

type SourceFile struct {
	Engine  string            `yaml:"engine" json:"engine" validate:"required"`
	Server  string            `yaml:"server" json:"server"`
	Port    int               `yaml:"port" json:"port" validate:"gte=0,lte=65535"`
	Schema  string            `yaml:"schema" json:"schema"`
	User    string            `yaml:"user" json:"user"`
	Passwd  string            `yaml:"passwd" json:"passwd"`
	File    string            `yaml:"file" json:"file"`
	DSN     string            `yaml:"dsn" json:"dsn"`
	Options map[string]string `yaml:"options" json:"options"`
	Pool    PoolFile          `yaml:"pool" json:"pool"`
}

type PoolFile struct {
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime string `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

type TableFile struct {
	Key      string       `yaml:"key" json:"key" validate:"required"`
	Source   string       `yaml:"source" json:"source" validate:"required"`
	Table    string       `yaml:"table" json:"table" validate:"required"`
	Name     string       `yaml:"name" json:"name"`
	Group    string       `yaml:"group" json:"group"`
	Icon     string       `yaml:"icon" json:"icon"`
	Unlisted bool         `yaml:"unlisted" json:"unlisted"`
	ID       []string     `yaml:"id" json:"id" validate:"required,min=1,unique,dive,required"`
	List     []string     `yaml:"list" json:"list" validate:"required,min=1,dive,required"`
	Order    []string     `yaml:"order" json:"order" validate:"dive,required"`
	Title    string       `yaml:"title" json:"title"`
	Columns  []ColumnFile `yaml:"columns" json:"columns" validate:"dive"`
	Editable []string     `yaml:"editable" json:"editable" validate:"dive,oneof=none on_request immediately insert delete"`
	Buttons  []ButtonFile `yaml:"buttons" json:"buttons" validate:"dive"`
	Hooks    HooksFile    `yaml:"hooks" json:"hooks"`
}

type ColumnFile struct {
	Column       string        `yaml:"column" json:"column" validate:"required"`
	Name         string        `yaml:"name" json:"name"`
	Control      string        `yaml:"control" json:"control"`
	Help         string        `yaml:"help" json:"help"`
	Options      []OptionFile  `yaml:"options" json:"options" validate:"dive"`
	OptionsQuery *OptionsQFile `yaml:"options_query" json:"options_query"`
}

type OptionFile struct {
	Value any    `yaml:"value" json:"value"`
	Text  string `yaml:"text" json:"text"`
}

type OptionsQFile struct {
	SQL    string   `yaml:"sql" json:"sql" validate:"required"`
	Params []string `yaml:"params" json:"params"`
}

type ButtonFile struct {
	Name   string        `yaml:"name" json:"name" validate:"required"`
	Target string        `yaml:"target" json:"target" validate:"required"`
	Help   string        `yaml:"help" json:"help"`
	Bind   []BindingFile `yaml:"bind" json:"bind" validate:"dive"`
}

type BindingFile struct {
	Column string `yaml:"column" json:"column" validate:"required_without=Value"`
	Value  string `yaml:"value" json:"value"`
	As     string `yaml:"as" json:"as"`
}

type HooksFile struct {
	ListBefore  string `yaml:"list_before" json:"list_before"`
	ListAfter   string `yaml:"list_after" json:"list_after"`
	ReadBefore  string `yaml:"read_before" json:"read_before"`
	ReadAfter   string `yaml:"read_after" json:"read_after"`
	WriteBefore string `yaml:"write_before" json:"write_before"`
	WriteAfter  string `yaml:"write_after" json:"write_after"`
}
