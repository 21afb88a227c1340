package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQL    = "sql"
	DriverMemory = "memory"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Definition describes one record source. Definitions are loaded at startup
// from YAML files and fingerprinted so changes show up in logs.
type Definition struct {
	Name        string
	Driver      string
	Table       string
	Attributes  filter.Schema
	Records     []filter.Record // memory driver only
	Fingerprint string          // SHA-256 of the raw YAML file
}

// rawDefinition is the on-disk YAML shape.
type rawDefinition struct {
	Name       string                   `yaml:"name"`
	Driver     string                   `yaml:"driver"`
	Table      string                   `yaml:"table"`
	Attributes map[string]string        `yaml:"attributes"`
	Records    []map[string]interface{} `yaml:"records"`
}

// LoadDefinitions reads every *.yaml / *.yml file in dir, one source per file.
// A missing directory yields no definitions.
func LoadDefinitions(dir string) ([]Definition, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("source definition dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source definition path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source definition dir: %w", err)
	}

	seen := make(map[string]struct{})
	var defs []Definition
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading source file %s: %w", path, err)
		}

		def, ok, err := parseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("source file %s: %w", path, err)
		}
		if !ok {
			continue // empty / comment-only file
		}

		if _, exists := seen[def.Name]; exists {
			return nil, fmt.Errorf("source %q: duplicate source name (check multiple YAML files)", def.Name)
		}
		seen[def.Name] = struct{}{}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

func parseDefinition(data []byte) (Definition, bool, error) {
	var raw rawDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definition{}, false, fmt.Errorf("parsing: %w", err)
	}
	if raw.Name == "" {
		return Definition{}, false, nil
	}

	if raw.Driver == "" {
		raw.Driver = DriverSQL
	}
	if raw.Driver != DriverSQL && raw.Driver != DriverMemory {
		return Definition{}, false, fmt.Errorf("source %q: unsupported driver %q", raw.Name, raw.Driver)
	}
	if len(raw.Attributes) == 0 {
		return Definition{}, false, fmt.Errorf("source %q: attributes must not be empty", raw.Name)
	}

	schema := make(filter.Schema, len(raw.Attributes))
	for name, tag := range raw.Attributes {
		t := filter.AttrType(strings.ToLower(tag))
		if !t.Valid() {
			return Definition{}, false, fmt.Errorf("source %q: attribute %q has unknown type %q", raw.Name, name, tag)
		}
		if raw.Driver == DriverSQL && !identifierPattern.MatchString(name) {
			return Definition{}, false, fmt.Errorf("source %q: attribute %q is not a valid column name", raw.Name, name)
		}
		schema[name] = t
	}

	def := Definition{
		Name:        raw.Name,
		Driver:      raw.Driver,
		Table:       raw.Table,
		Attributes:  schema,
		Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
	}

	switch raw.Driver {
	case DriverSQL:
		if def.Table == "" {
			def.Table = raw.Name
		}
		if !identifierPattern.MatchString(def.Table) {
			return Definition{}, false, fmt.Errorf("source %q: table %q is not a valid identifier", raw.Name, def.Table)
		}
		if len(raw.Records) > 0 {
			return Definition{}, false, fmt.Errorf("source %q: inline records are only allowed with the memory driver", raw.Name)
		}
	case DriverMemory:
		def.Records = make([]filter.Record, 0, len(raw.Records))
		for _, rec := range raw.Records {
			def.Records = append(def.Records, filter.Record(rec))
		}
	}

	return def, true, nil
}
