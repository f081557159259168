package db

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is the FT schema type of an indexed JSON path.
type FieldType int

const (
	FieldTag FieldType = iota
	FieldNumeric
	FieldText
)

func (t FieldType) String() string {
	switch t {
	case FieldTag:
		return "TAG"
	case FieldNumeric:
		return "NUMERIC"
	case FieldText:
		return "TEXT"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// SchemaField indexes one JSONPath under an alias. Queries address the alias.
type SchemaField struct {
	Path     string
	Alias    string
	Type     FieldType
	Sortable bool

	// TAG only
	CaseSensitive bool
	Separator     string
}

// IndexDefinition is an FT index over JSON documents stored under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []SchemaField
}

// Validate checks the definition before it is sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !isIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	aliases := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if !strings.HasPrefix(f.Path, "$") {
			return fmt.Errorf("field %d: path %q is not a JSONPath", i, f.Path)
		}
		if f.Alias == "" {
			return fmt.Errorf("field %s requires an alias", f.Path)
		}
		if !isIdentifier(f.Alias) {
			return fmt.Errorf("alias %q contains invalid characters", f.Alias)
		}
		if _, dup := aliases[f.Alias]; dup {
			return fmt.Errorf("duplicate alias %q", f.Alias)
		}
		aliases[f.Alias] = struct{}{}

		if f.Type != FieldTag && (f.CaseSensitive || f.Separator != "") {
			return fmt.Errorf("field %s: tag options on a %s field", f.Alias, f.Type)
		}
		if len(f.Separator) > 1 {
			return fmt.Errorf("field %s: separator must be a single character", f.Alias)
		}
	}
	return nil
}

// IndexInfo is the subset of FT.INFO assetdex reads.
type IndexInfo struct {
	Name     string
	NumDocs  int64
	Indexing bool // initial scan of existing keys still running
	Failures int64
}

// isIdentifier matches [a-zA-Z0-9_:-]+.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
