package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/assetdex/internal/db"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexInfo reads FT.INFO. A missing index yields db.ErrIndexNotFound.
func (s *Store) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	fields, err := s.do(ctx, cmd).AsMap()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	info := &db.IndexInfo{Name: name}
	if v, ok := fields["num_docs"]; ok {
		info.NumDocs, _ = v.AsInt64()
	}
	if v, ok := fields["hash_indexing_failures"]; ok {
		info.Failures, _ = v.AsInt64()
	}
	if v, ok := fields["indexing"]; ok {
		n, _ := v.AsInt64()
		info.Indexing = n != 0
	}
	return info, nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index %q: %w", idx.Name, err)
	}

	args := []string{idx.Name, "ON", "JSON"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}
	return args, nil
}

// buildFieldArgs renders "<path> AS <alias> <TYPE> [options] [SORTABLE]".
func buildFieldArgs(f *db.SchemaField) ([]string, error) {
	if f.Path == "" || f.Alias == "" {
		return nil, errors.New("field path and alias are required")
	}
	args := []string{f.Path, "AS", f.Alias}

	switch f.Type {
	case db.FieldNumeric, db.FieldText:
		args = append(args, f.Type.String())
	case db.FieldTag:
		args = append(args, f.Type.String())
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
	default:
		return nil, fmt.Errorf("field %s: unknown type %s", f.Alias, f.Type)
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args, nil
}
