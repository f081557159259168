package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/assetdex/internal/db"
)

// HSetNX writes field only when it is absent. Reports whether it wrote.
func (s *Store) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	n, err := s.do(ctx, s.b().Hsetnx().Key(key).Field(field).Value(value).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpHSetNX, Err: err}
	}
	return n == 1, nil
}

// HGetAll returns every field of a hash; a missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HGet reads one hash field; a missing key or field yields db.ErrKeyNotFound.
func (s *Store) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := s.do(ctx, s.b().Hget().Key(key).Field(field).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", db.ErrKeyNotFound
		}
		return "", &db.Error{Op: db.OpHGet, Err: err}
	}
	return v, nil
}
