package redistore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	authcore "github.com/authcore-go/authcore"
)

// Store implements authcore.Repository over Redis hashes.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a store using the given client. An empty prefix defaults to
// "ac".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) recordKey(recordType, id string) string {
	return s.prefix + ":" + recordType + ":" + id
}

func (s *Store) indexKey(recordType, field, value string) string {
	return s.prefix + ":" + recordType + ":ix:" + field + ":" + value
}

// Put stores the record under recordType and indexes every non-id field for
// exact-match lookup. A missing or empty "id" field is assigned a fresh
// UUID. Returns the record id.
func (s *Store) Put(ctx context.Context, recordType string, record map[string]string) (string, error) {
	id := record["id"]
	if id == "" {
		id = uuid.NewString()
	}

	stored := make(map[string]string, len(record)+1)
	for k, v := range record {
		stored[k] = v
	}
	stored["id"] = id

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.recordKey(recordType, id), stored)
	for field, value := range stored {
		if field == "id" {
			continue
		}
		pipe.Set(ctx, s.indexKey(recordType, field, value), id, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the record and its index entries.
func (s *Store) Delete(ctx context.Context, recordType, id string) error {
	record, err := s.client.HGetAll(ctx, s.recordKey(recordType, id)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for field, value := range record {
		if field == "id" {
			continue
		}
		pipe.Del(ctx, s.indexKey(recordType, field, value))
	}
	pipe.Del(ctx, s.recordKey(recordType, id))
	_, err = pipe.Exec(ctx)
	return err
}

// GetByField performs an exact-match lookup of value against field within
// the scope's record type, then applies the scope's constraints as
// field-equality filters. A missing record or a constraint miss is
// (nil, false, nil); only transport failures are errors.
func (s *Store) GetByField(ctx context.Context, scope authcore.Scope, field, value string) (authcore.Record, bool, error) {
	id, err := s.client.Get(ctx, s.indexKey(scope.RecordType, field, value)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	raw, err := s.client.HGetAll(ctx, s.recordKey(scope.RecordType, id)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		// Stale index entry; treat as absent.
		return nil, false, nil
	}

	for k, want := range scope.Constraints {
		if raw[k] != want {
			return nil, false, nil
		}
	}

	record := make(authcore.Record, len(raw))
	for k, v := range raw {
		record[k] = v
	}
	return record, true, nil
}
