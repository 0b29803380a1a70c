// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/metrics"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

const (
	vectorKeyPrefix = "fv:"
	cacheType       = "feature_vector"
	defaultTTL      = time.Hour
)

// Options configures a VectorStore.
type Options struct {
	// Path is the Badger directory. Empty opens an in-memory instance.
	Path string

	// TTL bounds how long a cached vector is served. Default: 1h.
	TTL time.Duration
}

// VectorStore caches feature vectors in Badger in front of a recommend.Store.
type VectorStore struct {
	recommend.Store

	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

var _ recommend.Store = (*VectorStore)(nil)

// NewVectorStore opens Badger and wraps store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewVectorStore(store recommend.Store, opts Options, logger zerolog.Logger) (*VectorStore, error) {
	if store == nil {
		return nil, errors.New("cache: store is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}

	logger = logger.With().Str("component", "vector_cache").Logger()

	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.Path == "").
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	logger.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.Path == "").
		Dur("ttl", opts.TTL).
		Msg("Feature vector cache opened")

	return &VectorStore{Store: store, db: db, ttl: opts.TTL, logger: logger}, nil
}

// Close releases the Badger instance. The wrapped store is not closed.
func (c *VectorStore) Close() error {
	return c.db.Close()
}

// SaveFeatureVector writes v to the wrapped store, then refreshes the cache.
func (c *VectorStore) SaveFeatureVector(ctx context.Context, v *recommend.FeatureVector) error {
	if err := c.Store.SaveFeatureVector(ctx, v); err != nil {
		return err
	}
	if err := c.put(v); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", v.UserID).Msg("Failed to cache feature vector")
		// Drop any stale copy so readers fall through to the store
		c.Invalidate(v.UserID)
	}
	return nil
}

// FeatureVector returns the cached vector or reads it from the wrapped store.
func (c *VectorStore) FeatureVector(ctx context.Context, userID int64) (*recommend.FeatureVector, error) {
	v, err := c.get(userID)
	switch {
	case err == nil:
		metrics.RecordCacheLookup(cacheType, true)
		return v, nil
	case !errors.Is(err, badger.ErrKeyNotFound):
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("Feature vector cache read failed")
	}
	metrics.RecordCacheLookup(cacheType, false)

	v, err = c.Store.FeatureVector(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.put(v); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to cache feature vector")
	}
	return v, nil
}

// Invalidate removes the cached vector of userID.
func (c *VectorStore) Invalidate(userID int64) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(vectorKey(userID))
	})
	if err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to invalidate feature vector")
	}
}

// Purge drops every cached vector.
func (c *VectorStore) Purge() error {
	return c.db.DropPrefix([]byte(vectorKeyPrefix))
}

func (c *VectorStore) put(v *recommend.FeatureVector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal feature vector: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(vectorKey(v.UserID), data).WithTTL(c.ttl))
	})
}

func (c *VectorStore) get(userID int64) (*recommend.FeatureVector, error) {
	v := recommend.NewFeatureVector(userID)
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(vectorKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return nil, err
	}
	v.Normalize()
	return v, nil
}

func vectorKey(userID int64) []byte {
	return []byte(vectorKeyPrefix + strconv.FormatInt(userID, 10))
}
