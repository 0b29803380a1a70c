// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package cache provides a Badger-backed read-through cache for feature vectors.

VectorStore decorates a recommend.Store. FeatureVector reads are served from
Badger when present and fall through to the wrapped store otherwise, filling
the cache on the way back. SaveFeatureVector writes through: the wrapped
store is updated first, then the cached copy is replaced. Every other Store
method is delegated unchanged.

The cache is best-effort. A Badger failure is logged and the request is
served by the wrapped store, so a broken cache never fails a recommendation.

# Storage

Entries are JSON-encoded with goccy/go-json under the key "fv:<user id>"
and expire after the configured TTL. An empty path opens Badger in
in-memory mode, which is the default for single-node deployments.

# Usage

	vc, err := cache.NewVectorStore(db, cache.Options{TTL: time.Hour}, logger)
	if err != nil {
	    return err
	}
	defer vc.Close()

	engine, err := recommend.NewEngine(db, vc, engineCfg, logger)

# Observability

Lookups are counted in fairmatch_cache_lookups_total with cache_type
"feature_vector".
*/
package cache
