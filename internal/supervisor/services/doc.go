// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package services adapts server components to suture.Service: the HTTP
// server, the periodic recommendation regeneration and DuckDB checkpoints.
package services
