// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package models defines the JSON envelope shared by all HTTP endpoints.
//
// Domain types (users, feature vectors, recommendations, reasons) live in
// the recommend package and are serialized as-is inside Data.
package models
