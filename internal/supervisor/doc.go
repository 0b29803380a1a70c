// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package supervisor runs the server's long-lived services under a suture v4
supervisor tree.

The tree has three layers, each its own supervisor so a crash loop in one
does not take the others down:

	fairmatch
	├── data-layer   DuckDB checkpoints
	├── jobs-layer   watermill job queue, regeneration scheduler
	└── api-layer    HTTP server

Supervisor events are logged through sutureslog, fed by the zerolog slog
adapter in internal/logging. Service wrappers live in the services
subpackage.
*/
package supervisor
