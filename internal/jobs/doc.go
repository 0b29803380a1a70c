// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package jobs runs batch recommendation generation in the background.

A POST to the batch endpoint with async=true enqueues a job instead of
blocking the request for the whole run. Jobs travel over an in-process
Watermill GoChannel pub/sub and are consumed by a Watermill router with the
usual middleware stack:

  - jobFinalizer (outermost): records the terminal failure of a job and acks
    the message so it is never redelivered
  - Recoverer: converts handler panics into errors
  - Retry: exponential backoff for transient failures

The GoChannel delivers one message at a time per subscriber and waits for
its ack, so at most one batch runs at any moment and further jobs queue up
behind it.

# Job States

	queued -> running -> succeeded
	                  -> failed

The Tracker keeps every job in memory and forgets finished jobs once they
are older than the retention period.

# Usage

	q, err := jobs.NewQueue(engine, &cfg.Jobs, logger)
	if err != nil {
	    return err
	}
	go q.Serve(ctx) // or add q to the supervisor tree

	job, err := q.Enqueue(ctx, 5)
	// later
	job, ok := q.Job(job.ID)
*/
package jobs
