// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"fmt"
	"strconv"

	gobreaker "github.com/sony/gobreaker/v2"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// gobreakerOpen wraps the open-state error the way the profile provider does.
func gobreakerOpen() error {
	return fmt.Errorf("list users: %w", gobreaker.ErrOpenState)
}
