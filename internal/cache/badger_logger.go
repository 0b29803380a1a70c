// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package cache

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger routes Badger's printf-style logging into zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(trimMessage(format, args))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msg(trimMessage(format, args))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msg(trimMessage(format, args))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msg(trimMessage(format, args))
}

// Badger terminates most messages with a newline
func trimMessage(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
