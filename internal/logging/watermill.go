// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// WatermillLogger implements watermill.LoggerAdapter on top of zerolog.
type WatermillLogger struct {
	logger zerolog.Logger
}

// NewWatermillLogger wraps logger for use by watermill routers and pub/subs.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWatermillLogger(logger zerolog.Logger) *WatermillLogger {
	return &WatermillLogger{logger: logger}
}

// Error logs msg with err at error level.
func (w *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs msg at info level.
func (w *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	w.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Debug logs msg at debug level.
func (w *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Trace logs msg at trace level.
func (w *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

// With returns an adapter with fields attached to every entry.
func (w *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: w.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}
