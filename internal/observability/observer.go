// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability records timing and outcome data for matching
// operations. The matching engine itself stays pure; observers are attached
// at the orchestration layer and emit JSON records only in debug mode.
package observability

import (
	"encoding/json"
	"io"
	"time"
)

// Level controls how much the observer emits.
type Level int

const (
	LevelOff     Level = 0
	LevelMetrics Level = 1
	LevelDebug   Level = 2
)

// StandardObserver implements observability for all components.
type StandardObserver struct {
	level  Level
	writer io.Writer
}

// NewStandardObserver creates an observer writing to the given writer.
func NewStandardObserver(level Level, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// Record is the JSON shape of one observed operation.
type Record struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Target     string                 `json:"target,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// StartTiming begins timing an operation and returns the completion
// function. The returned function is safe to keep nil-checked at call
// sites that only observe conditionally.
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.log(Record{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogFailure records a failed operation without timing.
func (o *StandardObserver) LogFailure(component, operation string, err error) {
	o.log(Record{
		Component: component,
		Operation: operation,
		Success:   false,
		Error:     err.Error(),
	})
}

func (o *StandardObserver) log(record Record) {
	// Records are emitted only in debug mode; metrics level keeps the
	// observer attached without producing output.
	if o.level != LevelDebug || o.writer == nil {
		return
	}
	json.NewEncoder(o.writer).Encode(record)
}
