/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package message collects the human readable notes produced by analytics stages
// and renders them as "Error: ...; Warning: ...; Info: ...".
package message

import (
	"fmt"
	"strings"
)

// Level is the severity of a message
type Level string

const (
	// LevelError marks a configuration problem that prevented a result
	LevelError Level = "Error"

	// LevelWarning marks missing or unusable data
	LevelWarning Level = "Warning"

	// LevelInfo marks an informational note about the result
	LevelInfo Level = "Info"
)

// Levels in the order they are rendered
var Levels = []Level{LevelError, LevelWarning, LevelInfo}

// Message is a single note with its severity
type Message struct {
	Level Level
	Msg   string
}

// Messages accumulates notes in the order they were added
type Messages []Message

// Errorf adds an error message
func (m *Messages) Errorf(format string, args ...interface{}) {
	m.add(LevelError, format, args...)
}

// Warningf adds a warning message
func (m *Messages) Warningf(format string, args ...interface{}) {
	m.add(LevelWarning, format, args...)
}

// Infof adds an info message
func (m *Messages) Infof(format string, args ...interface{}) {
	m.add(LevelInfo, format, args...)
}

func (m *Messages) add(level Level, format string, args ...interface{}) {
	*m = append(*m, Message{Level: level, Msg: fmt.Sprintf(format, args...)})
}

// Count returns the number of messages at a level
func (m Messages) Count(level Level) int {
	n := 0
	for _, msg := range m {
		if msg.Level == level {
			n++
		}
	}
	return n
}

// Join groups messages by level and joins them
func (m Messages) Join() string {
	segments := make([]string, 0, len(Levels))
	for _, level := range Levels {
		bodies := make([]string, 0, len(m))
		for _, msg := range m {
			if msg.Level == level {
				bodies = append(bodies, msg.Msg)
			}
		}
		segments = append(segments, string(level)+": "+strings.Join(bodies, ", "))
	}
	return strings.Join(segments, "; ")
}

// String implements fmt.Stringer
func (m Messages) String() string {
	return m.Join()
}
