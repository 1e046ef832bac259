// Package leaderboard stores and serves the fastest mission completions.
//
// Records are ranked ascending by duration and the public list is capped at
// TopN entries. Three backends share the Store interface: a gorm store
// (SQLite or Postgres), an in-memory skip list, and an HTTP client with a
// local file fallback for hosts that talk to a remote board.
package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	TopN             = 10
	MaxUsernameRunes = 32
	unknownUsername  = "mystery diver"
)

var ErrInvalidSubmission = errors.New("invalid payload")

// Record is one leaderboard row as it travels over the wire.
type Record struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	DurationMs float64 `json:"durationMs"`
	DayCount   int     `json:"dayCount"`
	CreatedAt  string  `json:"createdAt"`
}

// Submission is a finished run waiting to be recorded.
type Submission struct {
	Username   string  `json:"username"`
	DurationMs float64 `json:"durationMs"`
	DayCount   int     `json:"dayCount"`
}

// Normalize trims and truncates the username and validates the duration.
func (s Submission) Normalize() (Submission, error) {
	name := strings.TrimSpace(s.Username)
	if utf8.RuneCountInString(name) > MaxUsernameRunes {
		name = string([]rune(name)[:MaxUsernameRunes])
	}
	if name == "" {
		return s, fmt.Errorf("%w: username is required", ErrInvalidSubmission)
	}
	if math.IsNaN(s.DurationMs) || math.IsInf(s.DurationMs, 0) || s.DurationMs <= 0 {
		return s, fmt.Errorf("%w: durationMs must be positive", ErrInvalidSubmission)
	}
	s.Username = name
	return s, nil
}

// UnmarshalJSON accepts both camelCase and snake_case keys, so a submission
// from older clients still decodes.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Username != nil {
		s.Username = *w.Username
	}
	s.DurationMs = firstFloat(w.DurationMs, w.DurationSnake)
	s.DayCount = int(firstFloat(w.DayCount, w.DaySnake))
	return nil
}

// wireRecord is the tolerant decoding shape for records from any source.
type wireRecord struct {
	ID            any      `json:"id"`
	Username      *string  `json:"username"`
	DurationMs    *float64 `json:"durationMs"`
	DurationSnake *float64 `json:"duration_ms"`
	DayCount      *float64 `json:"dayCount"`
	DaySnake      *float64 `json:"day_count"`
	CreatedAt     *string  `json:"createdAt"`
	CreatedSnake  *string  `json:"created_at"`
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func (w wireRecord) record() Record {
	r := Record{
		Username:   unknownUsername,
		DurationMs: firstFloat(w.DurationMs, w.DurationSnake),
		DayCount:   int(firstFloat(w.DayCount, w.DaySnake)),
	}
	switch id := w.ID.(type) {
	case string:
		r.ID = id
	case float64:
		r.ID = fmt.Sprintf("%.0f", id)
	}
	if w.Username != nil {
		r.Username = *w.Username
	}
	if w.CreatedAt != nil {
		r.CreatedAt = *w.CreatedAt
	} else if w.CreatedSnake != nil {
		r.CreatedAt = *w.CreatedSnake
	}
	return r
}

// parseRecords decodes either {"records":[...]} or a bare array, drops
// rows without a positive duration, and returns the sorted top list.
func parseRecords(data []byte) ([]Record, error) {
	var envelope struct {
		Records []wireRecord `json:"records"`
	}
	var rows []wireRecord
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Records != nil {
		rows = envelope.Records
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, w := range rows {
		r := w.record()
		if math.IsNaN(r.DurationMs) || r.DurationMs <= 0 {
			continue
		}
		out = append(out, r)
	}
	return rankRecords(out, TopN), nil
}

// parseRecord decodes {"record":{...}} or a bare record object.
func parseRecord(data []byte) (*Record, error) {
	var envelope struct {
		Record *wireRecord `json:"record"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	w := envelope.Record
	if w == nil {
		var bare wireRecord
		if err := json.Unmarshal(data, &bare); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if bare.DurationMs == nil && bare.DurationSnake == nil {
			return nil, nil
		}
		w = &bare
	}
	r := w.record()
	if r.DurationMs <= 0 {
		return nil, nil
	}
	return &r, nil
}

// rankRecords sorts ascending by duration (stable) and keeps the first n.
func rankRecords(records []Record, n int) []Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DurationMs < records[j].DurationMs
	})
	if len(records) > n {
		records = records[:n]
	}
	return records
}
