package model

import (
	"encoding/json"
	"fmt"
)

// SentinelHeaderName marks a call activity whose header table is present but empty.
// Reports surface it without counting it as a header.
const SentinelHeaderName = "(empty headerTable)"

// ResolvedFrom describes where a resolved header value came from.
type ResolvedFrom int

const (
	// ResolvedFromDirect means the raw value was used as-is.
	ResolvedFromDirect ResolvedFrom = iota
	// ResolvedFromMap means the raw value was a placeholder found in the parameter map.
	ResolvedFromMap
	// ResolvedFromUnresolved means the raw value was a placeholder missing from the parameter map.
	ResolvedFromUnresolved
)

var resolvedFromNames = map[ResolvedFrom]string{
	ResolvedFromDirect:     "direct",
	ResolvedFromMap:        "fromMap",
	ResolvedFromUnresolved: "unresolved",
}

func (r ResolvedFrom) String() string {
	if s, ok := resolvedFromNames[r]; ok {
		return s
	}
	return fmt.Sprintf("ResolvedFrom(%d)", int(r))
}

// MarshalJSON encodes the provenance by name.
func (r ResolvedFrom) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a provenance name.
func (r *ResolvedFrom) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode resolved from: %w", err)
	}
	for k, v := range resolvedFromNames {
		if v == s {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown resolved from value %q", s)
}

// HeaderRow is one decoded row of a header table.
// Name and Value come from the cells of the same id, the remaining fields are informational.
type HeaderRow struct {
	Name     string
	Value    string
	Action   string
	Type     string
	DataType string
	Default  string
}

// Resolution is the outcome of resolving a single raw cell value.
type Resolution struct {
	IsPlaceholder bool
	ResolvedValue string
	ResolvedFrom  ResolvedFrom
}

// ResolvedHeaderRecord is the unit of extraction output.
type ResolvedHeaderRecord struct {
	CallActivityID   string       `json:"callActivityId"`
	CallActivityName string       `json:"callActivityName"`
	HeaderName       string       `json:"headerName"`
	RawValue         string       `json:"rawValue"`
	ResolvedValue    string       `json:"resolvedValue"`
	IsPlaceholder    bool         `json:"isPlaceholder"`
	ResolvedFrom     ResolvedFrom `json:"resolvedFrom"`
	Action           string       `json:"action,omitempty"`
	SourceType       string       `json:"sourceType,omitempty"`
}

// IsSentinel reports whether the record marks an empty header table rather than a real header.
func (r ResolvedHeaderRecord) IsSentinel() bool {
	return r.HeaderName == SentinelHeaderName
}

// SentinelRecord builds the empty header table marker for a call activity.
func SentinelRecord(callActivityID string, callActivityName string) ResolvedHeaderRecord {
	return ResolvedHeaderRecord{
		CallActivityID:   callActivityID,
		CallActivityName: callActivityName,
		HeaderName:       SentinelHeaderName,
		ResolvedFrom:     ResolvedFromDirect,
	}
}

// Summary holds the header tallies of a set of records.  EmptyTables counts sentinel records,
// which are excluded from Total.
type Summary struct {
	Total       int `json:"total"`
	Direct      int `json:"direct"`
	FromMap     int `json:"fromMap"`
	Unresolved  int `json:"unresolved"`
	EmptyTables int `json:"emptyTables"`
}

// Summarize tallies records by provenance.
func Summarize(records []ResolvedHeaderRecord) Summary {
	var s Summary
	for _, r := range records {
		if r.IsSentinel() {
			s.EmptyTables++
			continue
		}
		s.Total++
		switch r.ResolvedFrom {
		case ResolvedFromDirect:
			s.Direct++
		case ResolvedFromMap:
			s.FromMap++
		case ResolvedFromUnresolved:
			s.Unresolved++
		}
	}
	return s
}
