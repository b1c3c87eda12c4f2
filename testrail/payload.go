package testrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result status ids.
const (
	StatusPassed = 1
	StatusFailed = 5
)

const automatedKind = 2

// Record is a single TestRail result as it travels through the pipeline.
// Values are kept raw so fields this tool does not know about survive untouched.
type Record map[string]json.RawMessage

// Result is the payload posted for one automated run of a case.
type Result struct {
	StatusID  int    `json:"status_id"`
	Kind      int    `json:"custom_kind"`
	BrowserID int    `json:"custom_browser_id"`
	Env       int    `json:"custom_env,omitempty"`
	Class     int    `json:"custom_class,omitempty"`
	Elapsed   string `json:"elapsed"`
}

var envIDs = map[string]int{
	"staging":       1,
	"preproduction": 2,
	"prod":          3,
}

var classIDs = map[string]int{
	"smoke":  1,
	"system": 2,
}

// NewResult builds a passed result. Unknown environments and tags leave their field out.
func NewResult(browserID, env, tag, elapsed string) (Result, error) {
	id, err := strconv.Atoi(strings.TrimSpace(browserID))
	if err != nil {
		return Result{}, fmt.Errorf("invalid browser id (%s): %w", browserID, err)
	}

	return Result{
		StatusID:  StatusPassed,
		Kind:      automatedKind,
		BrowserID: id,
		Env:       envIDs[env],
		Class:     classIDs[tag],
		Elapsed:   elapsed,
	}, nil
}

// ParseRecord ...
func ParseRecord(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("result is not a JSON object")
	}
	return record, nil
}

// AddComment ...
func AddComment(record Record, comment string) (Record, error) {
	value, err := encode(comment)
	if err != nil {
		return nil, err
	}
	record["comment"] = value
	return record, nil
}

// MarkFailed ...
func MarkFailed(record Record) Record {
	record["status_id"] = json.RawMessage(strconv.Itoa(StatusFailed))
	return record
}

// ResultsFromResponse returns the results of a get_results_for_case response.
// Paginated responses wrap them in a "results" field, older instances answer with the bare list.
func ResultsFromResponse(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return parseRecords(trimmed)
	}

	var response struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return nil, fmt.Errorf("failed to parse results response: %w", err)
	}
	if len(response.Results) == 0 || string(response.Results) == "null" {
		return []Record{}, nil
	}
	return parseRecords(response.Results)
}

// ParseRecords ...
func ParseRecords(data []byte) ([]Record, error) {
	return parseRecords(data)
}

func parseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

var prunedFields = []string{
	"assignedto_id",
	"comment",
	"version",
	"defects",
	"created_by",
	"custom_step_results",
	"attachment_ids",
}

// FilterResults keeps the results created after startTimestamp that have a browser set.
// Results without a created_on are dropped.
// The kept records lose the fields reporting does not need and their created_on
// is moved to midnight of the same day in loc.
func FilterResults(records []Record, startTimestamp int64, loc *time.Location) []Record {
	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		ts, ok := createdOn(record)
		if !ok || ts <= startTimestamp {
			continue
		}
		if browserID, ok := record["custom_browser_id"]; ok && isNull(browserID) {
			continue
		}

		kept := make(Record, len(record))
		for key, value := range record {
			kept[key] = value
		}
		for _, field := range prunedFields {
			delete(kept, field)
		}
		kept["created_on"] = json.RawMessage(strconv.FormatInt(startOfDay(ts, loc), 10))

		filtered = append(filtered, kept)
	}

	return filtered
}

// createdOn reports false for records without a numeric created_on, those never count as new.
func createdOn(record Record) (int64, bool) {
	raw, ok := record["created_on"]
	if !ok || isNull(raw) {
		return 0, false
	}

	var ts float64
	if err := json.Unmarshal(raw, &ts); err != nil {
		return 0, false
	}
	return int64(ts), true
}

func startOfDay(ts int64, loc *time.Location) int64 {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).Unix()
}

func isNull(value json.RawMessage) bool {
	return string(bytes.TrimSpace(value)) == "null"
}

func encode(v interface{}) (json.RawMessage, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Compact renders v the way the CLI prints it: one line, no HTML escaping.
func Compact(v interface{}) (string, error) {
	data, err := encode(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}
