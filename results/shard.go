package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TestType ...
type TestType string

// Test types written by the test runner and by the merge step.
const (
	TestTypeParallel           TestType = "parallel"
	TestTypeSequential         TestType = "sequential"
	TestTypeParallelSequential TestType = "parallel+sequential"
)

const (
	environmentKey        = "Environment"
	browserKey            = "Browser"
	testTypeKey           = "Browser-Test-Type"
	ranKey                = "Number-of-tests-ran"
	passedKey             = "Number-of-tests-passed"
	failedKey             = "Number-of-tests-failed"
	failedTestsDetailsKey = "failedTestsDetails"
)

var knownKeys = []string{environmentKey, browserKey, testTypeKey, ranKey, passedKey, failedKey, failedTestsDetailsKey}

// ShardResult is the summary one CI shard writes for one browser and one execution mode.
// Failure details are kept as raw JSON, their shape belongs to the test runner.
// Keys the tool does not know about are carried in Extra and written back unchanged.
type ShardResult struct {
	Environment        string
	Browser            string
	TestType           TestType
	Ran                int
	Passed             int
	Failed             int
	FailedTestsDetails []json.RawMessage
	Extra              map[string]json.RawMessage
}

// UnmarshalJSON ...
func (r *ShardResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var parsed ShardResult
	targets := map[string]interface{}{
		environmentKey:        &parsed.Environment,
		browserKey:            &parsed.Browser,
		testTypeKey:           &parsed.TestType,
		ranKey:                &parsed.Ran,
		passedKey:             &parsed.Passed,
		failedKey:             &parsed.Failed,
		failedTestsDetailsKey: &parsed.FailedTestsDetails,
	}

	for key, value := range fields {
		target, known := targets[key]
		if !known {
			if parsed.Extra == nil {
				parsed.Extra = map[string]json.RawMessage{}
			}
			parsed.Extra[key] = value
			continue
		}

		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	*r = parsed
	return nil
}

// MarshalJSON writes the known keys in a fixed order followed by the extra keys sorted by name.
func (r ShardResult) MarshalJSON() ([]byte, error) {
	details := r.FailedTestsDetails
	if details == nil {
		details = []json.RawMessage{}
	}

	values := map[string]interface{}{
		environmentKey:        r.Environment,
		browserKey:            r.Browser,
		testTypeKey:           r.TestType,
		ranKey:                r.Ran,
		passedKey:             r.Passed,
		failedKey:             r.Failed,
		failedTestsDetailsKey: details,
	}

	extraKeys := make([]string, 0, len(r.Extra))
	for key := range r.Extra {
		if _, known := values[key]; known {
			continue
		}
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range append(append([]string{}, knownKeys...), extraKeys...) {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := encodeValue(key)
		if err != nil {
			return nil, err
		}

		var value interface{} = r.Extra[key]
		if known, ok := values[key]; ok {
			value = known
		}
		encodedValue, err := encodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Decode parses the content of a shard file: a JSON array of shard results.
func Decode(data []byte) ([]ShardResult, error) {
	var entries []ShardResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Encode renders entries as a 4-space indented JSON array.
func Encode(entries []ShardResult) ([]byte, error) {
	if entries == nil {
		entries = []ShardResult{}
	}
	return marshalIndent(entries)
}

// MarshalIndent renders any value the way the result files are written: 4-space indent, no HTML escaping.
func MarshalIndent(v interface{}) ([]byte, error) {
	return marshalIndent(v)
}

func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
