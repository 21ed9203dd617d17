package coach

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// stream framing: line-delimited, relevant lines carry the marker, the
// sentinel terminates the stream.
const (
	marker       = "data:"
	doneSentinel = "[DONE]"
)

const maxLineSize = 1024 * 1024

// field names probed for the text delta, in priority order.
var deltaFields = []string{"content", "text", "message", "token", "answer"}

// reduce reads the stream line by line and emits each non-blank resolved
// delta. A malformed line falls back to raw-text handling instead of
// aborting the whole stream.
func reduce(r io.Reader, emit func(delta string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, marker) {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, marker))
		if payload == "" {
			continue
		}
		if payload == doneSentinel {
			break
		}

		if delta := extractDelta(payload); strings.TrimSpace(delta) != "" {
			emit(delta)
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}

	return nil
}

// extractDelta resolves the textual delta out of a heterogeneous payload.
func extractDelta(payload string) string {
	var root interface{}
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return payload
	}

	switch v := root.(type) {
	case string:
		return v
	case map[string]interface{}:
		if d, ok := probe(v); ok {
			return d
		}
		if nested, ok := v["data"].(map[string]interface{}); ok {
			if d, ok := probe(nested); ok {
				return d
			}
		}
		return payload
	default:
		return payload
	}
}

func probe(m map[string]interface{}) (string, bool) {
	for _, k := range deltaFields {
		switch v := m[k].(type) {
		case string:
			return v, true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(v), true
		}
	}

	return "", false
}

// merge folds a delta into the growing message. Backends that re-send
// cumulative text instead of true deltas are detected via the prefix check
// and replace the message instead of concatenating.
func merge(current, delta string) string {
	if strings.HasPrefix(delta, current) {
		return delta
	}

	return current + delta
}
