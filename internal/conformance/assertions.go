package conformance

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"costcheck/pkg/costapi"
)

// AssertionError reports a response that was received but broke the contract.
type AssertionError struct {
	Endpoint string
	Message  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s (expected %s, got %s)", e.Endpoint, e.Message, e.Expected, e.Actual)
}

// Summary is the message without the endpoint prefix.
func (e *AssertionError) Summary() string {
	return fmt.Sprintf("%s (expected %s, got %s)", e.Message, e.Expected, e.Actual)
}

func expectStatus(resp *costapi.Response, want int, message string) error {
	if resp.StatusCode == want {
		return nil
	}
	return &AssertionError{
		Endpoint: resp.Endpoint(),
		Message:  message,
		Expected: fmt.Sprintf("status %d", want),
		Actual:   fmt.Sprintf("status %d", resp.StatusCode),
	}
}

// expectTruthyJSON requires a JSON body that is not null, false, zero, an
// empty string, an empty array or an empty object.
func expectTruthyJSON(resp *costapi.Response, message string) error {
	var v any
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return &AssertionError{
			Endpoint: resp.Endpoint(),
			Message:  message,
			Expected: "a JSON body",
			Actual:   describeBody(resp.Body),
		}
	}
	if !isTruthy(v) {
		return &AssertionError{
			Endpoint: resp.Endpoint(),
			Message:  message,
			Expected: "a non-empty JSON value",
			Actual:   strings.TrimSpace(string(resp.Body)),
		}
	}
	return nil
}

// expectKeys requires a JSON object body containing every key.
func expectKeys(resp *costapi.Response, message string, keys ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &obj); err != nil || obj == nil {
		return &AssertionError{
			Endpoint: resp.Endpoint(),
			Message:  message,
			Expected: "a JSON object",
			Actual:   describeBody(resp.Body),
		}
	}

	missing := lo.Filter(keys, func(key string, _ int) bool {
		_, ok := obj[key]
		return !ok
	})
	if len(missing) == 0 {
		return nil
	}

	present := lo.Keys(obj)
	sort.Strings(present)
	return &AssertionError{
		Endpoint: resp.Endpoint(),
		Message:  message,
		Expected: "keys " + quoteAll(missing),
		Actual:   "keys [" + strings.Join(present, " ") + "]",
	}
}

func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func describeBody(body []byte) string {
	const maxLen = 64
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "an empty body"
	}
	if len(text) > maxLen {
		text = text[:maxLen] + "..."
	}
	return fmt.Sprintf("%q", text)
}

func quoteAll(keys []string) string {
	quoted := lo.Map(keys, func(key string, _ int) string {
		return fmt.Sprintf("%q", key)
	})
	return strings.Join(quoted, ", ")
}
