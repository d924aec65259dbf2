package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrParse reports a response that is not valid JSON.
	ErrParse = errors.New("upstream response is not valid JSON")
	// ErrShape reports valid JSON that carries no usable list of names.
	ErrShape = errors.New("upstream response has no list of names")
)

// ContentError wraps an unusable upstream payload. It is never retried.
type ContentError struct {
	Kind error
	// Raw is the offending payload, kept for logs only.
	Raw    string
	Detail string
}

func (e *ContentError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

func (e *ContentError) Unwrap() error { return e.Kind }

// knownNameKeys are the object keys models use for the name list, in precedence order.
var knownNameKeys = []string{"names", "brandNames", "brand_names"}

// Normalize coerces a raw upstream payload into exactly count names.
// Entries are trimmed and blanks dropped, the list is truncated to count, then padded
// with "Brand<n>" where n is the 1-based slot. Order is preserved.
func Normalize(raw string, count int) ([]string, error) {
	if count <= 0 {
		count = DefaultNameCount
	}
	trimmed := strings.TrimSpace(stripCodeFence(raw))
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, &ContentError{Kind: ErrParse, Raw: raw, Detail: err.Error()}
	}
	items, err := extractNames(decoded)
	if err != nil {
		return nil, &ContentError{Kind: ErrShape, Raw: raw, Detail: err.Error()}
	}
	names := make([]string, 0, count)
	for _, item := range items {
		if len(names) == count {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			names = append(names, item)
		}
	}
	for len(names) < count {
		names = append(names, "Brand"+strconv.Itoa(len(names)+1))
	}
	return names, nil
}

func extractNames(decoded any) ([]string, error) {
	switch v := decoded.(type) {
	case []any:
		return asStrings(v)
	case map[string]any:
		for _, key := range knownNameKeys {
			if list, ok := v[key]; ok {
				arr, ok := list.([]any)
				if !ok {
					return nil, fmt.Errorf("%q is not an array", key)
				}
				return asStrings(arr)
			}
		}
		if len(v) == 1 {
			for key, list := range v {
				arr, ok := list.([]any)
				if !ok {
					return nil, fmt.Errorf("%q is not an array", key)
				}
				return asStrings(arr)
			}
		}
		return nil, errors.New("no names array found")
	default:
		return nil, fmt.Errorf("unexpected top-level %T", decoded)
	}
}

func asStrings(arr []any) ([]string, error) {
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, not a string", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown ```json fence some models add.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
