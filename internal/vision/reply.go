package vision

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxObjectStarts bounds how many '{' positions ParseObject tries before
// giving up on a reply.
const maxObjectStarts = 64

// ParseObject extracts the first JSON object from a model reply.
//
// Models wrap JSON in prose or markdown fences often enough that a strict
// parse alone is not enough. ParseObject first strips a surrounding code fence
// and parses the whole reply strictly. If that fails it decodes one value at
// each of the first 64 '{' positions and returns the first that is a complete
// object. Numbers are kept as json.Number so integers survive exactly.
//
// Every value in the returned map is untrusted model output; callers validate
// ranges and types themselves.
func ParseObject(reply string) (map[string]any, bool) {
	text := stripFence(strings.TrimSpace(reply))

	if obj, ok := decodeObject(text); ok {
		return obj, true
	}

	starts := 0
	for i := 0; i < len(text) && starts < maxObjectStarts; i++ {
		if text[i] != '{' {
			continue
		}
		starts++
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}

func decodeObject(text string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	// Trailing content means the reply was not a single object.
	if dec.More() {
		return nil, false
	}
	return obj, true
}

// stripFence removes a ```json ... ``` markdown fence around text.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// Int converts a decoded JSON value to an int.
//
// Integral numbers, floats with no fractional part and strings holding an
// integer are accepted. Anything else, including 560.5, is rejected.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatInt(f)
	case float64:
		return floatInt(n)
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func floatInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// IntField returns obj[key] converted with Int.
func IntField(obj map[string]any, key string) (int, bool) {
	v, ok := obj[key]
	if !ok {
		return 0, false
	}
	return Int(v)
}

// StringField returns obj[key] when it is a string, trimmed and lower-cased.
func StringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s)), true
}
