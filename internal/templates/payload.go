package templates

import "fmt"

// Payload is the semi-structured data attached to a notification. Its shape
// depends on the notification type; the catalogue declares which fields each
// type requires and treats everything else as optional.
type Payload map[string]interface{}

// Str returns the string value for key, or "" when absent or not a string.
func (p Payload) Str(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the integer value for key. JSON decoding produces float64, so
// both are accepted.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Strs returns the string-slice value for key, tolerating []interface{} from
// JSON decoding.
func (p Payload) Strs(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	}
	return nil
}

// Has reports whether key is present with a non-empty value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
