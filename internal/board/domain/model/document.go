package model

import "time"

// Document is the generic shape exchanged with the document store. Model
// types convert to and from it at the repository boundary.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Conversion helpers shared by the model types. Store drivers decode numbers
// inconsistently (int32/int64/float64 depending on transport), so every
// numeric read goes through asInt64.

func asString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func asBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func asInt64(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case time.Time:
		return v.UnixMilli()
	default:
		return 0
	}
}

func asStringSlice(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
