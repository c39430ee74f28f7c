package extraction

import (
	"strings"
	"time"

	"ai-tablechat-be/pkg/host"
)

// Normalize turns a host-native cell value into a plain value suitable for
// the chat context: text segments are joined, options, users and attachments
// are reduced to their display names and timestamps are rendered as RFC 3339.
func Normalize(ft host.FieldType, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val.UTC().Format(time.RFC3339)
	case host.Option:
		return val.Text
	case []host.Option:
		return optionTexts(ft, val)
	case []host.Attachment:
		names := make([]string, 0, len(val))
		for _, a := range val {
			names = append(names, a.Name)
		}
		return names
	case []host.User:
		names := make([]string, 0, len(val))
		for _, u := range val {
			names = append(names, u.Name)
		}
		return names
	case []any:
		switch {
		case ft.IsTextual():
			if text, ok := joinSegments(val); ok {
				return text
			}
		case ft.IsUser(), ft == host.FieldTypeAttachment:
			if names, ok := namesOf(val, "name"); ok {
				return names
			}
		case ft.IsSelect():
			if names, ok := namesOf(val, "text", "name"); ok {
				if ft == host.FieldTypeSingleSelect && len(names) > 0 {
					return names[0]
				}
				return names
			}
		}
		return val
	case float64:
		if ft.IsTime() {
			return time.UnixMilli(int64(val)).UTC().Format(time.RFC3339)
		}
		return val
	case int64:
		if ft.IsTime() {
			return time.UnixMilli(val).UTC().Format(time.RFC3339)
		}
		return val
	case int:
		if ft.IsTime() {
			return time.UnixMilli(int64(val)).UTC().Format(time.RFC3339)
		}
		return val
	}
	return v
}

func optionTexts(ft host.FieldType, opts []host.Option) any {
	if len(opts) == 0 {
		return nil
	}
	if ft == host.FieldTypeSingleSelect {
		return opts[0].Text
	}
	texts := make([]string, 0, len(opts))
	for _, o := range opts {
		texts = append(texts, o.Text)
	}
	return texts
}

// joinSegments joins rich-text segments of the form [{"text": "..."}].
func joinSegments(segments []any) (string, bool) {
	var sb strings.Builder
	for _, seg := range segments {
		m, ok := seg.(map[string]any)
		if !ok {
			return "", false
		}
		text, ok := m["text"].(string)
		if !ok {
			return "", false
		}
		sb.WriteString(text)
	}
	return sb.String(), true
}

// namesOf reduces plain strings or objects carrying one of keys to strings.
func namesOf(items []any, keys ...string) ([]string, bool) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			name, ok := "", false
			for _, k := range keys {
				if name, ok = v[k].(string); ok {
					break
				}
			}
			if !ok {
				return nil, false
			}
			names = append(names, name)
		default:
			return nil, false
		}
	}
	return names, true
}
