// Package extraction holds the strategies used to pull field values out of a
// host record when the regular record listing comes back incomplete.
//
// The set is closed: All returns the four strategies in evaluation order and
// every strategy produces the same Result shape.
package extraction

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"ai-tablechat-be/pkg/host"
)

const (
	MethodDirect = "direct"
	MethodBatch  = "batch"
	MethodRaw    = "raw"
	MethodDeep   = "deep"

	// MethodNone tags a record for which no strategy found data.
	MethodNone = "none"
	// MethodError tags a record whose extraction failed outright.
	MethodError = "error"
)

// sampleFieldLimit bounds the fields probed by the exploration strategies.
const sampleFieldLimit = 3

// Source is what a strategy reads from.
type Source struct {
	Base   host.Base
	Table  host.Table
	Fields []host.FieldMeta
}

// Result is the outcome of one strategy on one record.
type Result struct {
	Fields  map[string]any `json:"fields"`
	Method  string         `json:"method"`
	Success bool           `json:"success"`
	Debug   map[string]any `json:"debug,omitempty"`
}

// Strategy extracts the fields of one record. Implementations absorb every
// host failure; the returned error is reserved for a cancelled context.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, src *Source, recordID string) (Result, error)
}

// All returns the strategies in their fixed evaluation order.
func All() []Strategy {
	return []Strategy{
		DirectCellAccess{},
		RecordBatchAccess{},
		RawExploration{},
		DeepExploration{},
	}
}

// ByName finds a strategy in the given set.
func ByName(strategies []Strategy, name string) (Strategy, bool) {
	for _, s := range strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// ErrorMarker is a placeholder stored in place of a value that failed to load.
type ErrorMarker struct {
	Err string `json:"error"`
}

func (m ErrorMarker) String() string { return "error: " + m.Err }

// Usable reports whether v carries data: non-nil, non-empty and not an error marker.
func Usable(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case ErrorMarker, *ErrorMarker:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case map[string]any:
		if _, isErr := val["error"]; isErr && len(val) == 1 {
			return false
		}
		return len(val) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// CountUsable counts the usable values of a fields map.
func CountUsable(fields map[string]any) int {
	n := 0
	for _, v := range fields {
		if Usable(v) {
			n++
		}
	}
	return n
}

func newResult(method string) Result {
	return Result{
		Fields: map[string]any{},
		Method: method,
		Debug:  map[string]any{},
	}
}

func (r *Result) finish() Result {
	r.Success = CountUsable(r.Fields) > 0
	return *r
}

// call runs one host operation, turning a panic inside the host binding into
// an error so that the strategy keeps going.
func call(fn func() (any, error)) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("host operation panicked: %v", p)
		}
	}()
	return fn()
}

func sampleFields(fields []host.FieldMeta) []host.FieldMeta {
	if len(fields) > sampleFieldLimit {
		return fields[:sampleFieldLimit]
	}
	return fields
}

// fieldsFromRecord pulls a name-keyed fields map out of a structured record
// result. It accepts a plain values map, a {"fields": {...}} envelope or a
// host.TableRecord.
func fieldsFromRecord(v any, fields []host.FieldMeta) (map[string]any, bool) {
	var values map[string]any
	switch rec := v.(type) {
	case map[string]any:
		values = rec
		if inner, ok := rec["fields"].(map[string]any); ok {
			values = inner
		}
	case host.TableRecord:
		values = rec.Fields
	case *host.TableRecord:
		if rec == nil {
			return nil, false
		}
		values = rec.Fields
	default:
		return nil, false
	}

	named := host.KeyByName(values, fields)
	if len(fields) == 0 {
		return named, true
	}

	types := make(map[string]host.FieldType, len(fields))
	for _, f := range fields {
		types[f.Name] = f.Type
	}
	out := make(map[string]any, len(fields))
	for k, val := range named {
		if ft, ok := types[k]; ok {
			out[k] = Normalize(ft, val)
		}
	}
	return out, true
}

// mergeCandidates copies values into dst without overwriting usable entries.
func mergeCandidates(dst, src map[string]any) {
	for k, v := range src {
		if Usable(dst[k]) {
			continue
		}
		if v != nil || dst[k] == nil {
			dst[k] = v
		}
	}
}
