package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-tablechat-be/pkg/host"
)

// Table is an in-memory host table.
type Table struct {
	id         string
	name       string
	views      []host.ViewMeta
	fields     []host.FieldMeta
	hideValues bool
	order      []string
	records    map[string]map[string]any
}

var (
	_ host.Table              = (*Table)(nil)
	_ host.CellByNameReader   = (*Table)(nil)
	_ host.CellStringReader   = (*Table)(nil)
	_ host.RecordByIDGetter   = (*Table)(nil)
	_ host.RecordGetter       = (*Table)(nil)
	_ host.RowGetter          = (*Table)(nil)
	_ host.RecordsByIDsGetter = (*Table)(nil)
	_ host.ValueReader        = (*Table)(nil)
	_ host.TypedFieldReader   = (*Table)(nil)
)

func newTable(tf TableFixture) *Table {
	t := &Table{
		id:         tf.ID,
		name:       tf.Name,
		views:      tf.Views,
		fields:     tf.Fields,
		hideValues: tf.HideRecordValues,
		records:    make(map[string]map[string]any, len(tf.Records)),
	}
	for _, rf := range tf.Records {
		values := make(map[string]any, len(rf.Fields))
		for k, v := range rf.Fields {
			if f, ok := t.field(k); ok {
				values[f.ID] = v
			}
		}
		t.order = append(t.order, rf.ID)
		t.records[rf.ID] = values
	}
	return t
}

// field resolves a field by ID first, then by name.
func (t *Table) field(key string) (host.FieldMeta, bool) {
	for _, f := range t.fields {
		if f.ID == key {
			return f, true
		}
	}
	for _, f := range t.fields {
		if f.Name == key {
			return f, true
		}
	}
	return host.FieldMeta{}, false
}

func (t *Table) ID() string { return t.id }

func (t *Table) GetName(ctx context.Context) (string, error) { return t.name, nil }

func (t *Table) GetViewMetaList(ctx context.Context) ([]host.ViewMeta, error) {
	return append([]host.ViewMeta(nil), t.views...), nil
}

func (t *Table) GetFieldMetaList(ctx context.Context) ([]host.FieldMeta, error) {
	return append([]host.FieldMeta(nil), t.fields...), nil
}

func (t *Table) GetRecordIDList(ctx context.Context) ([]string, error) {
	return append([]string(nil), t.order...), nil
}

func (t *Table) GetRecords(ctx context.Context, viewID string) ([]host.TableRecord, error) {
	found := false
	for _, v := range t.views {
		if v.ID == viewID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("view %s: %w", viewID, host.ErrNotFound)
	}

	records := make([]host.TableRecord, 0, len(t.order))
	for _, id := range t.order {
		values := map[string]any{}
		if !t.hideValues {
			values = copyValues(t.records[id])
		}
		records = append(records, host.TableRecord{RecordID: id, Fields: values})
	}
	return records, nil
}

func (t *Table) GetCellValue(ctx context.Context, fieldID, recordID string) (any, error) {
	values, ok := t.records[recordID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, host.ErrNotFound)
	}
	for _, f := range t.fields {
		if f.ID == fieldID {
			return values[fieldID], nil
		}
	}
	return nil, fmt.Errorf("field %s: %w", fieldID, host.ErrNotFound)
}

func (t *Table) GetCellValueByName(ctx context.Context, fieldName, recordID string) (any, error) {
	for _, f := range t.fields {
		if f.Name == fieldName {
			return t.GetCellValue(ctx, f.ID, recordID)
		}
	}
	return nil, fmt.Errorf("field %s: %w", fieldName, host.ErrNotFound)
}

func (t *Table) GetCellString(ctx context.Context, fieldID, recordID string) (string, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func (t *Table) GetRecordByID(ctx context.Context, recordID string) (map[string]any, error) {
	values, ok := t.records[recordID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, host.ErrNotFound)
	}
	return copyValues(values), nil
}

func (t *Table) GetRecord(ctx context.Context, recordID string) (any, error) {
	values, err := t.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"recordId": recordID, "fields": values}, nil
}

func (t *Table) GetRow(ctx context.Context, recordID string) (any, error) {
	return t.GetRecordByID(ctx, recordID)
}

func (t *Table) GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]host.TableRecord, error) {
	out := make([]host.TableRecord, 0, len(recordIDs))
	for _, id := range recordIDs {
		values, err := t.GetRecordByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, host.TableRecord{RecordID: id, Fields: values})
	}
	return out, nil
}

func (t *Table) GetValue(ctx context.Context, recordID, fieldKey string) (any, error) {
	f, ok := t.field(fieldKey)
	if !ok {
		return nil, fmt.Errorf("field %s: %w", fieldKey, host.ErrNotFound)
	}
	return t.GetCellValue(ctx, f.ID, recordID)
}

// --- typed readers ---

func (t *Table) ReadText(ctx context.Context, fieldID, recordID string) (string, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case []any:
		var sb strings.Builder
		for _, seg := range val {
			if m, ok := seg.(map[string]any); ok {
				if text, ok := m["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String(), nil
	case nil:
		return "", nil
	}
	return "", typeMismatch(fieldID, "text", v)
}

func (t *Table) ReadNumber(ctx context.Context, fieldID, recordID string) (float64, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case nil:
		return 0, emptyCell(fieldID, recordID)
	}
	return 0, typeMismatch(fieldID, "number", v)
}

func (t *Table) ReadSelect(ctx context.Context, fieldID, recordID string) ([]host.Option, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case string:
		return []host.Option{{Text: val}}, nil
	case []any:
		opts := make([]host.Option, 0, len(val))
		for _, item := range val {
			opts = append(opts, host.Option{Text: fmt.Sprint(item)})
		}
		return opts, nil
	case nil:
		return nil, nil
	}
	return nil, typeMismatch(fieldID, "select", v)
}

func (t *Table) ReadCheckbox(ctx context.Context, fieldID, recordID string) (bool, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return false, emptyCell(fieldID, recordID)
	}
	return false, typeMismatch(fieldID, "checkbox", v)
}

func (t *Table) ReadDateTime(ctx context.Context, fieldID, recordID string) (time.Time, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return time.Time{}, err
	}
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), nil
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case string:
		ts, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, typeMismatch(fieldID, "datetime", v)
		}
		return ts, nil
	}
	return time.Time{}, typeMismatch(fieldID, "datetime", v)
}

func (t *Table) ReadAttachments(ctx context.Context, fieldID, recordID string) ([]host.Attachment, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, typeMismatch(fieldID, "attachment", v)
	}
	out := make([]host.Attachment, 0, len(items))
	for _, item := range items {
		switch a := item.(type) {
		case string:
			out = append(out, host.Attachment{Name: a})
		case map[string]any:
			out = append(out, host.Attachment{
				Token: stringOf(a["token"]),
				Name:  stringOf(a["name"]),
				URL:   stringOf(a["url"]),
			})
		}
	}
	return out, nil
}

func (t *Table) ReadUsers(ctx context.Context, fieldID, recordID string) ([]host.User, error) {
	v, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		switch u := v.(type) {
		case nil:
			return nil, nil
		case string:
			return []host.User{{Name: u}}, nil
		}
		return nil, typeMismatch(fieldID, "user", v)
	}
	out := make([]host.User, 0, len(items))
	for _, item := range items {
		switch u := item.(type) {
		case string:
			out = append(out, host.User{Name: u})
		case map[string]any:
			out = append(out, host.User{
				ID:    stringOf(u["id"]),
				Name:  stringOf(u["name"]),
				Email: stringOf(u["email"]),
			})
		}
	}
	return out, nil
}

// emptyCell reports a cell without a value to the scalar readers.
func emptyCell(fieldID, recordID string) error {
	return fmt.Errorf("field %s of record %s is empty: %w", fieldID, recordID, host.ErrNotFound)
}

func typeMismatch(fieldID, want string, got any) error {
	return fmt.Errorf("field %s: cannot read %T as %s", fieldID, got, want)
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func copyValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
