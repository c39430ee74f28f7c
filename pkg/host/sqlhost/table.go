package sqlhost

import (
	"context"
	"errors"
	"fmt"

	"ai-tablechat-be/pkg/host"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Table struct {
	db      *gorm.DB
	name    string
	fields  []host.FieldMeta
	keyName string
}

var (
	_ host.Table            = (*Table)(nil)
	_ host.RecordByIDGetter = (*Table)(nil)
)

func (t *Table) ID() string { return t.name }

func (t *Table) GetName(ctx context.Context) (string, error) { return t.name, nil }

func (t *Table) GetViewMetaList(ctx context.Context) ([]host.ViewMeta, error) {
	return []host.ViewMeta{{ID: defaultViewID, Name: "All rows"}}, nil
}

func (t *Table) GetFieldMetaList(ctx context.Context) ([]host.FieldMeta, error) {
	if t.fields != nil {
		return t.fields, nil
	}
	columns, err := t.db.WithContext(ctx).Migrator().ColumnTypes(t.name)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", t.name, err)
	}
	fields := make([]host.FieldMeta, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, host.FieldMeta{ID: c.Name(), Name: c.Name(), Type: columnType(c.DatabaseTypeName())})
		if pk, ok := c.PrimaryKey(); ok && pk && t.keyName == "" {
			t.keyName = c.Name()
		}
	}
	if t.keyName == "" && len(fields) > 0 {
		t.keyName = fields[0].ID
	}
	t.fields = fields
	return fields, nil
}

func (t *Table) key(ctx context.Context) (string, error) {
	if _, err := t.GetFieldMetaList(ctx); err != nil {
		return "", err
	}
	if t.keyName == "" {
		return "", fmt.Errorf("table %s has no columns", t.name)
	}
	return t.keyName, nil
}

func (t *Table) query(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t *Table) GetRecordIDList(ctx context.Context) ([]string, error) {
	key, err := t.key(ctx)
	if err != nil {
		return nil, err
	}
	var ids []any
	if err := t.query(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: key}}).Pluck(key, &ids).Error; err != nil {
		return nil, fmt.Errorf("list record ids of %s: %w", t.name, err)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprint(plain(id)))
	}
	return out, nil
}

func (t *Table) GetRecords(ctx context.Context, viewID string) ([]host.TableRecord, error) {
	if viewID != defaultViewID {
		return nil, fmt.Errorf("view %s: %w", viewID, host.ErrNotFound)
	}
	key, err := t.key(ctx)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := t.query(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: key}}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list records of %s: %w", t.name, err)
	}
	records := make([]host.TableRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, host.TableRecord{
			RecordID: fmt.Sprint(plain(row[key])),
			Fields:   plainRow(row),
		})
	}
	return records, nil
}

func (t *Table) GetRecordByID(ctx context.Context, recordID string) (map[string]any, error) {
	key, err := t.key(ctx)
	if err != nil {
		return nil, err
	}
	row := map[string]any{}
	err = t.query(ctx).Where(clause.Eq{Column: clause.Column{Name: key}, Value: recordID}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("record %s: %w", recordID, host.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	return plainRow(row), nil
}

func (t *Table) GetCellValue(ctx context.Context, fieldID, recordID string) (any, error) {
	fields, err := t.GetFieldMetaList(ctx)
	if err != nil {
		return nil, err
	}
	known := false
	for _, f := range fields {
		if f.ID == fieldID {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("field %s: %w", fieldID, host.ErrNotFound)
	}
	row, err := t.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return row[fieldID], nil
}

// plain converts driver byte slices to strings.
func plain(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func plainRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = plain(v)
	}
	return out
}
