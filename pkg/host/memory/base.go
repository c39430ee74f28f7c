// Package memory is an in-process host backed by a YAML fixture.
package memory

import (
	"context"
	"fmt"

	"ai-tablechat-be/pkg/host"
)

type Base struct {
	tables []*Table
}

var (
	_ host.Base             = (*Base)(nil)
	_ host.BaseRecordReader = (*Base)(nil)
	_ host.BaseCellReader   = (*Base)(nil)
	_ host.BaseTableDumper  = (*Base)(nil)
)

// NewBase builds a base from a fixture. Record values may be keyed by field
// ID or field name; they are stored keyed by field ID.
func NewBase(f *Fixture) *Base {
	b := &Base{}
	if f == nil {
		return b
	}
	for _, tf := range f.Tables {
		b.tables = append(b.tables, newTable(tf))
	}
	return b
}

func (b *Base) GetTableMetaList(ctx context.Context) ([]host.TableMeta, error) {
	metas := make([]host.TableMeta, 0, len(b.tables))
	for _, t := range b.tables {
		metas = append(metas, host.TableMeta{ID: t.id, Name: t.name})
	}
	return metas, nil
}

func (b *Base) GetTable(ctx context.Context, tableID string) (host.Table, error) {
	t, err := b.table(tableID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (b *Base) table(tableID string) (*Table, error) {
	for _, t := range b.tables {
		if t.id == tableID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("table %s: %w", tableID, host.ErrNotFound)
}

func (b *Base) GetRecord(ctx context.Context, tableID, recordID string) (map[string]any, error) {
	t, err := b.table(tableID)
	if err != nil {
		return nil, err
	}
	return t.GetRecordByID(ctx, recordID)
}

func (b *Base) GetCellValue(ctx context.Context, tableID, recordID, fieldKey string) (any, error) {
	t, err := b.table(tableID)
	if err != nil {
		return nil, err
	}
	f, ok := t.field(fieldKey)
	if !ok {
		return nil, fmt.Errorf("field %s: %w", fieldKey, host.ErrNotFound)
	}
	return t.GetCellValue(ctx, f.ID, recordID)
}

func (b *Base) GetTableData(ctx context.Context, tableID string) (map[string]map[string]any, error) {
	t, err := b.table(tableID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any, len(t.order))
	for _, id := range t.order {
		out[id] = copyValues(t.records[id])
	}
	return out, nil
}
