// Package tabledata reads table rows from the host for the chat context.
package tabledata

import (
	"context"
	"errors"
	"fmt"

	"ai-tablechat-be/pkg/extraction"
	"ai-tablechat-be/pkg/host"
)

// ErrNoView is returned when the requested table has no view to read from.
var ErrNoView = errors.New("no view found for table")

// TableData is the result of one FetchRecords call.
type TableData struct {
	TableID   string
	TableName string
	ViewID    string
	Fields    []host.FieldMeta
	Records   []host.TableRecord
}

// Adapter wraps the host calls used to enumerate tables and read records.
type Adapter struct {
	base host.Base
}

func NewAdapter(base host.Base) *Adapter {
	return &Adapter{base: base}
}

// Base exposes the underlying host connection.
func (a *Adapter) Base() host.Base {
	return a.base
}

func (a *Adapter) ListTables(ctx context.Context) ([]host.TableMeta, error) {
	tables, err := a.base.GetTableMetaList(ctx)
	if err != nil {
		return nil, retrievalError(err)
	}
	return tables, nil
}

// Table resolves a table handle.
func (a *Adapter) Table(ctx context.Context, tableID string) (host.Table, error) {
	table, err := a.base.GetTable(ctx, tableID)
	if err != nil {
		return nil, retrievalError(err)
	}
	return table, nil
}

// FetchRecords resolves the table, selects its first view and returns every
// record of that view keyed by field name.
func (a *Adapter) FetchRecords(ctx context.Context, tableID string) (*TableData, error) {
	table, err := a.base.GetTable(ctx, tableID)
	if err != nil {
		return nil, retrievalError(err)
	}

	name, err := table.GetName(ctx)
	if err != nil {
		return nil, retrievalError(err)
	}

	views, err := table.GetViewMetaList(ctx)
	if err != nil {
		return nil, retrievalError(err)
	}
	if len(views) == 0 {
		return nil, retrievalError(fmt.Errorf("%w %s", ErrNoView, tableID))
	}
	view := views[0]

	fields, err := table.GetFieldMetaList(ctx)
	if err != nil {
		return nil, retrievalError(err)
	}

	raw, err := table.GetRecords(ctx, view.ID)
	if err != nil {
		return nil, retrievalError(err)
	}

	records := make([]host.TableRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, host.TableRecord{
			RecordID: r.RecordID,
			Fields:   host.KeyByName(r.Fields, fields),
		})
	}

	return &TableData{
		TableID:   tableID,
		TableName: name,
		ViewID:    view.ID,
		Fields:    fields,
		Records:   records,
	}, nil
}

// Incomplete reports whether the table declares fields but at least one
// record came back without any usable value.
func Incomplete(data *TableData) bool {
	if data == nil || len(data.Fields) == 0 {
		return false
	}
	for _, r := range data.Records {
		if extraction.CountUsable(r.Fields) == 0 {
			return true
		}
	}
	return false
}

func retrievalError(err error) error {
	return fmt.Errorf("failed to retrieve table data: %w", err)
}
