package openapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ai-tablechat-be/pkg/host"
)

// Table is a host.Table over the open API. Records come back keyed by field
// name; GetCellValue maps the field ID through the field list.
type Table struct {
	client *Client
	id     string
	name   string
	fields []host.FieldMeta
}

var (
	_ host.Table              = (*Table)(nil)
	_ host.CellByNameReader   = (*Table)(nil)
	_ host.RecordByIDGetter   = (*Table)(nil)
	_ host.RecordsByIDsGetter = (*Table)(nil)
)

func (t *Table) ID() string { return t.id }

func (t *Table) GetName(ctx context.Context) (string, error) { return t.name, nil }

func (t *Table) GetViewMetaList(ctx context.Context) ([]host.ViewMeta, error) {
	items, err := list[apiView](ctx, t.client, t.client.tablesPath(t.id, "views"), nil)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	views := make([]host.ViewMeta, 0, len(items))
	for _, v := range items {
		views = append(views, host.ViewMeta{ID: v.ViewID, Name: v.ViewName})
	}
	return views, nil
}

func (t *Table) GetFieldMetaList(ctx context.Context) ([]host.FieldMeta, error) {
	if t.fields != nil {
		return t.fields, nil
	}
	items, err := list[apiField](ctx, t.client, t.client.tablesPath(t.id, "fields"), nil)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	fields := make([]host.FieldMeta, 0, len(items))
	for _, f := range items {
		fields = append(fields, host.FieldMeta{ID: f.FieldID, Name: f.FieldName, Type: fieldType(f)})
	}
	t.fields = fields
	return fields, nil
}

func (t *Table) listRecords(ctx context.Context, viewID string) ([]apiRecord, error) {
	query := url.Values{}
	if viewID != "" {
		query.Set("view_id", viewID)
	}
	items, err := list[apiRecord](ctx, t.client, t.client.tablesPath(t.id, "records"), query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return items, nil
}

func (t *Table) GetRecordIDList(ctx context.Context) ([]string, error) {
	items, err := t.listRecords(ctx, "")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.RecordID)
	}
	return ids, nil
}

func (t *Table) GetRecords(ctx context.Context, viewID string) ([]host.TableRecord, error) {
	items, err := t.listRecords(ctx, viewID)
	if err != nil {
		return nil, err
	}
	records := make([]host.TableRecord, 0, len(items))
	for _, r := range items {
		fields := r.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		records = append(records, host.TableRecord{RecordID: r.RecordID, Fields: fields})
	}
	return records, nil
}

func (t *Table) GetRecordByID(ctx context.Context, recordID string) (map[string]any, error) {
	var out struct {
		Record apiRecord `json:"record"`
	}
	path := t.client.tablesPath(t.id, "records", recordID)
	if err := t.client.do(ctx, http.MethodGet, path, url.Values{}, nil, &out); err != nil {
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	return out.Record.Fields, nil
}

func (t *Table) GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]host.TableRecord, error) {
	var out struct {
		Records []apiRecord `json:"records"`
	}
	body := map[string]any{"record_ids": recordIDs}
	path := t.client.tablesPath(t.id, "records", "batch_get")
	if err := t.client.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, fmt.Errorf("batch get records: %w", err)
	}
	records := make([]host.TableRecord, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, host.TableRecord{RecordID: r.RecordID, Fields: r.Fields})
	}
	return records, nil
}

func (t *Table) GetCellValue(ctx context.Context, fieldID, recordID string) (any, error) {
	fields, err := t.GetFieldMetaList(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.ID == fieldID {
			return t.GetCellValueByName(ctx, f.Name, recordID)
		}
	}
	return nil, fmt.Errorf("field %s: %w", fieldID, host.ErrNotFound)
}

func (t *Table) GetCellValueByName(ctx context.Context, fieldName, recordID string) (any, error) {
	values, err := t.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return values[fieldName], nil
}
