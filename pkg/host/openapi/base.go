package openapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ai-tablechat-be/pkg/host"
)

type apiTable struct {
	TableID string `json:"table_id"`
	Name    string `json:"name"`
}

type apiView struct {
	ViewID   string `json:"view_id"`
	ViewName string `json:"view_name"`
}

type apiField struct {
	FieldID   string `json:"field_id"`
	FieldName string `json:"field_name"`
	Type      int    `json:"type"`
	UIType    string `json:"ui_type"`
}

type apiRecord struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

// Base is a host.Base over the open API.
type Base struct {
	client *Client
}

var (
	_ host.Base             = (*Base)(nil)
	_ host.BaseRecordReader = (*Base)(nil)
)

func NewBase(cfg Config) *Base {
	return &Base{client: NewClient(cfg)}
}

func (b *Base) GetTableMetaList(ctx context.Context) ([]host.TableMeta, error) {
	items, err := list[apiTable](ctx, b.client, b.client.tablesPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	metas := make([]host.TableMeta, 0, len(items))
	for _, t := range items {
		metas = append(metas, host.TableMeta{ID: t.TableID, Name: t.Name})
	}
	return metas, nil
}

// GetTable resolves the table's name from the table list.
func (b *Base) GetTable(ctx context.Context, tableID string) (host.Table, error) {
	tables, err := b.GetTableMetaList(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.ID == tableID {
			return &Table{client: b.client, id: t.ID, name: t.Name}, nil
		}
	}
	return nil, fmt.Errorf("table %s: %w", tableID, host.ErrNotFound)
}

func (b *Base) GetRecord(ctx context.Context, tableID, recordID string) (map[string]any, error) {
	var out struct {
		Record apiRecord `json:"record"`
	}
	path := b.client.tablesPath(tableID, "records", recordID)
	if err := b.client.do(ctx, http.MethodGet, path, url.Values{}, nil, &out); err != nil {
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	return out.Record.Fields, nil
}

// fieldType maps the API's numeric type (refined by ui_type for numbers).
func fieldType(f apiField) host.FieldType {
	switch f.Type {
	case 1:
		return host.FieldTypeText
	case 2:
		switch f.UIType {
		case "Currency":
			return host.FieldTypeCurrency
		case "Progress", "Percent":
			return host.FieldTypePercent
		}
		return host.FieldTypeNumber
	case 3:
		return host.FieldTypeSingleSelect
	case 4:
		return host.FieldTypeMultiSelect
	case 5:
		return host.FieldTypeDateTime
	case 7:
		return host.FieldTypeCheckbox
	case 11:
		return host.FieldTypeUser
	case 13:
		return host.FieldTypePhone
	case 15:
		return host.FieldTypeURL
	case 17:
		return host.FieldTypeAttachment
	case 1001:
		return host.FieldTypeCreatedTime
	case 1002:
		return host.FieldTypeModifiedTime
	case 1003:
		return host.FieldTypeCreatedUser
	case 1004:
		return host.FieldTypeModifiedUser
	}
	return host.FieldTypeUnknown
}
