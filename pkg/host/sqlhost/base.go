// Package sqlhost exposes the tables of a SQL database as a host base. Each
// table has a single synthetic view and its primary key is the record ID.
package sqlhost

import (
	"context"
	"fmt"
	"strings"

	"ai-tablechat-be/pkg/host"

	"gorm.io/gorm"
)

const defaultViewID = "all"

type Base struct {
	db *gorm.DB
}

var _ host.Base = (*Base)(nil)

func NewBase(db *gorm.DB) *Base {
	return &Base{db: db}
}

func (b *Base) GetTableMetaList(ctx context.Context) ([]host.TableMeta, error) {
	names, err := b.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	metas := make([]host.TableMeta, 0, len(names))
	for _, n := range names {
		metas = append(metas, host.TableMeta{ID: n, Name: n})
	}
	return metas, nil
}

func (b *Base) GetTable(ctx context.Context, tableID string) (host.Table, error) {
	if !b.db.WithContext(ctx).Migrator().HasTable(tableID) {
		return nil, fmt.Errorf("table %s: %w", tableID, host.ErrNotFound)
	}
	return &Table{db: b.db, name: tableID}, nil
}

// columnType maps a database type name to a host field type.
func columnType(dbType string) host.FieldType {
	t := strings.ToLower(dbType)
	switch {
	case strings.Contains(t, "money"):
		return host.FieldTypeCurrency
	case strings.Contains(t, "bool"):
		return host.FieldTypeCheckbox
	case strings.Contains(t, "timestamp"), strings.Contains(t, "date"), strings.Contains(t, "time"):
		return host.FieldTypeDateTime
	case strings.Contains(t, "int"), strings.Contains(t, "numeric"), strings.Contains(t, "decimal"),
		strings.Contains(t, "float"), strings.Contains(t, "double"), strings.Contains(t, "real"):
		return host.FieldTypeNumber
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "uuid"):
		return host.FieldTypeText
	}
	return host.FieldTypeUnknown
}
