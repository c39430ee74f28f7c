package sqlhost

import (
	"context"
	"fmt"
	"strings"

	"ai-tablechat-be/pkg/host"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyColumn is the primary key column of imported tables.
const KeyColumn = "record_id"

// columnDDL maps a host field type to a postgres column type.
func columnDDL(ft host.FieldType) string {
	switch {
	case ft == host.FieldTypeCheckbox:
		return "boolean"
	case ft.IsNumeric():
		return "double precision"
	case ft.IsTime():
		return "timestamptz"
	}
	return "text"
}

// Import creates the table when missing and upserts the records, which must
// be keyed by field name. Existing rows with the same record ID are kept.
func Import(ctx context.Context, db *gorm.DB, table string, fields []host.FieldMeta, records []host.TableRecord) error {
	if table == "" {
		return fmt.Errorf("import: empty table name")
	}
	db = db.WithContext(ctx)

	columns := make([]string, 0, len(fields)+1)
	columns = append(columns, db.Statement.Quote(KeyColumn)+" text PRIMARY KEY")
	for _, f := range fields {
		if f.Name == KeyColumn {
			continue
		}
		columns = append(columns, db.Statement.Quote(f.Name)+" "+columnDDL(f.Type))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", db.Statement.Quote(table), strings.Join(columns, ", "))
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	if len(records) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		row := map[string]any{KeyColumn: r.RecordID}
		for _, f := range fields {
			if v, ok := r.Fields[f.Name]; ok && f.Name != KeyColumn {
				row[f.Name] = v
			}
		}
		rows = append(rows, row)
	}
	err := db.Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: KeyColumn}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
