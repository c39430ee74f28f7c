package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"ai-tablechat-be/internal/config"
	"ai-tablechat-be/pkg/database"
	"ai-tablechat-be/pkg/extraction"
	"ai-tablechat-be/pkg/host"
	"ai-tablechat-be/pkg/host/memory"
	"ai-tablechat-be/pkg/host/sqlhost"
	"ai-tablechat-be/pkg/tabledata"
)

// Loads a YAML fixture into the postgres database used by HOST_PROVIDER=sql.
func main() {
	cfg := config.Load()

	fixturePath := flag.String("fixture", cfg.Host.FixturePath, "fixture file to import")
	flag.Parse()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	fixture, err := memory.LoadFixture(*fixturePath)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	ctx := context.Background()
	adapter := tabledata.NewAdapter(memory.NewBase(fixture))

	tables, err := adapter.ListTables(ctx)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	for _, meta := range tables {
		data, err := adapter.FetchRecords(ctx, meta.ID)
		if err != nil {
			log.Printf("Warn: skipping %s: %v", meta.Name, err)
			continue
		}
		if err := sqlhost.Import(ctx, db, tableName(data.TableName), data.Fields, flatten(data)); err != nil {
			log.Fatalf("Error: failed to import %s: %v", meta.Name, err)
		}
		log.Printf("Imported %s (%d records)", data.TableName, len(data.Records))
	}

	log.Println("Import completed successfully!")
}

// tableName turns a display name into a lowercase SQL identifier.
func tableName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// flatten normalizes cell values so they fit scalar columns.
func flatten(data *tabledata.TableData) []host.TableRecord {
	types := make(map[string]host.FieldType, len(data.Fields))
	for _, f := range data.Fields {
		types[f.Name] = f.Type
	}

	out := make([]host.TableRecord, 0, len(data.Records))
	for _, r := range data.Records {
		values := make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			switch n := extraction.Normalize(types[k], v).(type) {
			case []string:
				values[k] = strings.Join(n, ", ")
			case []any:
				// Unrecognized structured value.
				continue
			default:
				values[k] = n
			}
		}
		out = append(out, host.TableRecord{RecordID: r.RecordID, Fields: values})
	}
	return out
}
