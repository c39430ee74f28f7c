// Package chatcontext serializes a table into the system message used for chat.
package chatcontext

import (
	"encoding/json"
	"fmt"

	"ai-tablechat-be/pkg/host"
)

// Build renders the table name and its records as
//
//	Table: <name>
//	Data: <records as JSON>
func Build(tableName string, records []host.TableRecord) (string, error) {
	if records == nil {
		records = []host.TableRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("serialize records: %w", err)
	}
	return fmt.Sprintf("Table: %s\nData: %s", tableName, data), nil
}
