package memory

import (
	"fmt"
	"os"

	"ai-tablechat-be/pkg/host"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML layout of an in-memory base.
//
//	tables:
//	  - id: tblPeople
//	    name: People
//	    views: [{id: vewGrid, name: Grid}]
//	    fields:
//	      - {id: fldName, name: Name, type: text}
//	    records:
//	      - id: rec1
//	        fields: {fldName: Alice}
type Fixture struct {
	Tables []TableFixture `yaml:"tables"`
}

type TableFixture struct {
	ID     string           `yaml:"id"`
	Name   string           `yaml:"name"`
	Views  []host.ViewMeta  `yaml:"views"`
	Fields []host.FieldMeta `yaml:"fields"`
	// HideRecordValues makes GetRecords return records without field values,
	// reproducing hosts whose list API omits cell data.
	HideRecordValues bool            `yaml:"hide_record_values"`
	Records          []RecordFixture `yaml:"records"`
}

type RecordFixture struct {
	ID     string         `yaml:"id"`
	Fields map[string]any `yaml:"fields"`
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads and decodes a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}
