package extraction

import (
	"context"
	"fmt"

	"ai-tablechat-be/pkg/host"
)

// DeepExploration probes the base connection rather than the table handle,
// with (tableID), (tableID, recordID) and (tableID, recordID, fieldID|fieldName).
type DeepExploration struct{}

func (DeepExploration) Name() string { return MethodDeep }

func (DeepExploration) Extract(ctx context.Context, src *Source, recordID string) (Result, error) {
	res := newResult(MethodDeep)
	log := &probeLog{}
	res.Debug["probes"] = log

	if src.Base == nil || src.Table == nil {
		res.Debug["skipped"] = "no base connection"
		return res.finish(), nil
	}
	tableID := src.Table.ID()

	if dumper, ok := src.Base.(host.BaseTableDumper); ok {
		v, found := log.try(fmt.Sprintf("getTableData(%s)", tableID), func() (any, bool, error) {
			data, err := dumper.GetTableData(ctx, tableID)
			if err != nil {
				return nil, true, err
			}
			row, ok := data[recordID]
			if !ok {
				return nil, true, nil
			}
			return row, true, nil
		})
		if found {
			if fields, ok := fieldsFromRecord(v, src.Fields); ok {
				mergeCandidates(res.Fields, fields)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if reader, ok := src.Base.(host.BaseRecordReader); ok {
		v, found := log.try(fmt.Sprintf("getRecord(%s, %s)", tableID, recordID), func() (any, bool, error) {
			m, err := reader.GetRecord(ctx, tableID, recordID)
			if err != nil || m == nil {
				return nil, true, err
			}
			return m, true, nil
		})
		if found {
			if fields, ok := fieldsFromRecord(v, src.Fields); ok {
				mergeCandidates(res.Fields, fields)
			}
		}
	}

	if reader, ok := src.Base.(host.BaseCellReader); ok {
		for _, f := range sampleFields(src.Fields) {
			for _, key := range []string{f.ID, f.Name} {
				if err := ctx.Err(); err != nil {
					return Result{}, err
				}
				if Usable(res.Fields[f.Name]) {
					break
				}
				v, found := log.try(fmt.Sprintf("getCellValue(%s, %s, %s)", tableID, recordID, key), func() (any, bool, error) {
					v, err := reader.GetCellValue(ctx, tableID, recordID, key)
					return v, true, err
				})
				if found {
					res.Fields[f.Name] = Normalize(f.Type, v)
				}
			}
		}
	}

	return res.finish(), nil
}
