package extraction

import (
	"context"

	"ai-tablechat-be/pkg/host"
)

// RecordBatchAccess fetches the record in one call. When the whole-record
// getter is missing or returns nothing, the host's other record/row
// operations are tried in order and every structured answer is merged.
type RecordBatchAccess struct{}

func (RecordBatchAccess) Name() string { return MethodBatch }

type recordOp struct {
	name string
	run  func(ctx context.Context, t host.Table, recordID string) (any, bool, error)
}

// recordOps lists the known record/row accessors in priority order. The bool
// reports whether the table implements the operation.
var recordOps = []recordOp{
	{"getRecord", func(ctx context.Context, t host.Table, id string) (any, bool, error) {
		r, ok := t.(host.RecordGetter)
		if !ok {
			return nil, false, nil
		}
		v, err := r.GetRecord(ctx, id)
		return v, true, err
	}},
	{"getRow", func(ctx context.Context, t host.Table, id string) (any, bool, error) {
		r, ok := t.(host.RowGetter)
		if !ok {
			return nil, false, nil
		}
		v, err := r.GetRow(ctx, id)
		return v, true, err
	}},
	{"getRecordsByIds", func(ctx context.Context, t host.Table, id string) (any, bool, error) {
		r, ok := t.(host.RecordsByIDsGetter)
		if !ok {
			return nil, false, nil
		}
		recs, err := r.GetRecordsByIDs(ctx, []string{id})
		if err != nil || len(recs) == 0 {
			return nil, true, err
		}
		return recs[0], true, nil
	}},
}

func (RecordBatchAccess) Extract(ctx context.Context, src *Source, recordID string) (Result, error) {
	res := newResult(MethodBatch)
	attempts := map[string]string{}
	res.Debug["attempts"] = attempts

	if getter, ok := src.Table.(host.RecordByIDGetter); ok {
		v, err := call(func() (any, error) { return getter.GetRecordByID(ctx, recordID) })
		if err != nil {
			attempts["getRecordById"] = err.Error()
		} else if values, ok := v.(map[string]any); ok && len(values) > 0 {
			if fields, ok := fieldsFromRecord(values, src.Fields); ok && len(fields) > 0 {
				attempts["getRecordById"] = "ok"
				res.Fields = fields
				return res.finish(), nil
			}
			attempts["getRecordById"] = "unmatched"
		} else {
			attempts["getRecordById"] = "empty"
		}
	}

	for _, op := range recordOps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var implemented bool
		v, err := call(func() (any, error) {
			v, ok, err := op.run(ctx, src.Table, recordID)
			implemented = ok
			return v, err
		})
		if !implemented && err == nil {
			continue
		}
		if err != nil {
			attempts[op.name] = err.Error()
			continue
		}
		fields, ok := fieldsFromRecord(v, src.Fields)
		if !ok {
			attempts[op.name] = "unstructured"
			continue
		}
		attempts[op.name] = "ok"
		mergeCandidates(res.Fields, fields)
	}

	return res.finish(), nil
}
