package extraction

import (
	"context"
	"fmt"

	"ai-tablechat-be/pkg/host"
)

// RawExploration walks the table handle's known read operations: first the
// record-scoped ones with (recordID), then the cell-scoped ones with
// (recordID, fieldID) and (recordID, fieldName) for a few sample fields.
// Any non-nil answer becomes a candidate value.
type RawExploration struct{}

func (RawExploration) Name() string { return MethodRaw }

type tableRecordProbe struct {
	name string
	run  func(ctx context.Context, t host.Table, recordID string) (any, bool, error)
}

type tableCellProbe struct {
	name string
	run  func(ctx context.Context, t host.Table, recordID, fieldKey string) (any, bool, error)
}

var tableRecordProbes = []tableRecordProbe{
	{"getRecordById", func(ctx context.Context, t host.Table, id string) (any, bool, error) {
		r, ok := t.(host.RecordByIDGetter)
		if !ok {
			return nil, false, nil
		}
		v, err := r.GetRecordByID(ctx, id)
		return v, true, err
	}},
	{"getRecord", recordOps[0].run},
	{"getRow", recordOps[1].run},
}

var tableCellProbes = []tableCellProbe{
	{"getCellValue", func(ctx context.Context, t host.Table, recordID, key string) (any, bool, error) {
		v, err := t.GetCellValue(ctx, key, recordID)
		return v, true, err
	}},
	{"getCellValueByName", func(ctx context.Context, t host.Table, recordID, key string) (any, bool, error) {
		r, ok := t.(host.CellByNameReader)
		if !ok {
			return nil, false, nil
		}
		v, err := r.GetCellValueByName(ctx, key, recordID)
		return v, true, err
	}},
	{"getCellString", func(ctx context.Context, t host.Table, recordID, key string) (any, bool, error) {
		r, ok := t.(host.CellStringReader)
		if !ok {
			return nil, false, nil
		}
		s, err := r.GetCellString(ctx, key, recordID)
		if err != nil || s == "" {
			return nil, true, err
		}
		return s, true, nil
	}},
	{"getValue", func(ctx context.Context, t host.Table, recordID, key string) (any, bool, error) {
		r, ok := t.(host.ValueReader)
		if !ok {
			return nil, false, nil
		}
		v, err := r.GetValue(ctx, recordID, key)
		return v, true, err
	}},
}

func (RawExploration) Extract(ctx context.Context, src *Source, recordID string) (Result, error) {
	res := newResult(MethodRaw)
	log := &probeLog{}
	res.Debug["probes"] = log

	for _, p := range tableRecordProbes {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		v, ok := log.try(fmt.Sprintf("%s(%s)", p.name, recordID), func() (any, bool, error) {
			return p.run(ctx, src.Table, recordID)
		})
		if !ok {
			continue
		}
		if fields, structured := fieldsFromRecord(v, src.Fields); structured {
			mergeCandidates(res.Fields, fields)
		}
	}

	for _, f := range sampleFields(src.Fields) {
		for _, key := range []string{f.ID, f.Name} {
			for _, p := range tableCellProbes {
				if err := ctx.Err(); err != nil {
					return Result{}, err
				}
				if Usable(res.Fields[f.Name]) {
					break
				}
				v, ok := log.try(fmt.Sprintf("%s(%s, %s)", p.name, recordID, key), func() (any, bool, error) {
					return p.run(ctx, src.Table, recordID, key)
				})
				if ok {
					res.Fields[f.Name] = Normalize(f.Type, v)
				}
			}
		}
	}

	return res.finish(), nil
}

// probeLog records the outcome of every probe for the debug payload.
type probeLog struct {
	Entries []string `json:"entries"`
}

// try runs one probe and reports whether it produced a non-nil value.
// Operations the host does not implement are skipped silently.
func (l *probeLog) try(label string, fn func() (any, bool, error)) (any, bool) {
	var implemented bool
	v, err := call(func() (any, error) {
		v, ok, err := fn()
		implemented = ok
		return v, err
	})
	switch {
	case err != nil:
		l.Entries = append(l.Entries, label+" -> "+err.Error())
		return nil, false
	case !implemented:
		return nil, false
	case v == nil:
		l.Entries = append(l.Entries, label+" -> nil")
		return nil, false
	}
	l.Entries = append(l.Entries, label+" -> ok")
	return v, true
}
