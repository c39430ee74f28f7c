package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-tablechat-be/pkg/host"
)

// DirectCellAccess reads every field of the record cell by cell: by field ID,
// then by field name, then through the accessor matching the field's type.
// The first non-nil value wins.
type DirectCellAccess struct{}

func (DirectCellAccess) Name() string { return MethodDirect }

func (DirectCellAccess) Extract(ctx context.Context, src *Source, recordID string) (Result, error) {
	res := newResult(MethodDirect)
	errs := map[string]string{}
	sources := map[string]string{}

	for _, f := range src.Fields {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		v, via, notes := readCell(ctx, src.Table, f, recordID)
		res.Fields[f.Name] = v
		if v == nil {
			errs[f.Name] = strings.Join(notes, "; ")
			continue
		}
		sources[f.Name] = via
	}

	res.Debug["sources"] = sources
	if len(errs) > 0 {
		res.Debug["errors"] = errs
	}
	return res.finish(), nil
}

func readCell(ctx context.Context, table host.Table, f host.FieldMeta, recordID string) (any, string, []string) {
	var notes []string

	v, err := call(func() (any, error) { return table.GetCellValue(ctx, f.ID, recordID) })
	if err == nil && v != nil {
		return Normalize(f.Type, v), "id", nil
	}
	notes = append(notes, note("by id", err))

	if r, ok := table.(host.CellByNameReader); ok {
		v, err := call(func() (any, error) { return r.GetCellValueByName(ctx, f.Name, recordID) })
		if err == nil && v != nil {
			return Normalize(f.Type, v), "name", nil
		}
		notes = append(notes, note("by name", err))
	}

	if r, ok := table.(host.TypedFieldReader); ok {
		v, err := call(func() (any, error) { return readTyped(ctx, r, f, recordID) })
		if err == nil && v != nil {
			return Normalize(f.Type, v), "typed", nil
		}
		notes = append(notes, note("typed "+f.Type.String(), err))
	}

	return nil, "", notes
}

// readTyped dispatches on the declared field type. Zero results from the
// collection and text accessors are reported as nil.
func readTyped(ctx context.Context, r host.TypedFieldReader, f host.FieldMeta, recordID string) (any, error) {
	switch {
	case f.Type.IsNumeric():
		return r.ReadNumber(ctx, f.ID, recordID)
	case f.Type.IsSelect():
		opts, err := r.ReadSelect(ctx, f.ID, recordID)
		if err != nil || len(opts) == 0 {
			return nil, err
		}
		return opts, nil
	case f.Type == host.FieldTypeCheckbox:
		return r.ReadCheckbox(ctx, f.ID, recordID)
	case f.Type.IsTime():
		ts, err := r.ReadDateTime(ctx, f.ID, recordID)
		if err != nil || ts.IsZero() {
			return nil, err
		}
		return ts, nil
	case f.Type == host.FieldTypeAttachment:
		files, err := r.ReadAttachments(ctx, f.ID, recordID)
		if err != nil || len(files) == 0 {
			return nil, err
		}
		return files, nil
	case f.Type.IsUser():
		users, err := r.ReadUsers(ctx, f.ID, recordID)
		if err != nil || len(users) == 0 {
			return nil, err
		}
		return users, nil
	default:
		text, err := r.ReadText(ctx, f.ID, recordID)
		if err != nil || text == "" {
			return nil, err
		}
		return text, nil
	}
}

func note(step string, err error) string {
	if err == nil {
		return step + ": empty"
	}
	if errors.Is(err, host.ErrNotFound) {
		return step + ": not found"
	}
	return fmt.Sprintf("%s: %v", step, err)
}
