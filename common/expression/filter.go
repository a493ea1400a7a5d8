package expression

import (
	"context"
	"fmt"
	"strings"

	"github.com/antonmedv/expr"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// RecordFilter selects header records with a boolean expression.
// Expressions may refer to iflow, callActivityId, callActivityName, headerName, rawValue,
// resolvedValue, isPlaceholder, resolvedFrom, action and sourceType.
type RecordFilter struct {
	src string
	eng Engine
}

// NewRecordFilter compiles a record filter.  An empty expression matches every record.
func NewRecordFilter(src string) (*RecordFilter, error) {
	src = strings.TrimPrefix(strings.TrimSpace(src), "=")
	f := &RecordFilter{src: src, eng: &ExprEngine{}}
	if src == "" {
		return f, nil
	}
	vars, err := GetVariables(context.Background(), f.eng, src)
	if err != nil {
		return nil, fmt.Errorf("parse filter %q: %s: %w", src, err.Error(), errors2.ErrBadFilter)
	}
	env := recordEnv("", model.ResolvedHeaderRecord{})
	for _, v := range vars {
		if _, ok := env[v.Name]; !ok {
			return nil, fmt.Errorf("filter %q refers to unknown field %q: %w", src, v.Name, errors2.ErrBadFilter)
		}
	}
	if _, err := expr.Compile(src, expr.Env(env), expr.AsBool()); err != nil {
		return nil, fmt.Errorf("compile filter %q: %s: %w", src, err.Error(), errors2.ErrBadFilter)
	}
	return f, nil
}

// Match reports whether the record of the named iFlow satisfies the filter.
func (f *RecordFilter) Match(ctx context.Context, iflow string, r model.ResolvedHeaderRecord) (bool, error) {
	if f.src == "" {
		return true, nil
	}
	ok, err := Eval[bool](ctx, f.eng, f.src, recordEnv(iflow, r))
	if err != nil {
		return false, fmt.Errorf("run filter %q: %w", f.src, err)
	}
	return ok, nil
}

// Apply returns the records that satisfy the filter, in their original order.
func (f *RecordFilter) Apply(ctx context.Context, iflow string, records []model.ResolvedHeaderRecord) ([]model.ResolvedHeaderRecord, error) {
	if f.src == "" {
		return records, nil
	}
	ret := make([]model.ResolvedHeaderRecord, 0, len(records))
	for _, r := range records {
		ok, err := f.Match(ctx, iflow, r)
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, r)
		}
	}
	return ret, nil
}

func recordEnv(iflow string, r model.ResolvedHeaderRecord) map[string]interface{} {
	return map[string]interface{}{
		"iflow":            iflow,
		"callActivityId":   r.CallActivityID,
		"callActivityName": r.CallActivityName,
		"headerName":       r.HeaderName,
		"rawValue":         r.RawValue,
		"resolvedValue":    r.ResolvedValue,
		"isPlaceholder":    r.IsPlaceholder,
		"resolvedFrom":     r.ResolvedFrom.String(),
		"action":           r.Action,
		"sourceType":       r.SourceType,
	}
}
