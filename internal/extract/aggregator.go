package extract

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/model"
	"gitlab.com/shar-workflow/iflowscan/server/errors/keys"
	"golang.org/x/sync/errgroup"
)

// DecodeFailureFn is notified when a non-blank header table cannot be parsed.
// It may be called from several goroutines at once.
type DecodeFailureFn func(ca *model.CallActivity)

type options struct {
	concurrency   int
	decodeFailure DecodeFailureFn
}

// Option configures an extraction.
type Option interface {
	configure(o *options)
}

// Concurrency sets how many call activities are extracted in parallel.  Values below 1 select GOMAXPROCS.
func Concurrency(n int) concurrencyOption { //nolint
	return concurrencyOption{value: n}
}

type concurrencyOption struct{ value int }

func (o concurrencyOption) configure(opts *options) {
	opts.concurrency = o.value
}

// WithDecodeFailureHook registers a function to observe header tables that could not be parsed.
func WithDecodeFailureHook(fn DecodeFailureFn) decodeFailureOption { //nolint
	return decodeFailureOption{value: fn}
}

type decodeFailureOption struct{ value DecodeFailureFn }

func (o decodeFailureOption) configure(opts *options) {
	opts.decodeFailure = o.value
}

// Extract produces the resolved header records of a document.
// Records follow call activity extraction order, and rows keep their order within a call activity.
// A call activity with a blank header table contributes a single sentinel record.
// The only failure is a document without processes, which wraps errors.ErrMalformedDocument.
func Extract(ctx context.Context, defs *model.Definitions, params model.ParameterMap, opts ...Option) ([]model.ResolvedHeaderRecord, error) {
	o := &options{}
	for _, i := range opts {
		i.configure(o)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}

	cas, err := CallActivities(defs)
	if err != nil {
		return nil, fmt.Errorf("extract headers: %w", err)
	}

	slots := make([][]model.ResolvedHeaderRecord, len(cas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, ca := range cas {
		i, ca := i, ca
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = extractCallActivity(gctx, ca, params, o.decodeFailure)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract headers: %w", err)
	}

	n := 0
	for _, s := range slots {
		n += len(s)
	}
	ret := make([]model.ResolvedHeaderRecord, 0, n)
	for _, s := range slots {
		ret = append(ret, s...)
	}
	return ret, nil
}

func extractCallActivity(ctx context.Context, ca *model.CallActivity, params model.ParameterMap, onFailure DecodeFailureFn) []model.ResolvedHeaderRecord {
	id, name := ca.DisplayID(), ca.DisplayName()
	var ret []model.ResolvedHeaderRecord
	for _, raw := range ca.PropertiesWithKey(model.PropertyHeaderTable) {
		lctx := logx.NewContext(ctx, logx.FromContext(ctx).With(keys.CallActivityID, id, keys.CallActivityName, name))
		rows, failed := decode(lctx, raw)
		if failed && onFailure != nil {
			onFailure(ca)
		}
		for _, row := range rows {
			res := Resolve(row.Value, params)
			ret = append(ret, model.ResolvedHeaderRecord{
				CallActivityID:   id,
				CallActivityName: name,
				HeaderName:       row.Name,
				RawValue:         row.Value,
				ResolvedValue:    res.ResolvedValue,
				IsPlaceholder:    res.IsPlaceholder,
				ResolvedFrom:     res.ResolvedFrom,
				Action:           row.Action,
				SourceType:       row.Type,
			})
		}
		if len(rows) == 0 && strings.TrimSpace(raw) == "" {
			ret = append(ret, model.SentinelRecord(id, name))
		}
	}
	return ret
}
