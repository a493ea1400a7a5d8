package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/segmentio/ksuid"
	"gitlab.com/shar-workflow/iflowscan/client/parser"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"gitlab.com/shar-workflow/iflowscan/common/valueparsing"
	"gitlab.com/shar-workflow/iflowscan/internal/artifact"
	"gitlab.com/shar-workflow/iflowscan/internal/extract"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"gitlab.com/shar-workflow/iflowscan/server/errors/keys"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Source provides integration flow artifacts by ID.
type Source interface {
	Fetch(ctx context.Context, iflowID string) (*artifact.Artifact, error)
}

// ZipFileSource reads artifacts from zip files on disk.
// An ID names <Dir>/<ID>.zip and must not leave Dir.
type ZipFileSource struct {
	Dir string
	// AllowPaths lets an ID ending in .zip name an archive anywhere on disk.
	AllowPaths bool
}

// Fetch loads the archive named by iflowID.
func (s ZipFileSource) Fetch(_ context.Context, iflowID string) (*artifact.Artifact, error) {
	path, err := s.path(iflowID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if s.AllowPaths {
			return nil, fmt.Errorf("locate artifact %s: %w", iflowID, err)
		}
		return nil, fmt.Errorf("locate artifact %s: %w", iflowID, errors2.ErrArtifactNotFound)
	}
	a, err := artifact.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", iflowID, err)
	}
	return a, nil
}

func (s ZipFileSource) path(iflowID string) (string, error) {
	isZip := strings.EqualFold(filepath.Ext(iflowID), ".zip")
	if s.AllowPaths && isZip {
		return iflowID, nil
	}
	if iflowID == "" || filepath.IsAbs(iflowID) || filepath.VolumeName(iflowID) != "" ||
		strings.ContainsAny(iflowID, `/\`) || strings.Contains(iflowID, "..") {
		return "", fmt.Errorf("artifact %q: %w", iflowID, errors2.ErrBadIflowID)
	}
	name := iflowID
	if !isZip {
		name += ".zip"
	}
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", fmt.Errorf("resolve artifact directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if rel, err := filepath.Rel(dir, path); err != nil || rel != name {
		return "", fmt.Errorf("artifact %q: %w", iflowID, errors2.ErrBadIflowID)
	}
	return path, nil
}

// Runner extracts header records from a batch of artifacts.
type Runner struct {
	source         Source
	concurrency    int
	extractWorkers int
	tracer         trace.Tracer
}

// NewRunner creates a Runner over the given artifact source.
func NewRunner(src Source, opts ...Option) *Runner {
	r := &Runner{
		source:      src,
		concurrency: 4,
	}
	for _, i := range opts {
		i.configure(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	if r.tracer == nil {
		r.tracer = telemetry.Tracer(nil)
	}
	return r
}

// Run extracts every artifact in ids.
// A failing artifact is recorded in the result and does not stop the others.
// Results follow the order of ids.
func (r *Runner) Run(ctx context.Context, ids []string) *model.BatchResult {
	runID := ksuid.New().String()
	ctx, log := logx.LoggingEntrypoint(ctx, "batch", runID)
	ctx, span := r.tracer.Start(ctx, "batch.run", trace.WithAttributes(
		attribute.String(keys.RunID, runID),
		attribute.Int("artifacts", len(ids)),
	))
	defer span.End()
	log.Info("starting batch", "artifacts", len(ids))

	results := make([]*model.ArtifactResult, len(ids))
	errs := make([]error, len(ids))
	g := &errgroup.Group{}
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i], errs[i] = r.Process(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	ret := &model.BatchResult{RunID: runID, Succeeded: make([]*model.ArtifactResult, 0, len(ids))}
	for i, id := range ids {
		if errs[i] != nil {
			log.Error("artifact failed", keys.IflowName, id, "error", errs[i])
			ret.Failed = append(ret.Failed, model.ArtifactFailure{Iflow: id, Error: errs[i].Error()})
			continue
		}
		ret.Succeeded = append(ret.Succeeded, results[i])
	}
	sum := ret.Summary()
	span.SetAttributes(attribute.Int("processed", sum.Processed), attribute.Int("failed", sum.Failed))
	log.Info("batch complete", "processed", sum.Processed, "failed", sum.Failed)
	return ret
}

// Process extracts the header records of a single artifact.
func (r *Runner) Process(ctx context.Context, iflowID string) (*model.ArtifactResult, error) {
	ctx, span := r.tracer.Start(ctx, "artifact.extract", trace.WithAttributes(attribute.String(keys.IflowName, iflowID)))
	defer span.End()
	ret, err := r.process(ctx, iflowID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(keys.HeaderCount, len(ret.Records)), attribute.Int("decode_failures", ret.DecodeFailures))
	return ret, nil
}

func (r *Runner) process(ctx context.Context, iflowID string) (*model.ArtifactResult, error) {
	log := logx.FromContext(ctx).With(keys.IflowName, iflowID)
	ctx = logx.NewContext(ctx, log)

	a, err := r.source.Fetch(ctx, iflowID)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact: %w", err)
	}
	params := valueparsing.ParseProperties(a.Parameters)
	log.Debug("loaded parameters", keys.ParameterCount, params.Len(), keys.IflowFile, a.FlowFile)

	defs, err := parser.Parse(ctx, a.FlowFile, bytes.NewReader(a.Flow))
	if err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	var failures atomic.Int32
	opts := []extract.Option{
		extract.WithDecodeFailureHook(func(*model.CallActivity) { failures.Add(1) }),
	}
	if r.extractWorkers > 0 {
		opts = append(opts, extract.Concurrency(r.extractWorkers))
	}
	records, err := extract.Extract(ctx, defs, params, opts...)
	if err != nil {
		return nil, fmt.Errorf("extract artifact: %w", err)
	}
	log.Info("extracted headers", keys.HeaderCount, len(records))
	return &model.ArtifactResult{
		IflowName:      a.Name,
		FileName:       a.FlowFile,
		Records:        records,
		DecodeFailures: int(failures.Load()),
	}, nil
}
