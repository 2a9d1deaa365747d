package clone

import (
	"context"
	"maps"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/domclone/pkg/dom"
	"github.com/matzehuels/domclone/pkg/errors"
	pkgio "github.com/matzehuels/domclone/pkg/io"
)

// Result summarizes a clone run.
type Result struct {
	Batches  int           // Number of batches dispatched
	TopLevel int           // Subtrees attached under the destination root
	Stats    Stats         // Counts merged from every worker
	Duration time.Duration // Wall time of the clone phase
}

type batchResult struct {
	index    int
	builders []*dom.Builder
	stats    Stats
	duration time.Duration
}

// Clone deep-copies the children of src's root into a new document whose
// root has class opts.RootClass. File-level metadata is copied as is. src is only read and may be shared by
// concurrent callers.
//
// Each batch of top-level children is cloned by its own worker; a single
// goroutine attaches finished batches to the destination. If any worker
// fails, Clone waits for the rest and returns the first failure with no
// document. Cancelling ctx stops dispatching new batches.
func Clone(ctx context.Context, src *dom.Document, opts Options) (*dom.Document, *Result, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	logger := opts.Logger
	start := time.Now()

	dst := dom.New(dom.NewBuilder(opts.RootClass))
	res := &Result{}

	var root *dom.Instance
	if src != nil {
		root = src.Root()
		maps.Copy(dst.Metadata, src.Metadata)
	}
	if root == nil {
		logger.Warn("source has no root, producing empty copy")
		opts.Hooks.OnCloneStart(ctx, 0, 0)
		res.Duration = time.Since(start)
		opts.Hooks.OnCloneComplete(ctx, 0, 0, res.Duration, nil)
		return dst, res, nil
	}

	batches := partition(root.Children(), opts.BatchSize)
	res.Batches = len(batches)
	opts.Hooks.OnCloneStart(ctx, len(root.Children()), len(batches))
	logger.Debug("cloning", "top_level", len(root.Children()), "batches", len(batches), "workers", opts.Workers)

	results := make(chan batchResult, len(batches))
	var dispatchErr error

	go func() {
		defer close(results)
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i, batch := range batches {
			if err := ctx.Err(); err != nil {
				dispatchErr = err
				break
			}
			logger.Debug("dispatching batch", "batch", i, "size", len(batch))
			g.Go(func() error {
				r, err := cloneBatch(i, batch, src, opts.Generator)
				opts.Hooks.OnBatchComplete(ctx, i, r.stats.Instances, r.duration, err)
				if err != nil {
					logger.Error("batch failed", "batch", i, "err", err)
					return errors.Wrap(errors.ErrCodeWorkerFailure, err, "batch %d", i)
				}
				logger.Debug("batch complete", "batch", i, "instances", r.stats.Instances, "elapsed", r.duration)
				results <- r
				return nil
			})
		}
		if err := g.Wait(); err != nil && dispatchErr == nil {
			dispatchErr = err
		}
	}()

	var attachErr error
	attach := func(r batchResult) {
		for _, b := range r.builders {
			if _, err := dst.Insert(dst.RootRef(), b); err != nil {
				if attachErr == nil {
					attachErr = errors.Wrap(errors.ErrCodeInternal, err, "attach batch %d", r.index)
				}
				continue
			}
			res.TopLevel++
		}
		res.Stats.Add(r.stats)
	}

	pending := make(map[int]batchResult)
	next := 0
	for r := range results {
		if !opts.PreserveOrder {
			attach(r)
			continue
		}
		pending[r.index] = r
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			attach(p)
			delete(pending, next)
			next++
		}
	}

	err := dispatchErr
	if err == nil {
		err = attachErr
	}
	if err != nil && ctx.Err() != nil && !errors.Is(err, errors.ErrCodeWorkerFailure) {
		err = errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "clone canceled")
	}
	res.Duration = time.Since(start)
	opts.Hooks.OnCloneComplete(ctx, res.Stats.Instances, res.Stats.IDsOmitted, res.Duration, err)
	if err != nil {
		return nil, nil, err
	}

	if res.Stats.IDsOmitted > 0 {
		logger.Warn("unique ids omitted", "count", res.Stats.IDsOmitted)
	}
	if res.Stats.DanglingChildren > 0 {
		logger.Warn("dangling children skipped", "count", res.Stats.DanglingChildren)
	}
	logger.Info("clone complete",
		"instances", res.Stats.Instances,
		"top_level", res.TopLevel,
		"batches", res.Batches,
		"elapsed", res.Duration.Round(time.Millisecond))
	return dst, res, nil
}

// cloneBatch clones one batch with its own Cloner. A panic in the batch is
// returned as a *errors.PanicError.
func cloneBatch(index int, batch []dom.Ref, src *dom.Document, ids dom.IDGenerator) (r batchResult, err error) {
	start := time.Now()
	r.index = index
	defer func() {
		r.duration = time.Since(start)
		if v := recover(); v != nil {
			err = &errors.PanicError{Unit: index, Value: v, Stack: debug.Stack()}
		}
	}()

	c := NewCloner(src, ids)
	r.builders = make([]*dom.Builder, 0, len(batch))
	for _, ref := range batch {
		inst, ok := src.Get(ref)
		if !ok {
			c.stats.DanglingChildren++
			continue
		}
		r.builders = append(r.builders, c.Clone(inst))
	}
	r.stats = c.Stats()
	return r, nil
}

// partition splits refs into consecutive runs of at most size elements.
func partition(refs []dom.Ref, size int) [][]dom.Ref {
	var out [][]dom.Ref
	for start := 0; start < len(refs); start += size {
		end := min(start+size, len(refs))
		out = append(out, refs[start:end])
	}
	return out
}

// Run imports inputPath, clones it and exports the copy's top-level
// subtrees to outputPath. Formats follow the file extensions.
func Run(ctx context.Context, inputPath, outputPath string, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	if err := errors.ValidatePath(inputPath); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(outputPath); err != nil {
		return nil, err
	}

	start := time.Now()
	src, err := pkgio.ImportFile(inputPath)
	n := 0
	if src != nil {
		n = src.Len()
	}
	opts.Hooks.OnDecode(ctx, inputPath, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("decoded", "path", inputPath, "instances", n, "elapsed", time.Since(start))

	dst, res, err := Clone(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	err = pkgio.ExportFile(dst, dst.Root().Children(), outputPath)
	opts.Hooks.OnEncode(ctx, outputPath, dst.Len()-1, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("encoded", "path", outputPath, "instances", dst.Len()-1, "elapsed", time.Since(start))
	return res, nil
}
