package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sstlower/internal/diag"
	"sstlower/internal/lower"
	"sstlower/internal/source"
	"sstlower/internal/trace"
	"sstlower/internal/triggers"
	"sstlower/internal/vir"
	"sstlower/internal/virjson"
)

// Options configures LowerKrate.
type Options struct {
	// Jobs bounds the number of functions lowered at once (<= 0: GOMAXPROCS).
	Jobs           int
	ViewAsSpec     bool
	MaxTriggers    int
	MaxDiagnostics int
	// Cache may be nil.
	Cache    *DiskCache
	Progress ProgressSink
}

// FuncResult is the outcome of lowering one function.
type FuncResult struct {
	Name vir.Fun
	// SST is nil when lowering failed or the result came from the cache.
	SST     *lower.FunctionSST
	Dump    string
	Diags   []diag.Diagnostic
	Cached  bool
	Elapsed time.Duration
}

// Failed reports whether lowering produced an error diagnostic.
func (r *FuncResult) Failed() bool {
	for i := range r.Diags {
		if r.Diags[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Result holds per-function results sorted by name.
type Result struct {
	Funcs   []FuncResult
	Bag     *diag.Bag
	FileSet *source.FileSet
	Elapsed time.Duration
}

// LowerFile reads the krate at path and lowers every function in it.
func LowerFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	in, err := virjson.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	res, err := LowerKrate(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	res.FileSet = fs
	return res, nil
}

// LowerKrate lowers the functions of in concurrently. Each function gets a
// fresh lowering state; the krate itself is shared read-only. Lowering
// errors become diagnostics; the returned error is reserved for
// cancellation and internal failures.
func LowerKrate(ctx context.Context, in *virjson.Result, opts Options) (*Result, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePass, "lower_krate", 0)
	defer span.End("")

	start := time.Now()
	names := in.Krate.Names()
	for _, name := range names {
		emit(opts.Progress, Event{Func: name, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	run := &krateRun{
		in:     in,
		opts:   &opts,
		sig:    signatureDigest(in.Krate),
		tracer: tr,
		parent: span.ID(),
	}

	// each goroutine owns its slot
	results := make([]FuncResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(names))))
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := run.lowerOne(name)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		emit(opts.Progress, Event{Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	for i := range results {
		for _, d := range results[i].Diags {
			rep.Report(d)
		}
	}
	bag.Sort()
	elapsed := time.Since(start)
	emit(opts.Progress, Event{Status: StatusDone, Elapsed: elapsed})
	span.Attr("funcs", fmt.Sprintf("%d", len(names)))
	return &Result{Funcs: results, Bag: bag, Elapsed: elapsed}, nil
}

type krateRun struct {
	in     *virjson.Result
	opts   *Options
	sig    Digest
	tracer trace.Tracer
	parent uint64
}

func (r *krateRun) lowerOne(name vir.Fun) (res FuncResult, err error) {
	start := time.Now()
	res.Name = name
	emit(r.opts.Progress, Event{Func: name, Status: StatusWorking})
	defer func() {
		res.Elapsed = time.Since(start)
		status := StatusDone
		switch {
		case err != nil:
			status = StatusError
		case res.Cached:
			status = StatusCached
		case res.Failed():
			status = StatusError
		}
		emit(r.opts.Progress, Event{Func: name, Status: status, Err: err, Elapsed: res.Elapsed})
	}()

	fn, _ := r.in.Krate.Function(name)
	var key Digest
	if r.opts.Cache != nil {
		key = cacheKey(r.opts, r.sig, r.in.Raw[name])
		var payload DiskPayload
		ok, cerr := r.opts.Cache.Get(key, &payload)
		if cerr != nil {
			trace.Point(r.tracer, trace.ScopeFunc, "cache_error", cerr.Error(), r.parent)
		}
		if ok && payload.Name == string(name) {
			res.Dump = payload.Dump
			res.Diags = payload.Diags
			res.Cached = true
			return res, nil
		}
	}

	defer func() {
		if p := recover(); p != nil {
			ie, ok := p.(lower.InternalError)
			if !ok {
				panic(p)
			}
			err = fmt.Errorf("%s: %w", name, ie)
		}
	}()

	lctx := &lower.Ctx{
		Funcs:       r.in.Krate,
		Triggers:    triggers.Selector{MaxTriggers: r.opts.MaxTriggers},
		ViewAsSpec:  r.opts.ViewAsSpec,
		Tracer:      r.tracer,
		TraceParent: r.parent,
	}
	out, lerr := lower.LowerFunction(lctx, fn)
	if lerr != nil {
		res.Diags = []diag.Diagnostic{lower.AsDiagnostic(lerr, fn.Span)}
	} else {
		res.SST = out
		res.Dump = out.String()
	}

	if r.opts.Cache != nil {
		payload := &DiskPayload{
			Schema: diskCacheSchemaVersion,
			Name:   string(name),
			Dump:   res.Dump,
			Diags:  res.Diags,
		}
		if perr := r.opts.Cache.Put(key, payload); perr != nil {
			trace.Point(r.tracer, trace.ScopeFunc, "cache_error", perr.Error(), r.parent)
		}
	}
	return res, nil
}

// IsInternal reports whether err came from a broken lowering precondition.
func IsInternal(err error) bool {
	var ie lower.InternalError
	return errors.As(err, &ie)
}
