// Package batch converts many saved pages in one pass. Documents are
// loaded and extracted in parallel, and their records reach the sink in
// input order.
package batch

import (
	"context"

	"github.com/fwojciec/shopparse"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 4

// Runner converts batches of saved pages.
type Runner struct {
	Loader   shopparse.DocumentLoader
	Registry shopparse.ExtractorRegistry
	Sink     shopparse.RecordSink

	// Dedupe, if set, drops listing items whose key was already written
	// earlier in the run.
	Dedupe shopparse.Deduplicator

	// DedupeKey derives the dedupe key of a listing item. Defaults to the
	// product URL.
	DedupeKey func(item *shopparse.BasicItem) string

	Concurrency int
}

// Result holds the outcome of a batch run.
type Result struct {
	Documents  int
	Failed     int
	Items      int
	Details    int
	Skipped    int
	Duplicates int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	PageType  shopparse.PageType
	Records   int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// docResult holds the outcome of processing a single file.
type docResult struct {
	position   int
	path       string
	pageType   shopparse.PageType
	extraction *shopparse.Extraction
	err        error
}

// Run converts the files at paths. With PageTypeUnknown each document is
// classified; any other page type forces that extractor for every file.
//
// A file that cannot be loaded or extracted is counted in Result.Failed and
// reported through progress without stopping the batch. Run returns an
// error only when the sink rejects a write or ctx is cancelled, together
// with the counts accumulated so far.
func (r *Runner) Run(ctx context.Context, paths []string, pageType shopparse.PageType, progress ProgressFunc) (*Result, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := len(paths)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	// Buffered to total so workers never block after an early return.
	resultCh := make(chan docResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				resultCh <- r.process(gctx, i, path, pageType)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Results arrive in completion order and are written in input order.
	result := &Result{}
	pending := make(map[int]docResult)
	next := 0
	completed := 0

	for res := range resultCh {
		completed++
		pending[res.position] = res

		if progress != nil {
			event := ProgressEvent{
				Completed: completed,
				Total:     total,
				Path:      res.path,
				PageType:  res.pageType,
				Records:   res.extraction.Len(),
				Error:     res.err,
			}
			event.Type = ProgressCompleted
			if res.err != nil {
				event.Type = ProgressFailed
			}
			progress(event)
		}

		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if err := r.write(ctx, ready, result); err != nil {
				cancel()
				return result, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}
	return result, nil
}

// process loads and extracts a single file.
func (r *Runner) process(ctx context.Context, position int, path string, pageType shopparse.PageType) docResult {
	res := docResult{position: position, path: path, pageType: pageType}

	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	doc, err := r.Loader.Load(ctx, path)
	if err != nil {
		res.err = err
		return res
	}

	var extractor shopparse.Extractor
	if pageType == shopparse.PageTypeUnknown {
		res.pageType, extractor = r.Registry.ForDocument(doc)
	} else {
		extractor = r.Registry.Get(pageType)
	}
	if extractor == nil {
		res.err = shopparse.Errorf(shopparse.EINVALID, "no extractor for page type %q", res.pageType)
		return res
	}

	res.extraction, res.err = extractor.Extract(doc)
	return res
}

// write hands one document's records to the sink and updates the counts.
func (r *Runner) write(ctx context.Context, res docResult, result *Result) error {
	if res.err != nil {
		result.Failed++
		return nil
	}
	result.Documents++

	extraction := res.extraction
	if extraction == nil {
		return nil
	}
	result.Skipped += len(extraction.Skipped)

	if r.Dedupe != nil && len(extraction.Items) > 0 {
		kept := extraction.Items[:0:0]
		for _, item := range extraction.Items {
			if !r.Dedupe.Add(r.dedupeKey(item)) {
				result.Duplicates++
				continue
			}
			kept = append(kept, item)
		}
		extraction.Items = kept
	}

	if extraction.Len() == 0 {
		return nil
	}
	if err := r.Sink.Write(ctx, extraction); err != nil {
		return err
	}
	result.Items += len(extraction.Items)
	if extraction.Detail != nil {
		result.Details++
	}
	return nil
}

func (r *Runner) dedupeKey(item *shopparse.BasicItem) string {
	if r.DedupeKey != nil {
		return r.DedupeKey(item)
	}
	return item.ProductURL
}
