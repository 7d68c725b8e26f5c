package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/batch"
	"github.com/fwojciec/shopparse/bloom"
	"github.com/fwojciec/shopparse/csv"
	"github.com/fwojciec/shopparse/fs"
	shopslog "github.com/fwojciec/shopparse/slog"
	"github.com/fwojciec/shopparse/sqlite"
)

// itemsPerPage sizes the dedupe filter. Listing pages hold up to 60 items.
const itemsPerPage = 60

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	pageType, err := shopparse.ParsePageType(c.Type)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shopparse.ErrorMessage(err))
		return err
	}

	paths, err := fs.Glob(c.Dir, c.Glob)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shopparse.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Parsing %d HTML files...\n", len(paths))

	sink, outputs, err := c.openSink(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	loader := deps.Loader
	if c.URL != "" {
		loader = &sourceURLLoader{next: loader, url: c.URL}
	}

	runner := &batch.Runner{
		Loader:      loader,
		Registry:    deps.Registry,
		Sink:        shopslog.NewLoggingSink(sink, deps.Logger),
		Concurrency: c.Concurrency,
	}
	var dedupe *bloom.Deduplicator
	if c.Dedupe {
		dedupe = bloom.NewDeduplicator(uint(len(paths)*itemsPerPage), 0.001)
		runner.Dedupe = dedupe
		runner.DedupeKey = bloom.ItemKey
	}

	progress := func(event batch.ProgressEvent) {
		if event.Type == batch.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", batch.TruncatePath(event.Path, 60), event.Error)
		}
	}

	result, runErr := runner.Run(deps.Ctx, paths, pageType, progress)
	closeErr := runner.Sink.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if dedupe != nil {
		deps.Logger.Debug("dedupe filter", "estimated_keys", dedupe.EstimatedCount(), "duplicates", result.Duplicates)
	}

	fmt.Fprintf(deps.Stdout, "Processed %d files (%d failed)\n", result.Documents+result.Failed, result.Failed)
	if result.Items+result.Details == 0 {
		fmt.Fprintln(deps.Stderr, "No product records found.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "  %d listing items, %d product details", result.Items, result.Details)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, ", %d skipped", result.Skipped)
	}
	if result.Duplicates > 0 {
		fmt.Fprintf(deps.Stdout, ", %d duplicates", result.Duplicates)
	}
	fmt.Fprintln(deps.Stdout)
	for _, out := range outputs() {
		fmt.Fprintf(deps.Stdout, "  Saved %s\n", out)
	}
	return nil
}

// openSink returns the record sink for the selected format together with
// a function listing the files written once the sink is closed.
func (c *ParseCmd) openSink(deps *Dependencies) (shopparse.RecordSink, func() []string, error) {
	switch c.Format {
	case "sqlite":
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		store := sqlite.NewStore(db)
		if _, err := store.Begin(deps.Ctx, c.Dir); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() []string { return []string{c.DB} }, nil
	default:
		sink := csv.NewSink(c.Out, c.DetailOut)
		return sink, sink.Paths, nil
	}
}

// sourceURLLoader fills in a fixed source URL for documents that carry none.
type sourceURLLoader struct {
	next shopparse.DocumentLoader
	url  string
}

func (l *sourceURLLoader) Load(ctx context.Context, path string) (*shopparse.Document, error) {
	doc, err := l.next.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if doc.SourceURL == "" {
		doc.SourceURL = l.url
	}
	return doc, nil
}
