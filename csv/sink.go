// Package csv writes extracted records as CSV files.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"sync"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/fs"
)

// Ensure Sink implements shopparse.RecordSink at compile time.
var _ shopparse.RecordSink = (*Sink)(nil)

// bom makes spreadsheet applications detect UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Sink writes listing records and detail records to two CSV files. Each
// file is created on its first record, so a run without detail pages leaves
// no empty detail file behind. Files are moved into place on Close.
type Sink struct {
	listingPath string
	detailPath  string

	mu      sync.Mutex
	listing *table
	detail  *table
}

// NewSink creates a Sink writing listing rows to listingPath and detail
// rows to detailPath.
func NewSink(listingPath, detailPath string) *Sink {
	return &Sink{listingPath: listingPath, detailPath: detailPath}
}

// Write appends the records of one document.
func (s *Sink) Write(ctx context.Context, extraction *shopparse.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if extraction == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(extraction.Items) > 0 {
		t, err := s.open(&s.listing, s.listingPath, BasicHeader, "listing")
		if err != nil {
			return err
		}
		for _, item := range extraction.Items {
			if err := t.w.Write(BasicRow(item)); err != nil {
				return err
			}
		}
	}

	if extraction.Detail != nil {
		t, err := s.open(&s.detail, s.detailPath, DetailHeader, "detail")
		if err != nil {
			return err
		}
		if err := t.w.Write(DetailRow(extraction.Detail)); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and commits every file that was opened.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, t := range []*table{s.listing, s.detail} {
		if t == nil {
			continue
		}
		if err := t.commit(); err != nil {
			errs = append(errs, err)
		}
	}
	s.listing, s.detail = nil, nil
	return errors.Join(errs...)
}

// Paths returns the files that received at least one record.
func (s *Sink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var paths []string
	for _, t := range []*table{s.listing, s.detail} {
		if t != nil {
			paths = append(paths, t.file.Path())
		}
	}
	return paths
}

func (s *Sink) open(slot **table, path string, header []string, kind string) (*table, error) {
	if *slot != nil {
		return *slot, nil
	}
	if path == "" {
		return nil, shopparse.Errorf(shopparse.EINVALID, "no output file configured for %s records", kind)
	}
	t, err := newTable(path, header)
	if err != nil {
		return nil, err
	}
	*slot = t
	return t, nil
}

type table struct {
	file *fs.AtomicFile
	w    *stdcsv.Writer
}

func newTable(path string, header []string) (*table, error) {
	f, err := fs.CreateAtomic(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(bom); err != nil {
		f.Abort()
		return nil, err
	}
	w := stdcsv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Abort()
		return nil, err
	}
	return &table{file: f, w: w}, nil
}

func (t *table) commit() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		t.file.Abort()
		return err
	}
	return t.file.Commit()
}
