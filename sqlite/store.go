package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/shopparse"
	"github.com/google/uuid"
)

// Ensure Store implements shopparse.RecordSink at compile time.
var _ shopparse.RecordSink = (*Store)(nil)

// Run describes one conversion run recorded in the database.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// ListingFilter selects listing rows.
type ListingFilter struct {
	RunID    string
	PageType *string
	Limit    int
	Offset   int
}

// Store writes the records of a single run. Records are keyed by the
// fingerprint of their page type and product URL, so a product repeated
// within a run is stored once.
type Store struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	runID    string
	position int
}

// NewStore returns a Store writing to db. The Store takes ownership of db
// and closes it on Close.
func NewStore(db *DB) *Store {
	return &Store{db: db, Now: time.Now}
}

// Begin records a new run reading from source and returns its ID.
func (s *Store) Begin(ctx context.Context, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin(ctx, source)
}

func (s *Store) begin(ctx context.Context, source string) (string, error) {
	if s.runID != "" {
		return "", shopparse.Errorf(shopparse.EINVALID, "run %s already started", s.runID)
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)",
		id, source, s.timestamp())
	if err != nil {
		return "", err
	}
	s.runID = id
	return id, nil
}

// RunID returns the ID of the current run, or "" before the first write.
func (s *Store) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Write stores the records of one document in a single transaction.
func (s *Store) Write(ctx context.Context, extraction *shopparse.Extraction) error {
	if extraction == nil || extraction.Len() == 0 {
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID == "" {
		if _, err := s.begin(ctx, ""); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	position := s.position
	for _, item := range extraction.Items {
		if err := insertListingItem(ctx, tx, s.runID, position, item); err != nil {
			return err
		}
		position++
	}
	if d := extraction.Detail; d != nil {
		if err := insertDetailItem(ctx, tx, s.runID, position, d); err != nil {
			return err
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.position = position
	return nil
}

// Close marks the run finished and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.runID != "" {
		_, err := s.db.ExecContext(context.Background(),
			"UPDATE runs SET finished_at = ? WHERE id = ?", s.timestamp(), s.runID)
		errs = append(errs, err)
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

func (s *Store) timestamp() string {
	return s.Now().UTC().Format(time.RFC3339)
}

func insertListingItem(ctx context.Context, tx *sql.Tx, runID string, position int, item *shopparse.BasicItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO listing_items (
			run_id, fingerprint, position, product_id, shop_id, shop_name,
			product_name, price, sold, rating, rated, location, product_url,
			image_url, discount, shop_type, currency, page_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, fingerprint) DO NOTHING
	`,
		runID, Fingerprint(item.PageType, item.ProductURL), position,
		nullInt(item.ProductID), nullInt(item.ShopID), nullString(item.ShopName),
		item.ProductName, item.Price, item.Sold, item.Rating, item.Rated, nullString(item.Location),
		item.ProductURL, item.ImageURL, nullFloat(item.Discount), nullString(item.ShopType),
		item.Currency, item.PageType,
	)
	return err
}

func insertDetailItem(ctx context.Context, tx *sql.Tx, runID string, position int, d *shopparse.DetailedItem) error {
	record, err := json.Marshal(d)
	if err != nil {
		return shopparse.Errorf(shopparse.EINTERNAL, "encode detail record: %v", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO detail_items (run_id, fingerprint, position, product_id, shop_id, record)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, fingerprint) DO NOTHING
	`,
		runID, Fingerprint(d.PageType, d.ProductURL), position, d.ProductID, d.ShopID, string(record),
	)
	return err
}

// FindRunByID retrieves a run by ID.
// Returns ENOTFOUND if the run does not exist.
func (s *Store) FindRunByID(ctx context.Context, id string) (*Run, error) {
	var (
		run               Run
		started, finished string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, source, started_at, finished_at FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &run.Source, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shopparse.Errorf(shopparse.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(started, "started_at"); err != nil {
		return nil, err
	}
	if finished != "" {
		t, err := parseRFC3339(finished, "finished_at")
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// FindListingItems retrieves listing records of a run in write order.
func (s *Store) FindListingItems(ctx context.Context, filter ListingFilter) ([]*shopparse.BasicItem, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT product_id, shop_id, shop_name, product_name, price, sold, rating, rated,
			location, product_url, image_url, discount, shop_type, currency, page_type
		FROM listing_items WHERE run_id = ?`)
	args := []any{filter.RunID}

	if filter.PageType != nil {
		query.WriteString(" AND page_type = ?")
		args = append(args, *filter.PageType)
	}
	query.WriteString(" ORDER BY position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*shopparse.BasicItem
	for rows.Next() {
		var (
			item                         shopparse.BasicItem
			productID, shopID            sql.NullInt64
			shopName, location, shopType sql.NullString
			discount                     sql.NullFloat64
		)
		if err := rows.Scan(
			&productID, &shopID, &shopName, &item.ProductName, &item.Price, &item.Sold, &item.Rating, &item.Rated,
			&location, &item.ProductURL, &item.ImageURL, &discount, &shopType, &item.Currency, &item.PageType,
		); err != nil {
			return nil, err
		}
		item.ProductID = intPtr(productID)
		item.ShopID = intPtr(shopID)
		item.ShopName = stringPtr(shopName)
		item.Location = stringPtr(location)
		item.ShopType = stringPtr(shopType)
		item.Discount = floatPtr(discount)
		items = append(items, &item)
	}
	return items, rows.Err()
}

// FindDetailItems retrieves the detail records of a run in write order.
func (s *Store) FindDetailItems(ctx context.Context, runID string) ([]*shopparse.DetailedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record FROM detail_items WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*shopparse.DetailedItem
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var d shopparse.DetailedItem
		if err := json.Unmarshal([]byte(record), &d); err != nil {
			return nil, shopparse.Errorf(shopparse.EINTERNAL, "decode detail record: %v", err)
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}
