// Command catalog-import loads gzipped CSV product feeds from suppliers into
// the catalog. Feeds overlap between suppliers and across runs, so rows are
// deduplicated by SKU before writing and written as upserts.
//
// Feed row format: sku,name,description,category_slug,supplier_name,price,stock
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
	"github.com/storefront-labs/shop-admin-api/internal/repository"
)

const (
	// Sized for the largest combined feed we have seen. The false positive
	// rate trades a rare dropped row for not holding every SKU in memory.
	bloomCapacity = 5_000_000
	bloomFPR      = 0.0001

	feedColumns   = 7
	progressEvery = 100_000
)

// feedRow is one parsed product line from a supplier feed.
type feedRow struct {
	sku         string
	name        string
	description string
	category    string
	supplier    string
	price       decimal.Decimal
	stock       int
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.csv.gz files in %s", dataDir)
	}

	slog.Info("parsing feeds", slog.Int("files", len(files)))

	parsed, err := parseFeeds(ctx, files)
	if err != nil {
		return errors.Wrap(err, "parse feeds")
	}

	// Dedupe by SKU across all feeds, first occurrence wins. Feed order is
	// the glob order, so earlier files take precedence on conflicts.
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var rows []feedRow
	var dropped int
	for _, fileRows := range parsed {
		for _, row := range fileRows {
			if seen.TestString(row.sku) {
				dropped++
				continue
			}
			seen.AddString(row.sku)
			rows = append(rows, row)
		}
	}

	slog.Info("feeds deduplicated",
		slog.Int("unique", len(rows)),
		slog.Int("duplicates", dropped),
	)

	if len(rows) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeRows(ctx, pool, rows); err != nil {
		return errors.Wrap(err, "write rows")
	}
	return nil
}

// parseFeeds reads every feed concurrently. Results keep the input file
// order so deduplication stays deterministic.
func parseFeeds(ctx context.Context, files []string) ([][]feedRow, error) {
	parsed := make([][]feedRow, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			rows, err := parseFeed(ctx, path)
			if err != nil {
				return errors.Wrapf(err, "parse %s", path)
			}
			slog.Info("parsed feed", slog.String("file", filepath.Base(path)), slog.Int("rows", len(rows)))
			parsed[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// parseFeed streams one gzipped CSV file. Malformed rows abort the import:
// a broken feed should be fixed upstream, not half-loaded.
func parseFeed(ctx context.Context, path string) ([]feedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = feedColumns

	var rows []feedRow
	var line uint64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}

		line++
		if line%progressEvery == 0 {
			slog.Info("parse progress", slog.String("file", filepath.Base(path)), slog.Uint64("rows", line))
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string) (feedRow, error) {
	price, err := decimal.NewFromString(record[5])
	if err != nil {
		return feedRow{}, errors.Wrapf(err, "price %q", record[5])
	}
	stock, err := strconv.Atoi(record[6])
	if err != nil {
		return feedRow{}, errors.Wrapf(err, "stock %q", record[6])
	}
	row := feedRow{
		sku:         record[0],
		name:        record[1],
		description: record[2],
		category:    record[3],
		supplier:    record[4],
		price:       price,
		stock:       stock,
	}
	if row.sku == "" || row.name == "" {
		return feedRow{}, errors.New("sku and name are required")
	}
	return row, nil
}

// writeRows resolves category and supplier references and upserts every row.
// Rows pointing at categories or suppliers the store does not carry are
// skipped with a warning; supplier feeds routinely include lines outside our
// assortment.
func writeRows(ctx context.Context, pool *pgxpool.Pool, rows []feedRow) error {
	categories, err := repository.NewCategoryRepository(pool).List(ctx)
	if err != nil {
		return errors.Wrap(err, "list categories")
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		categoryIDs[c.Slug] = c.ID
	}

	suppliers, err := repository.NewSupplierRepository(pool).List(ctx)
	if err != nil {
		return errors.Wrap(err, "list suppliers")
	}
	supplierIDs := make(map[string]int64, len(suppliers))
	for _, s := range suppliers {
		supplierIDs[s.Name] = s.ID
	}

	imports := repository.NewImportRepository(pool)

	var written, skipped int
	for _, row := range rows {
		categoryID, ok := categoryIDs[row.category]
		if !ok {
			slog.Warn("skipping row: unknown category",
				slog.String("sku", row.sku), slog.String("category", row.category))
			skipped++
			continue
		}
		supplierID, ok := supplierIDs[row.supplier]
		if !ok {
			slog.Warn("skipping row: unknown supplier",
				slog.String("sku", row.sku), slog.String("supplier", row.supplier))
			skipped++
			continue
		}

		if _, err := imports.UpsertProduct(ctx, &catalog.Product{
			SKU:         row.sku,
			Name:        row.name,
			Description: row.description,
			CategoryID:  categoryID,
			SupplierID:  supplierID,
			Price:       row.price,
		}, row.stock); err != nil {
			return errors.Wrapf(err, "upsert %s", row.sku)
		}

		written++
		if written%1000 == 0 {
			slog.Info("write progress", slog.Int("written", written), slog.Int("total", len(rows)))
		}
	}

	slog.Info("feed written", slog.Int("written", written), slog.Int("skipped", skipped))
	return nil
}
