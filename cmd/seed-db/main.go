// Command seed-db loads demo categories, suppliers, users, and products into
// an empty database so the admin UI has something to show.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
	"github.com/storefront-labs/shop-admin-api/internal/domain/user"
	"github.com/storefront-labs/shop-admin-api/internal/repository"
)

type seedFile struct {
	Categories []struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	} `json:"categories"`
	Suppliers []struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contactEmail"`
		Phone        string `json:"phone"`
	} `json:"suppliers"`
	Users []struct {
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
		IsActive     bool   `json:"isActive"`
	} `json:"users"`
	Products []struct {
		SKU          string          `json:"sku"`
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		Category     string          `json:"category"`
		Supplier     string          `json:"supplier"`
		Price        decimal.Decimal `json:"price"`
		InitialStock int             `json:"initialStock"`
	} `json:"products"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to seed JSON file")
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

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	categoryRepo := repository.NewCategoryRepository(pool)
	supplierRepo := repository.NewSupplierRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	catalogSvc := catalog.NewService(repository.NewProductRepository(pool))

	categoryIDs := make(map[string]int64, len(seed.Categories))
	for _, c := range seed.Categories {
		cat, err := catalog.NewCategory(c.Name, c.Slug, c.Description, nil)
		if err != nil {
			return errors.Wrapf(err, "category %s", c.Slug)
		}
		id, err := categoryRepo.Insert(ctx, cat)
		if err != nil {
			return errors.Wrapf(err, "insert category %s", c.Slug)
		}
		categoryIDs[c.Slug] = id
		slog.Info("inserted category", slog.String("slug", c.Slug), slog.Int64("id", id))
	}

	supplierIDs := make(map[string]int64, len(seed.Suppliers))
	for _, s := range seed.Suppliers {
		id, err := supplierRepo.Insert(ctx, &catalog.Supplier{
			Name:         s.Name,
			ContactEmail: s.ContactEmail,
			Phone:        s.Phone,
		})
		if err != nil {
			return errors.Wrapf(err, "insert supplier %s", s.Name)
		}
		supplierIDs[s.Name] = id
		slog.Info("inserted supplier", slog.String("name", s.Name), slog.Int64("id", id))
	}

	for _, u := range seed.Users {
		account, err := user.New(u.Email, u.PasswordHash, u.IsActive)
		if err != nil {
			return errors.Wrapf(err, "user %s", u.Email)
		}
		id, err := userRepo.Insert(ctx, account)
		if err != nil {
			return errors.Wrapf(err, "insert user %s", u.Email)
		}
		slog.Info("inserted user", slog.String("email", u.Email), slog.Int64("id", id))
	}

	for _, p := range seed.Products {
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			return errors.Errorf("product %s references unknown category %s", p.SKU, p.Category)
		}
		supplierID, ok := supplierIDs[p.Supplier]
		if !ok {
			return errors.Errorf("product %s references unknown supplier %s", p.SKU, p.Supplier)
		}

		id, err := catalogSvc.AddProduct(ctx, catalog.AddProductRequest{
			SKU:          p.SKU,
			Name:         p.Name,
			Description:  p.Description,
			CategoryID:   categoryID,
			SupplierID:   supplierID,
			Price:        p.Price,
			InitialStock: p.InitialStock,
		})
		if err != nil {
			return errors.Wrapf(err, "insert product %s", p.SKU)
		}
		slog.Info("inserted product", slog.String("sku", p.SKU), slog.Int64("id", id))
	}

	return nil
}
