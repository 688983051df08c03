// Command seed applies the schema and loads the demo catalog.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/postgres"
)

//go:embed catalog.json
var demoCatalog []byte

var (
	seedForce  bool
	seedDryRun bool
	seedFile   string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Prepare the storefront database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(cmd, args); err != nil {
				return err
			}
			return runCatalog(cmd, args)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&seedForce, "force", false, "insert even when products already exist")
	rootCmd.PersistentFlags().BoolVar(&seedDryRun, "dry-run", false, "print the products without inserting them")
	rootCmd.PersistentFlags().StringVarP(&seedFile, "file", "f", "", "load products from a JSON file instead of the demo catalog")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the products and orders tables",
		RunE:  runMigrate,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "Insert the demo catalog (skipped when products exist)",
		RunE:  runCatalog,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	db, err := postgres.Connect(ctx, config.Load().PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	log.Println("schema ready")
	return nil
}

func loadProducts() ([]catalog.Product, error) {
	raw := demoCatalog
	if seedFile != "" {
		b, err := os.ReadFile(seedFile)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i, p := range products {
		if err := catalog.Validate(p); err != nil {
			return nil, fmt.Errorf("product %d (%q): %w", i, p.Name, err)
		}
	}
	return products, nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	products, err := loadProducts()
	if err != nil {
		return err
	}
	if seedDryRun {
		for _, g := range catalog.GroupBySupplier(products) {
			fmt.Printf("%s\n", g.Supplier)
			for _, p := range g.Products {
				fmt.Printf("  %-32s %8s  stock=%d\n", p.Name, p.PriceDisplay(), p.Stock)
			}
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := &catalog.Repo{DB: db}
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 && !seedForce {
		log.Printf("catalog already has %d products, skipping (use --force to insert anyway)", n)
		return nil
	}
	for _, p := range products {
		created, err := repo.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("insert %q: %w", p.Name, err)
		}
		log.Printf("product=%d %s / %s %s stock=%d", created.ID, created.Supplier, created.Name, created.PriceDisplay(), created.Stock)
	}
	log.Printf("seeded %d products", len(products))
	return nil
}
