// Package main provides a CLI tool for seeding the database with demo
// catalog data: a company's branches and a small product hierarchy.
package main

import (
	"context"
	"fmt"
	"os"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/catalogs/branch"
	"restock/internal/domain/catalogs/category"
	"restock/internal/domain/catalogs/department"
	"restock/internal/domain/catalogs/product"
	"restock/internal/infrastructure/storage/postgres"
	"restock/internal/infrastructure/storage/postgres/catalog_repo"
	"restock/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	branches := branch.NewService(catalog_repo.NewBranchRepo(txManager), txManager)
	departments := department.NewService(catalog_repo.NewDepartmentRepo(txManager), txManager)
	categories := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager)
	products := product.NewService(catalog_repo.NewProductRepo(txManager), txManager)

	companyID := id.New()

	for _, name := range []string{"Sawyer", "Ashford", "Hudson"} {
		b := branch.NewBranch(name, companyID)
		if err := branches.Create(ctx, b); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("branch already seeded", "name", name)
				continue
			}
			log.Fatalw("failed to seed branch", "name", name, "error", err)
		}
		log.Infow("seeded branch", "name", name, "code", b.Code)
	}

	type catSeed struct {
		code, name string
		products   map[string]string // code -> name
	}
	type deptSeed struct {
		code, name string
		categories []catSeed
	}

	hierarchy := []deptSeed{
		{
			code: "GRC", name: "Grocery",
			categories: []catSeed{
				{code: "DRY", name: "Dairy", products: map[string]string{
					"MILK1L": "Milk 1L",
					"CURD2H": "Curd 200g",
				}},
				{code: "BKR", name: "Bakery", products: map[string]string{
					"RYEBRD": "Rye Bread",
					"WHTBRD": "White Bread",
				}},
			},
		},
		{
			code: "HHD", name: "Household",
			categories: []catSeed{
				{code: "CLN", name: "Cleaning", products: map[string]string{
					"DSHSOP": "Dish Soap",
				}},
			},
		},
	}

	for _, d := range hierarchy {
		dept := department.NewDepartment(d.code, d.name)
		if err := departments.Create(ctx, dept); err != nil {
			if !apperror.IsDuplicate(err) {
				log.Fatalw("failed to seed department", "code", d.code, "error", err)
			}
			existing, err := departments.GetByCode(ctx, d.code)
			if err != nil {
				log.Fatalw("failed to load department", "code", d.code, "error", err)
			}
			dept = existing
		}

		for _, cs := range d.categories {
			cat := category.NewCategory(cs.code, cs.name, dept.ID)
			if err := categories.Create(ctx, cat); err != nil {
				if !apperror.IsDuplicate(err) {
					log.Fatalw("failed to seed category", "code", cs.code, "error", err)
				}
				existing, err := categories.GetByCode(ctx, cs.code)
				if err != nil {
					log.Fatalw("failed to load category", "code", cs.code, "error", err)
				}
				cat = existing
			}

			for code, name := range cs.products {
				p := product.NewProduct(code, name, types.NewMoney(19.90), cat.ID)
				if err := products.Create(ctx, p); err != nil && !apperror.IsDuplicate(err) {
					log.Fatalw("failed to seed product", "code", code, "error", err)
				}
			}
		}

		log.Infow("seeded department", "code", d.code)
	}

	log.Info("seeding completed successfully")
}
