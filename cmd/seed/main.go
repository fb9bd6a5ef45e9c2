// Command seed ensures the default category list exists. Safe to run
// repeatedly: categories are matched case-insensitively and never
// duplicated.
package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventario-service/internal/model"
	"inventario-service/internal/store"
	"inventario-service/pkg/config"
	"inventario-service/pkg/database"
	"inventario-service/pkg/logger"
)

var defaultCategories = []string{
	"Sin TACC",
	"Vegano",
	"Lácteos",
	"Orgánico",
	"Cereales",
	"Aceites",
	"Gluten Free",
	"Natural",
}

func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	if err := seedCategories(db, log, defaultCategories); err != nil {
		log.Fatal("Category seeding failed", zap.Error(err))
	}

	all, err := store.NewCategoryStore(db).List()
	if err != nil {
		log.Fatal("Failed to list categories", zap.Error(err))
	}
	for _, c := range all {
		log.Info("Current category", zap.Uint("id", c.ID), zap.String("name", c.Name))
	}
}

// seedCategories creates every missing category in one transaction. The
// conflict checks run on the same transaction handle as the inserts.
func seedCategories(db *gorm.DB, log *zap.Logger, names []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		categories := store.NewCategoryStore(tx)
		for _, name := range names {
			existing, err := categories.FindConflict(name, 0)
			if err != nil {
				return err
			}
			if existing != nil {
				log.Info("Category already exists",
					zap.String("name", existing.Name),
					zap.Uint("category_id", existing.ID))
				continue
			}
			category := model.Category{Name: name}
			if err := categories.Create(&category); err != nil {
				return err
			}
			log.Info("Category created",
				zap.String("name", category.Name),
				zap.Uint("category_id", category.ID))
		}
		return nil
	})
}
