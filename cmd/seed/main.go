package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/security"
)

const (
	seedEmail    = "bob@example.com"
	seedPassword = "secret"
)

type seedProduct struct {
	name     string
	price    int64
	quantity int
	imageKey string
}

// Bob's six fantasy products. The seed is also the source inventory cloned
// into demo accounts.
var seedProducts = []seedProduct{
	{name: "Everburn Candle", price: 30, quantity: 4, imageKey: "seed/everburn-candle.png"},
	{name: "Boots of Sneaking", price: 80, quantity: 80, imageKey: "seed/boots-of-sneaking.png"},
	{name: "Crystal of Teleportation", price: 55, quantity: 15, imageKey: "seed/crystal-of-teleportation.png"},
	{name: "Boom-Buddy", price: 10, quantity: 50, imageKey: "seed/boom-buddy.png"},
	{name: "Healing Potion", price: 15, quantity: 140, imageKey: "seed/healing-potion.png"},
	{name: "Mana Potion", price: 15, quantity: 200, imageKey: "seed/mana-potion.png"},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	hash, err := security.HashPassword(seedPassword, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash seed password", err)
		os.Exit(1)
	}

	imageBase := "https://storage.googleapis.com/" + cfg.GCS.BucketName + "/"

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		// drop any previous Bob along with his products and history
		existing, err := userRepo.FindByEmail(ctx, seedEmail)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			if err := userRepo.Delete(ctx, existing.ID); err != nil {
				return err
			}
		}

		bob := users.CreateUserDTO{Email: seedEmail, PasswordHash: hash}.ToModel()
		if _, err := userRepo.Create(ctx, bob); err != nil {
			return err
		}

		for _, p := range seedProducts {
			row := &models.Product{
				OwnerID:  bob.ID,
				Name:     p.name,
				Price:    decimal.NewFromInt(p.price),
				Quantity: p.quantity,
				ImageURL: imageBase + p.imageKey,
			}
			if err := tx.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"email":    seedEmail,
		"products": len(seedProducts),
	})
	logg.Info(ctx, "seeded demo inventory")
}
