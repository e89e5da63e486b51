package database

import (
	"fmt"
	"time"

	"github.com/rdavila/packstore/internal/config"
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/internal/security"
	"github.com/rdavila/packstore/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Buy/Open manage their own transactions; skip the implicit
		// per-statement wrapper and cache prepared statements.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Legend{},
		&models.Ability{},
		&models.Item{},
		&models.Pack{},
		&models.PackReward{},
		&models.UserPack{},
		&models.UserItem{},
		&models.UserLegend{},
		&models.Transaction{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedCatalog inserts a small demo catalog when the tables are empty:
// a few legends with abilities, a handful of items, and two packs with
// weighted reward pools. Safe to call on every boot.
func SeedCatalog(db *gorm.DB) error {
	var legendCount int64
	db.Model(&models.Legend{}).Count(&legendCount)
	if legendCount == 0 {
		logger.Info("Seeding legends...")
		legends := []models.Legend{
			{
				Name: "Wraith", Role: models.LegendRoleOffensive,
				Description: sanitizeText("Interdimensional skirmisher able to reposition through the void."),
				Abilities: []models.Ability{
					{AbilityName: "Voices from the Void", AbilityType: models.AbilityTypePassive, Description: "A voice warns when danger approaches."},
					{AbilityName: "Into the Void", AbilityType: models.AbilityTypeTactical, Description: "Reposition quickly through void space."},
					{AbilityName: "Dimensional Rift", AbilityType: models.AbilityTypeUltimate, Description: "Link two locations with portals."},
				},
			},
			{
				Name: "Bloodhound", Role: models.LegendRoleRecon,
				Description: sanitizeText("Technological tracker who sees what others miss."),
				Abilities: []models.Ability{
					{AbilityName: "Tracker", AbilityType: models.AbilityTypePassive, Description: "See tracks left behind by foes."},
					{AbilityName: "Eye of the Allfather", AbilityType: models.AbilityTypeTactical, Description: "Reveal hidden enemies and clues."},
					{AbilityName: "Beast of the Hunt", AbilityType: models.AbilityTypeUltimate, Description: "Enhanced senses and speed."},
				},
			},
			{
				Name: "Gibraltar", Role: models.LegendRoleDefensive,
				Description: sanitizeText("Shielded fortress who protects his squad."),
				Abilities: []models.Ability{
					{AbilityName: "Gun Shield", AbilityType: models.AbilityTypePassive, Description: "Aiming deploys a gun shield."},
					{AbilityName: "Dome of Protection", AbilityType: models.AbilityTypeTactical, Description: "Throw a protective dome."},
					{AbilityName: "Defensive Bombardment", AbilityType: models.AbilityTypeUltimate, Description: "Call in a mortar strike."},
				},
			},
		}
		if err := db.Create(&legends).Error; err != nil {
			return fmt.Errorf("failed to seed legends: %w", err)
		}
	}

	var itemCount int64
	db.Model(&models.Item{}).Count(&itemCount)
	if itemCount == 0 {
		logger.Info("Seeding items...")
		items := []models.Item{
			{ItemName: "Wingman", Category: models.ItemCategoryWeapon, Subcategory: "Pistol", Damage: 45, AmmoType: "Heavy", Description: "High-caliber revolver."},
			{ItemName: "Flatline", Category: models.ItemCategoryWeapon, Subcategory: "Assault Rifle", Damage: 19, AmmoType: "Heavy", Description: "Full-auto rifle with heavy recoil."},
			{ItemName: "Kraber", Category: models.ItemCategoryWeapon, Subcategory: "Sniper", Damage: 140, AmmoType: "Sniper", Description: "Bolt-action sniper rifle."},
			{ItemName: "Kunai", Category: models.ItemCategoryHeirloom, Subcategory: "Melee", Description: "Heirloom kunai."},
			{ItemName: "Void Specialist", Category: models.ItemCategorySkin, Subcategory: "Legend Skin", Description: "Legendary skin."},
		}
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to seed items: %w", err)
		}
	}

	var packCount int64
	db.Model(&models.Pack{}).Count(&packCount)
	if packCount == 0 {
		logger.Info("Seeding packs...")

		var items []models.Item
		if err := db.Order("id").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load items for pack seed: %w", err)
		}
		var legends []models.Legend
		if err := db.Order("id").Find(&legends).Error; err != nil {
			return fmt.Errorf("failed to load legends for pack seed: %w", err)
		}
		if len(items) < 5 || len(legends) < 1 {
			return fmt.Errorf("catalog seed incomplete: %d items, %d legends", len(items), len(legends))
		}

		packs := []models.Pack{
			{
				PackName: "Apex Pack", Price: 100,
				Description: sanitizeText("Standard pack with a chance at weapons and skins."),
				Rewards: []models.PackReward{
					{ItemID: &items[0].ID, DropRate: 0.45},
					{ItemID: &items[1].ID, DropRate: 0.45},
					{ItemID: &items[4].ID, DropRate: 0.1},
				},
			},
			{
				PackName: "Event Pack", Price: 500,
				Description: sanitizeText("Limited pack with heirloom and legend odds."),
				Rewards: []models.PackReward{
					{ItemID: &items[2].ID, DropRate: 0.6},
					{ItemID: &items[3].ID, DropRate: 0.05},
					{LegendID: &legends[0].ID, DropRate: 0.35},
				},
			},
		}
		if err := db.Create(&packs).Error; err != nil {
			return fmt.Errorf("failed to seed packs: %w", err)
		}
	}

	return nil
}

func sanitizeText(s string) string {
	return security.SanitizeHTML(security.SanitizeString(s))
}
