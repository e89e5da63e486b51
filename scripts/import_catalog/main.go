// Bulk catalog importer. Reads an xlsx workbook with three sheets
// (Items, Packs, Rewards) and inserts the rows into the catalog tables.
//
// Usage: go run scripts/import_catalog/main.go catalog.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/internal/security"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_catalog <workbook.xlsx>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	packRepo := repositories.NewPackRepository(db)

	imported := 0
	imported += importItems(db, f)
	imported += importPacks(packRepo, f)
	imported += importRewards(db, packRepo, f)

	fmt.Printf("Imported %d catalog rows\n", imported)
}

// importItems reads the Items sheet:
// item_name | category | subcategory | damage | ammo_type | description
func importItems(db *gorm.DB, f *excelize.File) int {
	rows, err := f.GetRows("Items")
	if err != nil {
		log.Println("No Items sheet, skipping")
		return 0
	}

	count := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 { // Skip header or invalid rows
			continue
		}

		damage := 0
		if len(row) > 3 {
			damage, _ = strconv.Atoi(row[3])
		}

		item := models.Item{
			ItemName:    clean(row[0]),
			Category:    clean(row[1]),
			Subcategory: cell(row, 2),
			Damage:      damage,
			AmmoType:    cell(row, 4),
			Description: clean(cell(row, 5)),
		}

		if err := db.Create(&item).Error; err != nil {
			fmt.Printf("Error creating item in row %d: %v\n", i, err)
		} else {
			count++
		}
	}
	return count
}

// importPacks reads the Packs sheet: pack_name | price | description
func importPacks(packRepo *repositories.PackRepository, f *excelize.File) int {
	rows, err := f.GetRows("Packs")
	if err != nil {
		log.Println("No Packs sheet, skipping")
		return 0
	}

	count := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}

		price, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil || price <= 0 {
			fmt.Printf("Invalid price in row %d: %q\n", i, row[1])
			continue
		}

		pack := models.Pack{
			PackName:    clean(row[0]),
			Price:       price,
			Description: clean(cell(row, 2)),
		}

		if err := packRepo.CreatePack(&pack); err != nil {
			fmt.Printf("Error creating pack in row %d: %v\n", i, err)
		} else {
			count++
		}
	}
	return count
}

// importRewards reads the Rewards sheet:
// pack_name | item_name | legend_name | drop_rate
// Either item_name or legend_name must be present.
func importRewards(db *gorm.DB, packRepo *repositories.PackRepository, f *excelize.File) int {
	rows, err := f.GetRows("Rewards")
	if err != nil {
		log.Println("No Rewards sheet, skipping")
		return 0
	}

	count := 0
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}

		pack, err := packRepo.GetPackByName(clean(row[0]))
		if err != nil {
			fmt.Printf("Unknown pack %q in row %d\n", row[0], i)
			continue
		}

		dropRate, err := strconv.ParseFloat(row[3], 64)
		if err != nil || dropRate < 0 {
			fmt.Printf("Invalid drop rate in row %d: %q\n", i, row[3])
			continue
		}

		reward := models.PackReward{PackID: pack.ID, DropRate: dropRate}

		if name := clean(row[1]); name != "" {
			var item models.Item
			if err := db.Where("item_name = ?", name).First(&item).Error; err != nil {
				fmt.Printf("Unknown item %q in row %d\n", name, i)
				continue
			}
			reward.ItemID = &item.ID
		} else if name := clean(row[2]); name != "" {
			var legend models.Legend
			if err := db.Where("name = ?", name).First(&legend).Error; err != nil {
				fmt.Printf("Unknown legend %q in row %d\n", name, i)
				continue
			}
			reward.LegendID = &legend.ID
		} else {
			fmt.Printf("Row %d references neither item nor legend\n", i)
			continue
		}

		if err := packRepo.CreateReward(&reward); err != nil {
			fmt.Printf("Error creating reward in row %d: %v\n", i, err)
		} else {
			count++
		}
	}
	return count
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func clean(s string) string {
	return security.SanitizeHTML(security.SanitizeString(s))
}
