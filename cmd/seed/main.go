package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eberechi/shopsync-backend/config"
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/db"
	"github.com/eberechi/shopsync-backend/pkg/util"
)

// Seeds a fresh local install with its business and first admin account,
// optionally importing an inventory spreadsheet.
//
//	go run cmd/seed/main.go -business "Chidinma Pharmacy" -type pharmacy \
//	    -username admin -password changeme -inventory stock.xlsx
func main() {
	businessName := flag.String("business", "", "business name (required)")
	businessType := flag.String("type", "pharmacy", "business type: pharmacy, hardware, supermarket, provision_store")
	address := flag.String("address", "", "business address")
	contact := flag.String("contact", "", "business phone number")
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	inventoryFile := flag.String("inventory", "", "optional XLSX file of inventory to import")
	flag.Parse()

	if *businessName == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -business and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())

	business, err := businessRepo.FindByName(*businessName)
	if err == nil {
		fmt.Printf("Business %q already exists (id=%d), reusing it\n", business.Name, business.ID)
	} else {
		business = &model.Business{
			Name:    *businessName,
			Type:    model.BusinessType(*businessType),
			Address: *address,
			Contact: *contact,
			Active:  true,
		}
		if err := businessRepo.Create(business); err != nil {
			log.Fatal("Failed to create business:", err)
		}
		fmt.Printf("Created business %q (id=%d)\n", business.Name, business.ID)
	}

	if _, err := userRepo.FindByUsername(business.ID, *username); err == nil {
		fmt.Printf("User %q already exists, skipping\n", *username)
	} else {
		hash, err := util.HashPassword(*password)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		admin := &model.User{
			BusinessID:   business.ID,
			Username:     *username,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Active:       true,
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatal("Failed to create admin user:", err)
		}
		fmt.Printf("Created admin user %q\n", admin.Username)
	}

	if *inventoryFile == "" {
		fmt.Println("Seed completed.")
		return
	}

	fmt.Printf("Reading inventory file: %s\n", *inventoryFile)
	items, skipped, err := readInventoryFromXLSX(*inventoryFile, business.ID, itemTypeFor(business.Type))
	if err != nil {
		log.Fatal("Failed to read inventory XLSX:", err)
	}

	fmt.Printf("Rows to import: %d (skipped %d)\n", len(items), skipped)
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range items {
		if err := inventoryRepo.Create(&items[i]); err != nil {
			fmt.Printf("  skipped %q: %v\n", items[i].ProductName, err)
			continue
		}
		imported++
	}

	fmt.Printf("Import completed: %d items\n", imported)
}

func itemTypeFor(businessType model.BusinessType) model.ItemType {
	switch businessType {
	case model.BusinessHardware:
		return model.ItemHardwareMaterial
	case model.BusinessSupermarket:
		return model.ItemSupermarket
	case model.BusinessProvisionStore:
		return model.ItemProvisionStore
	default:
		return model.ItemPharmacy
	}
}

// readInventoryFromXLSX expects columns:
// product name, category, stock, purchase price, sale price, batch, expiry (2006-01-02), barcode
func readInventoryFromXLSX(filePath string, businessID uint, itemType model.ItemType) ([]model.InventoryItem, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	var items []model.InventoryItem
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || seen[strings.ToLower(name)] {
			skipped++
			continue
		}

		stock, errStock := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		purchasePrice, errBuy := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		salePrice, errSell := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if errStock != nil || errBuy != nil || errSell != nil || salePrice <= 0 {
			skipped++
			continue
		}

		item := model.InventoryItem{
			BusinessID:    businessID,
			ProductName:   name,
			Category:      strings.TrimSpace(row[1]),
			Stock:         stock,
			PurchasePrice: purchasePrice,
			SalePrice:     salePrice,
			ItemType:      itemType,
			Active:        true,
		}
		if len(row) > 5 {
			item.BatchNumber = strings.TrimSpace(row[5])
		}
		if len(row) > 6 {
			if expiry, err := time.Parse("2006-01-02", strings.TrimSpace(row[6])); err == nil {
				item.ExpiryDate = &expiry
			}
		}
		if len(row) > 7 {
			if barcode := strings.TrimSpace(row[7]); barcode != "" {
				item.Barcode = &barcode
			}
		}

		seen[strings.ToLower(name)] = true
		items = append(items, item)
	}

	return items, skipped, nil
}
