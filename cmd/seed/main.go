package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"travelmarket/internal/database"
	"travelmarket/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a local development database with users, listings, products
// and coupons so the API is usable right after `go run ./cmd/seed`.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "travelmarket.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"settlements", "order_lines", "orders", "coupons",
		"product_variants", "products",
		"reservation_units", "reservations", "units", "listings", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	log.Println("Creating users...")
	adminID := seedUser(db, "admin@travelmarket.io", "admin123", "admin", "Admin")
	vendorID := seedUser(db, "vendor@travelmarket.io", "vendor123", "vendor", "Aruzhan Tours")
	for i := 1; i <= 3; i++ {
		seedUser(db, fmt.Sprintf("user%d@example.com", i), "user1234", "user", fmt.Sprintf("Traveller %d", i))
	}
	log.Printf("Admin id=%d, vendor id=%d", adminID, vendorID)

	log.Println("Creating listings...")
	stay := seedListing(db, vendorID, "stay", "Lakeside Lodge")
	seedUnit(db, stay, "room-std", "Standard Room", 2, 80)
	seedUnit(db, stay, "room-dlx", "Deluxe Room", 3, 140)
	seedUnit(db, stay, "cabin", "Cabin", 5, 220)

	tour := seedListing(db, vendorID, "tour", "Charyn Canyon Day Tour")
	seedUnit(db, tour, "seat-std", "Standard Seat", 1, 45)
	seedUnit(db, tour, "seat-vip", "VIP Seat", 1, 90)

	adventure := seedListing(db, vendorID, "adventure", "Paragliding Intro")
	seedUnit(db, adventure, "slot-solo", "Solo Flight", 1, 120)

	vehicle := seedListing(db, vendorID, "vehicle", "4x4 Rental")
	seedUnit(db, vehicle, "suv-1", "SUV", 5, 95)
	seedUnit(db, vehicle, "suv-2", "SUV", 5, 95)

	log.Println("Creating products...")
	mapPack := seedProduct(db, vendorID, "Trail Map Pack", 12.50, intPtr(100))
	seedProduct(db, vendorID, "Digital Guidebook", 6.00, nil) // unlimited
	tshirt := seedProduct(db, vendorID, "Expedition T-Shirt", 25.00, nil)
	seedVariant(db, tshirt, "S", nil, 10)
	seedVariant(db, tshirt, "M", nil, 15)
	seedVariant(db, tshirt, "XL", floatPtr(27.00), 5)
	log.Printf("Products seeded, e.g. map pack id=%d", mapPack)

	log.Println("Creating coupons...")
	now := time.Now()
	db.Exec(`INSERT INTO coupons (code, discount_type, discount_amount, min_purchase, max_discount, start_date, expiry_date, usage_limit, usage_count, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		"WELCOME10", "percentage", 10.0, 20.0, 15.0, now.AddDate(0, 0, -1), now.AddDate(0, 3, 0), 100, true)
	db.Exec(`INSERT INTO coupons (code, discount_type, discount_amount, min_purchase, max_discount, start_date, expiry_date, usage_limit, usage_count, is_active)
		VALUES (?, ?, ?, ?, NULL, ?, ?, NULL, 0, ?)`,
		"FLAT5", "fixed", 5.0, 0.0, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0), true)

	log.Println("Seed complete")
	log.Println("  admin@travelmarket.io / admin123")
	log.Println("  vendor@travelmarket.io / vendor123")
	log.Println("  user1@example.com / user1234")
}

func seedUser(db *gorm.DB, email, password, role, name string) int64 {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	db.Exec(`INSERT INTO users (email, password_hash, role, name) VALUES (?, ?, ?, ?)`,
		email, string(hash), role, name)
	return lastID(db, "users", "email = ?", email)
}

func seedListing(db *gorm.DB, vendorID int64, serviceType, title string) int64 {
	db.Exec(`INSERT INTO listings (vendor_id, service_type, title, active, metadata) VALUES (?, ?, ?, ?, ?)`,
		vendorID, serviceType, title, true, `{"highlights":["seeded"]}`)
	return lastID(db, "listings", "title = ?", title)
}

func seedUnit(db *gorm.DB, listingID int64, key, name string, capacity int, price float64) {
	db.Exec(`INSERT INTO units (listing_id, unit_key, name, capacity, price) VALUES (?, ?, ?, ?, ?)`,
		listingID, key, name, capacity, price)
}

func seedProduct(db *gorm.DB, vendorID int64, name string, price float64, stock *int) int64 {
	db.Exec(`INSERT INTO products (vendor_id, name, price, stock) VALUES (?, ?, ?, ?)`,
		vendorID, name, price, stock)
	return lastID(db, "products", "name = ?", name)
}

func seedVariant(db *gorm.DB, productID int64, name string, price *float64, stock int) {
	db.Exec(`INSERT INTO product_variants (product_id, name, price, stock) VALUES (?, ?, ?, ?)`,
		productID, name, price, stock)
}

func lastID(db *gorm.DB, table, where string, arg any) int64 {
	var id int64
	db.Table(table).Where(where, arg).Select("id").Order("id DESC").Limit(1).Scan(&id)
	return id
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
