package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema from the row models. Used by the
// sqlite dev path and the seeder; postgres schemas come from the SQL
// migrations in internal/database, which also carry the overlap
// exclusion constraint AutoMigrate cannot express.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&listingModel{},
		&unitModel{},
		&reservationModel{},
		&reservationUnitModel{},
		&productModel{},
		&variantModel{},
		&orderModel{},
		&orderLineModel{},
		&couponModel{},
		&settlementModel{},
	)
}
