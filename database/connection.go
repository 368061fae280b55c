package database

import (
	"log"

	"mblog/config"
	"mblog/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the shared database handle. It is opened once at process
// start, passed explicitly to every service, and closed via Close on
// shutdown. TranslateError turns driver constraint violations into
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated, which the services
// map onto the domain error taxonomy.
func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connected successfully")
	return db
}

func Migrate(db *gorm.DB) {
	// The post<->tag association goes through the explicit PostTag join
	// model; register it before AutoMigrate so the join table is created
	// with that shape.
	if err := db.SetupJoinTable(&models.Post{}, "Tags", &models.PostTag{}); err != nil {
		log.Fatal("Failed to set up join table:", err)
	}

	err := db.AutoMigrate(
		&models.Tag{},
		&models.Post{},
		&models.Reaction{},
	)

	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database migrated successfully")
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to fetch underlying connection: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
