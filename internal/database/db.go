package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timetracker/internal/models"
	"timetracker/internal/services"
)

// Open подключается к базе с повторными попытками и прогоняет миграции.
// TranslateError нужен, чтобы нарушение уникального индекса приходило
// как gorm.ErrDuplicatedKey независимо от драйвера.
func Open(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", maxAttempts, err)
	}

	// миграции
	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.TimeEntry{},
		&models.UserProjectQuota{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.AuditLog{},
		&models.OdooConfig{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	createDefaultAdmin(db)
	seedDefaultCategories(db)

	return db, nil
}

// стандартный набор категорий, существующие коды пропускаются
func seedDefaultCategories(db *gorm.DB) {
	created, err := services.NewCategoryService(db).SeedDefaults()
	if err != nil {
		log.Printf("failed to seed default categories: %v", err)
		return
	}
	if created > 0 {
		log.Printf("seeded %d default categories", created)
	}
}

// админ только из конфига, самостоятельной регистрации нет
func createDefaultAdmin(db *gorm.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		// админ уже есть — ничего не делаем
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     &username,
		PasswordHash: string(hash),
		Name:         "Administrator",
		LoginMethod:  models.LoginLocal,
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", username)
}
