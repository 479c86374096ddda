package database

import (
	"fmt"
	"log"
	"mentorhub_backend/internal/config"
	"mentorhub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.VideoAsset{},
		&model.WatchProgress{},
		&model.Category{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Default catalog categories for the home rails.
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []string{
			"Liderança",
			"Growth",
			"Finanças",
			"Estratégia",
			"Inovação",
			"Marketing",
			"Operações",
		}
		for i, name := range defaultCategories {
			category := &model.Category{
				Name:    name,
				Order:   i + 1,
				Enabled: true,
			}
			db.Create(category)
		}
	}

	return db, nil
}
