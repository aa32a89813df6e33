package database

import (
	"fmt"
	"log"
	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/model"

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
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Transaction{},
		&model.ChatConversation{},
		&model.ChatMessage{},
		&model.TrainingFeedback{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed the catalog so the chatbot has something to recommend on a
	// fresh install. These names are also the chatbot's known-product list.
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count == 0 {
		defaults := []model.Product{
			{Name: "PulseBeat Pro", Slug: "pulsebeat-pro", Category: model.CategoryHeadphones, Price: 199.99, Featured: true,
				Description: "Auriculares inalámbricos con cancelación activa de ruido y 30 horas de batería."},
			{Name: "SoundWave X3", Slug: "soundwave-x3", Category: model.CategoryHeadphones, Price: 149.99, Featured: true,
				Description: "Auriculares over-ear con graves profundos y micrófono con reducción de ruido."},
			{Name: "BassBoost Elite", Slug: "bassboost-elite", Category: model.CategoryHeadphones, Price: 89.99,
				Description: "Auriculares in-ear deportivos resistentes al agua."},
			{Name: "SoundTower", Slug: "soundtower", Category: model.CategorySpeakers, Price: 299.99, Featured: true,
				Description: "Altavoz de torre con sonido envolvente de 360 grados."},
			{Name: "PulseBox", Slug: "pulsebox", Category: model.CategorySpeakers, Price: 79.99,
				Description: "Altavoz Bluetooth portátil con 12 horas de reproducción."},
			{Name: "RoomFill", Slug: "roomfill", Category: model.CategoryStreaming, Price: 129.99,
				Description: "Reproductor de streaming multiroom compatible con los principales servicios de música."},
		}
		for i := range defaults {
			db.Create(&defaults[i])
		}
	}

	return db, nil
}
