package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/fraud"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/gifts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/notifications"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payments"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/sysconfig"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&gifts.Gift{},
		&payments.Payment{},
		&payments.Redemption{},
		&transactions.TransactionLog{},
		&fraud.FraudEvent{},
		&fraud.FraudBlock{},
		&sysconfig.SystemConfig{},
		&notifications.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	log.Println("Tables created")
}
