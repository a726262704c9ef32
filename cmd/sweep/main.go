package main

import (
	"log"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/database"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/cron"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

// One-shot maintenance run: expire lapsed consent requests and refresh due
// plan allotments. Meant for external schedulers and operators.
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	consentRepo := repository.NewConsentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	consentService := service.NewConsentService(consentRepo, profileRepo, userRepo, nil, cfg)
	creditService := service.NewCreditService(userRepo, paymentRepo, cfg)

	cron.NewService(consentService, creditService).RunNow()
	log.Println("Sweep complete")
}
