package cron

import (
	"log"
	"time"

	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type Service struct {
	consentService *service.ConsentService
	creditService  *service.CreditService
	stopChan       chan struct{}
}

func NewService(consentService *service.ConsentService, creditService *service.CreditService) *Service {
	return &Service{
		consentService: consentService,
		creditService:  creditService,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the background loops.
func (s *Service) Start() {
	go s.runConsentSweep()
	go s.runPlanRenewal()
	log.Println("Cron service started (consent sweep + plan renewal)")
}

// Stop shuts the loops down.
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runConsentSweep persists EXPIRED on lapsed pending requests every hour.
func (s *Service) runConsentSweep() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepConsents()
		}
	}
}

func (s *Service) sweepConsents() {
	swept, err := s.consentService.SweepExpired()
	if err != nil {
		log.Printf("Consent sweep failed: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("Consent sweep: %d requests expired", swept)
	}
}

// runPlanRenewal refreshes lapsed plan allotments shortly after midnight UTC,
// then daily.
func (s *Service) runPlanRenewal() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 5, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.renewPlans()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) renewPlans() {
	renewed, err := s.creditService.RenewDuePlans()
	if err != nil {
		log.Printf("Plan renewal failed: %v", err)
		return
	}
	if renewed > 0 {
		log.Printf("Plan renewal: %d users refreshed", renewed)
	}
}

// RunNow executes both jobs once, for the one-shot sweep command.
func (s *Service) RunNow() {
	s.sweepConsents()
	s.renewPlans()
}
