package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/database"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/genapi"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/oss"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/pubsub"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/queue"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
	"github.com/modelsnapper/snapper_go_server/internal/worker"
)

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

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	renderQueue := queue.NewQueue(rdb, cfg.Queue.RenderQueue)
	publisher := pubsub.NewPublisher(rdb)
	genClient := genapi.NewClient(&cfg.Generation)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	renderRepo := repository.NewRenderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	avatarRepo := repository.NewAvatarRepository(db)

	creditService := service.NewCreditService(userRepo, paymentRepo, cfg)

	processor := worker.NewProcessor(
		renderRepo,
		avatarRepo,
		profileRepo,
		userRepo,
		creditService,
		genClient,
		ossClient,
		publisher,
		cfg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := renderQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue
					}

					log.Printf("Worker %d: processing render %d", workerID, msg.RenderID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: render %d failed: %v", workerID, msg.RenderID, err)
					}
				}
			}
		}(i)
	}

	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
