// Command seed inserts the sample job catalogue into an empty database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/paelladev/gigboard-be/internal/api/domain"
	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/internal/api/storage"
	"github.com/paelladev/gigboard-be/internal/config"
	"github.com/paelladev/gigboard-be/shared/logger"
	"github.com/paelladev/gigboard-be/shared/postgresql"
)

type sampleJob struct {
	title         string
	description   string
	category      string
	skills        []string
	paymentAmount string
}

var sampleJobs = []sampleJob{
	{
		title:         "Build a Modern E-commerce Landing Page",
		description:   "Create a responsive landing page for an e-commerce platform with product showcase, hero section, and call-to-action buttons. Must be mobile-friendly and follow modern design principles.",
		category:      "Web Development",
		skills:        []string{"React", "Tailwind CSS", "Responsive Design", "UI/UX"},
		paymentAmount: "150",
	},
	{
		title:         "Design Logo and Brand Identity",
		description:   "Design a complete brand identity package including logo, color palette, typography guidelines, and brand assets for a tech startup. Deliverables should include vector files and brand guidelines document.",
		category:      "Graphic Design",
		skills:        []string{"Adobe Illustrator", "Branding", "Logo Design", "Typography"},
		paymentAmount: "200",
	},
	{
		title:         "Write Technical Documentation for API",
		description:   "Create comprehensive technical documentation for a RESTful API including endpoint descriptions, request/response examples, authentication guide, and error handling documentation.",
		category:      "Technical Writing",
		skills:        []string{"API Documentation", "Technical Writing", "Markdown", "REST"},
		paymentAmount: "100",
	},
	{
		title:         "Develop Smart Contract for NFT Marketplace",
		description:   "Build and test a Solidity smart contract for an NFT marketplace on Ethereum. Must include minting, buying, selling, and royalty distribution features with comprehensive unit tests.",
		category:      "Blockchain Development",
		skills:        []string{"Solidity", "Smart Contracts", "Web3", "Testing"},
		paymentAmount: "300",
	},
	{
		title:         "Create Social Media Content Calendar",
		description:   "Develop a 30-day social media content calendar for a SaaS product launch including post copy, hashtags, and visual content suggestions for LinkedIn, Twitter, and Instagram.",
		category:      "Content Marketing",
		skills:        []string{"Social Media Marketing", "Content Strategy", "Copywriting", "SaaS"},
		paymentAmount: "120",
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.NewDefault()

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbClient.Close()

	store := storage.NewStorage(dbClient)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, sample := range sampleJobs {
		skills, err := json.Marshal(sample.skills)
		if err != nil {
			return fmt.Errorf("failed to encode skills: %w", err)
		}

		job := &model.Job{
			Title:          sample.title,
			Description:    sample.description,
			Category:       sample.category,
			RequiredSkills: string(skills),
			PaymentAmount:  sample.paymentAmount,
			Status:         domain.JobStatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := store.CreateJob(ctx, job); err != nil {
			return fmt.Errorf("failed to create job %q: %w", sample.title, err)
		}

		appLogger.Info("Created job",
			slog.Int64("id", job.ID),
			slog.String("title", job.Title),
			slog.String("payment_amount", job.PaymentAmount),
		)
	}

	appLogger.Info("Database seeding completed", slog.Int("jobs", len(sampleJobs)))
	return nil
}
