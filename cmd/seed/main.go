package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KasperFyhn/ulgis/internal/db"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/services"
	"github.com/KasperFyhn/ulgis/internal/types"
)

// seedTaxonomy mirrors one entry of the seed file.
type seedTaxonomy struct {
	Name             string   `yaml:"name"`
	ShortDescription string   `yaml:"short_description"`
	Text             string   `yaml:"text"`
	Priority         float64  `yaml:"priority"`
	StepType         string   `yaml:"step_type"`
	Parameters       []string `yaml:"parameters"`
}

func main() {
	seedFile := flag.String("file", "seed/taxonomies.yaml", "taxonomy seed file")
	adminName := flag.String("admin", os.Getenv("ADMIN_NAME"), "admin user to create (optional)")
	adminPassword := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password for the admin user")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	ctx := context.Background()
	taxonomyRepo := repos.NewTaxonomyRepo(thePG, log)

	existing, err := taxonomyRepo.ListAll(ctx, nil)
	if err != nil {
		log.Error("Listing taxonomies failed", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		log.Info("Taxonomy store already seeded, skipping", "count", len(existing))
	} else {
		if err := seedTaxonomies(ctx, log, taxonomyRepo, *seedFile); err != nil {
			log.Error("Seeding taxonomies failed", "file", *seedFile, "error", err)
			os.Exit(1)
		}
	}

	if *adminName != "" {
		if *adminPassword == "" {
			log.Error("Admin name given without a password")
			os.Exit(1)
		}
		adminUserRepo := repos.NewAdminUserRepo(thePG, log)
		authService := services.NewAuthService(thePG, log, adminUserRepo, "unused", time.Hour)
		if _, err := authService.Register(ctx, *adminName, *adminPassword); err != nil {
			log.Error("Creating admin user failed", "name", *adminName, "error", err)
			os.Exit(1)
		}
		log.Info("Admin user created", "name", *adminName)
	}
}

func seedTaxonomies(ctx context.Context, log *logger.Logger, taxonomyRepo repos.TaxonomyRepo, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	var entries []seedTaxonomy
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	taxonomies := make([]*types.Taxonomy, 0, len(entries))
	for _, entry := range entries {
		stepType := types.StepType(entry.StepType)
		if entry.StepType == "" {
			stepType = types.StepTypeLevel
		}
		taxonomy := &types.Taxonomy{
			Name:             entry.Name,
			ShortDescription: entry.ShortDescription,
			Text:             entry.Text,
			Priority:         entry.Priority,
			StepType:         stepType,
		}
		for i, param := range entry.Parameters {
			taxonomy.Parameters = append(taxonomy.Parameters, types.TaxonomyParameter{
				Name:     param,
				Position: i,
			})
		}
		taxonomies = append(taxonomies, taxonomy)
	}

	if _, err := taxonomyRepo.Create(ctx, nil, taxonomies); err != nil {
		return fmt.Errorf("inserting taxonomies: %w", err)
	}
	log.Info("Taxonomies seeded", "count", len(taxonomies))
	return nil
}
