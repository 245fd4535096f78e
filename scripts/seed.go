package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/prestataires/backend/internal/adapters/database"
	"github.com/prestataires/backend/internal/adapters/search"
	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/infrastructure/clients/postgres"
	"github.com/prestataires/backend/internal/infrastructure/clients/typesense"
	"github.com/prestataires/backend/pkg/config"
	"github.com/prestataires/backend/pkg/geo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		searchRepo.InitSchema(context.Background())
	}

	providerRepo := database.NewProviderAdapter(pgClient)
	ratingRepo := database.NewRatingAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				ratings,
				services,
				providers
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now().UTC()
	owner := func() *string {
		id := uuid.New().String()
		return &id
	}

	provs := []entities.Provider{
		{
			ID:         uuid.New().String(),
			UserID:     owner(),
			FirstName:  "Awa",
			LastName:   "Diallo",
			Phone:      "06 12 34 56 78",
			About:      strPtr("Coiffeuse à domicile, spécialiste tresses et soins."),
			Categories: []string{"Coiffeur"},
			City:       "Paris",
			Department: "75 - Paris",
			Location:   &geo.Coordinates{Latitude: 48.8721, Longitude: 2.3430},
			Services: []entities.Service{
				{Name: "Coupe femme", Price: 35},
				{Name: "Tresses", Price: 60},
			},
			CreatedAt: now.Add(-96 * time.Hour),
			UpdatedAt: now.Add(-96 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			UserID:     owner(),
			FirstName:  "Karim",
			LastName:   "Benali",
			Phone:      "06 98 76 54 32",
			About:      strPtr("Mécanicien itinérant, interventions à domicile sur toute la petite couronne."),
			Categories: []string{"Mécanicien"},
			City:       "Vitry-sur-Seine",
			Department: "94 - Val-de-Marne",
			Location:   &geo.Coordinates{Latitude: 48.7880, Longitude: 2.3941},
			Services: []entities.Service{
				{Name: "Vidange", Price: 80},
				{Name: "Changement plaquettes", Price: 120},
			},
			CreatedAt: now.Add(-72 * time.Hour),
			UpdatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			UserID:     owner(),
			FirstName:  "Sophie",
			LastName:   "Martin",
			Phone:      "07 11 22 33 44",
			About:      strPtr("Coach sportive diplômée, séances en extérieur ou à domicile."),
			Categories: []string{"Coach sportif"},
			City:       "Montreuil",
			Department: "93 - Seine-Saint-Denis",
			Location:   &geo.Coordinates{Latitude: 48.8615, Longitude: 2.4372},
			Services: []entities.Service{
				{Name: "Séance individuelle", Price: 45},
				{Name: "Pack 10 séances", Price: 400},
			},
			CreatedAt: now.Add(-48 * time.Hour),
			UpdatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			UserID:     owner(),
			FirstName:  "Pierre",
			LastName:   "Lefevre",
			Phone:      "06 55 44 33 22",
			Categories: []string{"Électricien", "Plombier"},
			City:       "Créteil",
			Department: "94 - Val-de-Marne",
			Location:   &geo.Coordinates{Latitude: 48.7922, Longitude: 2.4530},
			Services: []entities.Service{
				{Name: "Dépannage électrique", Price: 90},
				{Name: "Remplacement tableau", Price: 350},
			},
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			UserID:     owner(),
			FirstName:  "Nadia",
			LastName:   "Haddad",
			Phone:      "07 66 77 88 99",
			About:      strPtr("Esthéticienne, soins visage et épilation."),
			Categories: []string{"Esthéticienne"},
			City:       "Saint-Denis",
			Department: "93 - Seine-Saint-Denis",
			// No declared coordinates; only reachable in locality mode
			Services: []entities.Service{
				{Name: "Soin visage", Price: 50},
			},
			CreatedAt: now.Add(-12 * time.Hour),
			UpdatedAt: now.Add(-12 * time.Hour),
		},
	}

	for i := range provs {
		p := &provs[i]
		for j := range p.Services {
			p.Services[j].ID = uuid.New().String()
			p.Services[j].ProviderID = p.ID
		}
		if err := providerRepo.Create(ctx, p); err != nil {
			log.Printf("Failed to create provider %s %s: %v", p.FirstName, p.LastName, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, p); err != nil {
				log.Printf("Failed to index provider %s: %v", p.ID, err)
			}
		}
	}

	// A few ratings so averages show up in listings
	raters := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	for i, p := range provs[:3] {
		for j, userID := range raters[:i+1] {
			rating := entities.Rating{
				ProviderID: p.ID,
				UserID:     userID,
				Stars:      3 + (i+j)%3,
				CreatedAt:  now,
			}
			if err := ratingRepo.Upsert(ctx, &rating); err != nil {
				log.Printf("Failed to rate provider %s: %v", p.ID, err)
			}
		}
	}

	log.Printf("Seeded %d providers", len(provs))
}

func strPtr(s string) *string {
	return &s
}
