package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"tour-booking/internal/config"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/storage"
)

func active() *bool {
	v := true
	return &v
}

// oahuTours is the launch catalog. Seeding is not idempotent: running this
// twice inserts duplicates, so run it against a fresh database only.
var oahuTours = []models.InsertTour{
	{
		Name:         "Diamond Head Sunrise Adventure",
		Description:  "Experience the iconic Diamond Head crater at sunrise. This moderate hike offers breathtaking panoramic views of Waikiki, Honolulu, and the Pacific Ocean. Perfect for photography enthusiasts and nature lovers.",
		Type:         models.TourTypeDay,
		Price:        "89.00",
		Duration:     4,
		MaxGroupSize: 8,
		ImageURL:     "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Hanauma Bay Snorkeling Experience",
		Description:  "Discover the underwater paradise of Hanauma Bay Nature Preserve. Snorkel among tropical fish and vibrant coral reefs in this world-renowned marine sanctuary. Equipment and instruction included.",
		Type:         models.TourTypeDay,
		Price:        "129.00",
		Duration:     6,
		MaxGroupSize: 10,
		ImageURL:     "https://images.unsplash.com/photo-1544551763-46a013bb70d5?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Circle Island Grand Tour",
		Description:  "Explore all of Oahu in one unforgettable day! Visit the North Shore's famous surf beaches, Polynesian Cultural Center area, scenic Windward Coast, and historic Pearl Harbor. Includes lunch and multiple photo stops.",
		Type:         models.TourTypeDay,
		Price:        "179.00",
		Duration:     8,
		MaxGroupSize: 12,
		ImageURL:     "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Pearl Harbor & Historic Honolulu",
		Description:  "Pay respects at Pearl Harbor Memorial and explore historic downtown Honolulu. Visit the USS Arizona Memorial, Pearl Harbor Museum, Iolani Palace, and King Kamehameha Statue.",
		Type:         models.TourTypeDay,
		Price:        "149.00",
		Duration:     7,
		MaxGroupSize: 15,
		ImageURL:     "https://images.unsplash.com/photo-1551966775-a4ddc8df052b?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "North Shore Adventure",
		Description:  "Experience the legendary North Shore beaches including Pipeline, Sunset Beach, and Waimea Bay. Stop at Giovanni's Shrimp Truck, visit Haleiwa town, and watch world-class surfers in action.",
		Type:         models.TourTypeDay,
		Price:        "139.00",
		Duration:     8,
		MaxGroupSize: 8,
		ImageURL:     "https://images.unsplash.com/photo-1582882112003-ca5900d8471e?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Koko Head Crater Hike",
		Description:  "Challenge yourself with this intense railway trail hike up Koko Head Crater. Reward yourself with stunning 360-degree views of Southeast Oahu. Includes post-hike refreshments.",
		Type:         models.TourTypeDay,
		Price:        "99.00",
		Duration:     5,
		MaxGroupSize: 6,
		ImageURL:     "https://images.unsplash.com/photo-1469474968028-56623f02e421e?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Polynesian Cultural Center & Laie",
		Description:  "Immerse yourself in Polynesian culture at the world-famous Polynesian Cultural Center. Experience traditional villages, authentic performances, and learn about Pacific Island heritage.",
		Type:         models.TourTypeDay,
		Price:        "199.00",
		Duration:     8,
		MaxGroupSize: 20,
		ImageURL:     "https://images.unsplash.com/photo-1580500550469-26c0d0cd6d7e?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Manoa Falls & Rainforest Hike",
		Description:  "Trek through lush tropical rainforest to the spectacular 150-foot Manoa Falls. This easy-moderate hike offers incredible flora, fauna, and the chance to swim in natural pools.",
		Type:         models.TourTypeDay,
		Price:        "79.00",
		Duration:     4,
		MaxGroupSize: 10,
		ImageURL:     "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Sunset Dinner Cruise",
		Description:  "Sail into the sunset aboard our luxury catamaran. Enjoy a gourmet dinner, open bar, live Hawaiian music, and breathtaking views of the Waikiki coastline as the sun sets over the Pacific.",
		Type:         models.TourTypeNight,
		Price:        "189.00",
		Duration:     3,
		MaxGroupSize: 40,
		ImageURL:     "https://images.unsplash.com/photo-1520454974749-611b7248ffdb?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Waikiki Night Photography Tour",
		Description:  "Capture the magic of Waikiki after dark. Learn night photography techniques while exploring illuminated landmarks, beachfront hotels, and the vibrant nightlife scene.",
		Type:         models.TourTypeNight,
		Price:        "119.00",
		Duration:     3,
		MaxGroupSize: 6,
		ImageURL:     "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Stargazing at Makapuu Lighthouse",
		Description:  "Experience the night sky like never before at Makapuu Lighthouse. Use professional telescopes to observe stars, planets, and constellations while learning about Hawaiian navigation traditions.",
		Type:         models.TourTypeNight,
		Price:        "99.00",
		Duration:     3,
		MaxGroupSize: 8,
		ImageURL:     "https://images.unsplash.com/photo-1419242902214-272b3f66ee7a?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Night Luau Experience",
		Description:  "Authentic Hawaiian luau with traditional feast, cultural performances, fire dancing, and live music. Experience the true spirit of aloha under the stars at a beachfront location.",
		Type:         models.TourTypeNight,
		Price:        "159.00",
		Duration:     4,
		MaxGroupSize: 50,
		ImageURL:     "https://images.unsplash.com/photo-1544551763-46a013bb70d5?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
	{
		Name:         "Chinatown Food & Night Market Tour",
		Description:  "Explore Honolulu's vibrant Chinatown district after dark. Sample authentic Asian cuisine, visit night markets, and discover hidden bars and local hangouts with our expert guide.",
		Type:         models.TourTypeNight,
		Price:        "89.00",
		Duration:     3,
		MaxGroupSize: 12,
		ImageURL:     "https://images.unsplash.com/photo-1514362545857-3bc16c4c7d1b?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&h=600",
		IsActive:     active(),
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	log := logger.New()
	defer log.Close()

	cfg := config.Load()

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	ctx := context.Background()
	if err := bunDB.PingContext(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect: %v", err))
	}

	db := storage.New(bunDB, log)

	log.Info("SEED", fmt.Sprintf("Seeding %d tours...", len(oahuTours)))
	for _, payload := range oahuTours {
		tour, err := db.CreateTour(ctx, payload)
		if err != nil {
			log.Fatal("SEED", fmt.Sprintf("Failed to create tour %q: %v", payload.Name, err))
		}
		log.Info("SEED", fmt.Sprintf("Created tour: %s (%s)", tour.Name, tour.ID))
	}
	log.Info("SEED", "Tour catalog seeded")
}
