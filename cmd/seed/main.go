// Command main runs the database seeder for Crush Quest.
package main

import (
	"flag"
	"log"

	"crushquest/internal/config"
	"crushquest/internal/database"
	"crushquest/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numDoros := flag.Int("doros", 400, "Number of doros to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast dev mode)")
	maxDays := flag.Int("max-days", 30, "Spread doro launch times over this many past days")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d doros, clean=%v\n", *numUsers, *numDoros, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumDoros:    *numDoros,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
		MaxDays:     *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
