package main

import (
	"context"
	"log"

	"tasktrack/internal/auth"
	"tasktrack/internal/config"
	"tasktrack/internal/db"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

// seedUser pairs demo credentials with a handful of starter tasks.
type seedUser struct {
	username string
	email    string
	password string
	tasks    []model.Task
}

var demoUsers = []seedUser{
	{
		username: "alice",
		email:    "alice@example.com",
		password: "correct-horse",
		tasks: []model.Task{
			{Title: "Write project proposal", Description: "First draft for review", State: model.StateDoing},
			{Title: "Book flights", Description: "Conference in October", State: model.StateDraft},
			{Title: "Renew passport", Description: "", State: model.StateDone},
		},
	},
	{
		username: "bob",
		email:    "bob@example.com",
		password: "hunter2hunter2",
		tasks: []model.Task{
			{Title: "Fix garden fence", Description: "Storm damage on the north side", State: model.StateDraft},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	created, skipped := 0, 0
	for _, seed := range demoUsers {
		if _, err := userRepo.FindByUsername(ctx, seed.username); err == nil {
			log.Printf("User %s already exists, skipping", seed.username)
			skipped++
			continue
		}

		hashed, err := auth.HashPassword(seed.password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", seed.username, err)
		}

		user := &model.User{
			Username: seed.username,
			Email:    seed.email,
			Password: hashed,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", seed.username, err)
		}

		for _, task := range seed.tasks {
			task.UserID = user.ID
			if err := taskRepo.Create(ctx, &task); err != nil {
				log.Fatalf("Failed to create task %q for %s: %v", task.Title, seed.username, err)
			}
		}
		created++
	}

	log.Printf("Seed complete: %d users created, %d skipped", created, skipped)
}
