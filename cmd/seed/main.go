package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/smile19439/forum-express-grading/internal/config"
	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/pkg/database"
	pkglog "github.com/smile19439/forum-express-grading/pkg/log"
)

// Seeds the database with an admin, regular users, restaurants, three
// reviews per user, and a sprinkling of follows, favorites, and likes.
// Intended for development environments; running twice will fail on the
// admin's unique email.

const seedPassword = "12345678"

var commentTexts = []string{
	"Great food and friendly staff.",
	"A bit pricey but worth it.",
	"Would definitely come back.",
	"The wait was too long for what we got.",
	"Best dish I've had in months.",
	"Average at best, nothing memorable.",
	"Cozy place, perfect for a date night.",
	"Portions are generous, service is quick.",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, ServiceName: "forum-seed"})
	logger := pkglog.L()

	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.RestaurantModel{},
		&domain.CommentModel{},
		&domain.FavoriteModel{},
		&domain.LikeModel{},
		&domain.FollowshipModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()
	users := repository.NewGormUserRepository(db)
	restaurants := repository.NewGormRestaurantRepository(db)
	comments := repository.NewGormCommentRepository(db)
	favorites, err := repository.NewGormRelationRepository(db, domain.RelationFavorite)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build favorite repository")
	}
	likes, err := repository.NewGormRelationRepository(db, domain.RelationLike)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build like repository")
	}
	follows, err := repository.NewGormRelationRepository(db, domain.RelationFollowship)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build followship repository")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash seed password")
	}

	// Admin first, then the numbered users.
	admin := &domain.User{Name: "root", Email: "root@example.com", PasswordHash: string(hashed), IsAdmin: true}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin (already seeded?)")
	}

	seeded := make([]*domain.User, 0, cfg.Seed.Users)
	for i := 1; i <= cfg.Seed.Users; i++ {
		u := &domain.User{
			Name:         fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hashed),
		}
		if err := users.Create(ctx, u); err != nil {
			logger.Fatal().Err(err).Int("index", i).Msg("failed to create user")
		}
		seeded = append(seeded, u)
	}
	logger.Info().Int("count", len(seeded)+1).Msg("users seeded")

	restaurantIDs := make([]string, 0, cfg.Seed.Restaurants)
	for i := 1; i <= cfg.Seed.Restaurants; i++ {
		r := &domain.Restaurant{
			Name:         fmt.Sprintf("Restaurant %d", i),
			Tel:          fmt.Sprintf("02-1234-%04d", i),
			Address:      fmt.Sprintf("%d Example Road", i),
			OpeningHours: "08:00",
			Description:  fmt.Sprintf("Seeded restaurant number %d.", i),
		}
		if err := restaurants.Create(ctx, r); err != nil {
			logger.Fatal().Err(err).Int("index", i).Msg("failed to create restaurant")
		}
		restaurantIDs = append(restaurantIDs, r.ID)
	}
	logger.Info().Int("count", len(restaurantIDs)).Msg("restaurants seeded")

	// Three reviews per user at random restaurants.
	for _, u := range seeded {
		for j := 0; j < 3; j++ {
			c := &domain.Comment{
				Text:         commentTexts[rand.Intn(len(commentTexts))],
				UserID:       u.ID,
				RestaurantID: restaurantIDs[rand.Intn(len(restaurantIDs))],
			}
			if err := comments.Create(ctx, c); err != nil {
				logger.Fatal().Err(err).Msg("failed to create comment")
			}
		}
	}
	logger.Info().Int("count", len(seeded)*3).Msg("comments seeded")

	// Each user follows a couple of others and favorites/likes a couple
	// of restaurants. Duplicate picks just hit the unique index and are
	// skipped.
	for _, u := range seeded {
		for j := 0; j < 2; j++ {
			target := seeded[rand.Intn(len(seeded))]
			if target.ID == u.ID {
				continue
			}
			if err := follows.Add(ctx, u.ID, target.ID); err != nil && !errors.Is(err, repository.ErrRelationExists) {
				logger.Fatal().Err(err).Msg("failed to seed followship")
			}
		}
		for j := 0; j < 2; j++ {
			rid := restaurantIDs[rand.Intn(len(restaurantIDs))]
			if err := favorites.Add(ctx, u.ID, rid); err != nil && !errors.Is(err, repository.ErrRelationExists) {
				logger.Fatal().Err(err).Msg("failed to seed favorite")
			}
			if err := likes.Add(ctx, u.ID, rid); err != nil && !errors.Is(err, repository.ErrRelationExists) {
				logger.Fatal().Err(err).Msg("failed to seed like")
			}
		}
	}

	logger.Info().Msg("seeding complete")
}
