package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-blog/pkg/cache"
	"recipe-blog/pkg/config"
	"recipe-blog/pkg/database"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// topIngredientsCacheKey mirrors the recipe service cache key so seeded
// posts show up in the ranking immediately.
const topIngredientsCacheKey = "ingredients:top"

type seedUser struct {
	email    string
	username string
	password string
	role     models.UserRole
}

type seedComment struct {
	author   string
	text     string
	approved bool
}

type seedPost struct {
	author      string
	title       string
	description string
	difficulty  models.Difficulty
	ingredients []string
	published   bool
	likedBy     []string
	rates       map[string]int
	comments    []seedComment
}

var testUsers = []seedUser{
	{"alice@test.com", "alice", "password123", models.RoleMember},
	{"bob@test.com", "bob", "password123", models.RoleMember},
	{"charlie@test.com", "charlie", "password123", models.RoleMember},
	{"moderator@test.com", "moderator", "password123", models.RoleModerator},
}

var testPosts = []seedPost{
	{
		author:      "alice",
		title:       "Buttermilk Pancakes",
		description: "Whisk the dry ingredients, fold in the wet ones and fry in butter.",
		difficulty:  models.DifficultyEasy,
		ingredients: []string{"flour", "egg", "buttermilk", "butter", "sugar"},
		published:   true,
		likedBy:     []string{"bob", "charlie"},
		rates:       map[string]int{"bob": 5, "charlie": 4},
		comments: []seedComment{
			{"bob", "Made these twice this week.", true},
			{"charlie", "Can I use oat milk instead?", false},
		},
	},
	{
		author:      "bob",
		title:       "Sourdough Loaf",
		description: "A slow overnight rise gives the crumb its open texture.",
		difficulty:  models.DifficultyHard,
		ingredients: []string{"flour", "water", "salt", "sourdough starter"},
		published:   true,
		likedBy:     []string{"alice"},
		rates:       map[string]int{"alice": 3},
		comments: []seedComment{
			{"alice", "How long do you bulk ferment?", true},
		},
	},
	{
		author:      "charlie",
		title:       "Shakshuka",
		description: "Eggs poached in a spiced tomato and pepper sauce.",
		difficulty:  models.DifficultyMedium,
		ingredients: []string{"egg", "tomato", "red pepper", "onion", "cumin"},
		published:   true,
		rates:       map[string]int{"alice": 5, "bob": 4},
	},
	{
		author:      "alice",
		title:       "Lemon Drizzle Cake",
		description: "Still testing the glaze ratio.",
		difficulty:  models.DifficultyMedium,
		ingredients: []string{"flour", "egg", "butter", "sugar", "lemon"},
		published:   false,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "seed")
	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (cache will expire on its own)", err)
		redisClient = nil
	}

	if err := seedDatabase(context.Background(), db, redisClient, log, time.Now().UTC()); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase is safe to run repeatedly: existing users and posts are kept.
func seedDatabase(ctx context.Context, db *gorm.DB, redisClient *redis.Client, log *logger.Logger, now time.Time) error {
	db = db.WithContext(ctx)

	userIDs := make(map[string]string, len(testUsers))
	for _, userData := range testUsers {
		id, err := ensureUser(db, userData, log)
		if err != nil {
			return err
		}
		userIDs[userData.username] = id
	}

	for i, postData := range testPosts {
		createdAt := now.Add(time.Duration(i-len(testPosts)) * time.Hour)
		if err := ensurePost(db, postData, userIDs, createdAt, log); err != nil {
			return fmt.Errorf("seed post %q: %w", postData.title, err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Del(ctx, topIngredientsCacheKey).Err(); err != nil {
			log.Warn("Failed to drop top ingredients cache: %v", err)
		}
	}
	return nil
}

func ensureUser(db *gorm.DB, userData seedUser, log *logger.Logger) (string, error) {
	var existingUser models.User
	err := db.Where("email = ? OR username = ?", userData.email, userData.username).First(&existingUser).Error
	if err == nil {
		log.Info("User %s already exists, skipping", userData.username)
		return existingUser.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password for %s: %w", userData.username, err)
	}

	user := &models.User{
		Email:    userData.email,
		Username: userData.username,
		Password: string(hashedPassword),
		Role:     userData.role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return "", fmt.Errorf("create user %s: %w", userData.username, err)
	}

	log.Info("Created user: %s (%s, %s)", user.Username, user.Email, user.Role)
	return user.ID, nil
}

func ensurePost(db *gorm.DB, postData seedPost, userIDs map[string]string, createdAt time.Time, log *logger.Logger) error {
	authorID := userIDs[postData.author]

	var count int64
	if err := db.Model(&models.Post{}).Where("author_id = ? AND title = ?", authorID, postData.title).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Post %q already exists, skipping", postData.title)
		return nil
	}

	ingredients := make([]models.Ingredient, 0, len(postData.ingredients))
	for _, name := range postData.ingredients {
		var ingredient models.Ingredient
		if err := db.Where(models.Ingredient{Name: models.NormalizeIngredientName(name)}).FirstOrCreate(&ingredient).Error; err != nil {
			return fmt.Errorf("ingredient %q: %w", name, err)
		}
		ingredients = append(ingredients, ingredient)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		post := &models.Post{
			AuthorID:    authorID,
			Title:       postData.title,
			Description: postData.description,
			Difficulty:  postData.difficulty,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
			Ingredients: ingredients,
		}
		if postData.published {
			post.Publish(authorID, createdAt)
		}
		if err := tx.Omit("Ingredients.*").Create(post).Error; err != nil {
			return err
		}

		for _, username := range postData.likedBy {
			if err := tx.Create(&models.Like{PostID: post.ID, UserID: userIDs[username]}).Error; err != nil {
				return err
			}
		}
		for username, point := range postData.rates {
			if err := tx.Create(&models.Rate{PostID: post.ID, UserID: userIDs[username], Point: point}).Error; err != nil {
				return err
			}
		}
		for i, c := range postData.comments {
			comment := &models.Comment{
				PostID:    post.ID,
				Author:    c.author,
				Text:      c.text,
				CreatedAt: createdAt.Add(time.Duration(i+1) * time.Minute),
			}
			if err := tx.Create(comment).Error; err != nil {
				return err
			}
			if c.approved {
				if err := tx.Model(comment).Update("approved", true).Error; err != nil {
					return err
				}
			}
		}

		state := "draft"
		if postData.published {
			state = "published"
		}
		log.Info("Created %s post: %s by %s", state, post.Title, postData.author)
		return nil
	})
}
