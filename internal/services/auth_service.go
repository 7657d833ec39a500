package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and accounts.
type AuthService struct {
	userRepo   repositories.UserRepository
	taskRepo   repositories.TaskRepository
	publisher  EventPublisher
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, taskRepo repositories.TaskRepository, publisher EventPublisher, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		publisher:  publisher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 30 * 24 * time.Hour, // Fixed 30-day expiry
	}
}

// seedTasks returns the sample tasks created for every new user.
func seedTasks(userID string) []models.Task {
	return []models.Task{
		{
			UserID:      userID,
			Title:       "Welcome to TaskManager!",
			Description: "This is a sample task. You can edit or delete it.",
			Status:      "pending",
			Priority:    "low",
		},
		{
			UserID:      userID,
			Title:       "Complete your profile",
			Description: "Update your profile information in the Profile section.",
			Status:      "in-progress",
			Priority:    "medium",
		},
		{
			UserID:      userID,
			Title:       "Create your first task",
			Description: "Click the \"+ New Task\" button to create your own task.",
			Status:      "pending",
			Priority:    "high",
		},
	}
}

// Register creates a new user, hashes their password, seeds their sample
// tasks, and returns the user together with a signed token.
func (s *AuthService) Register(name, email, password string) (*models.User, string, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	// Every new account starts with three sample tasks.
	for _, task := range seedTasks(user.ID) {
		task := task
		if err := s.taskRepo.Create(&task); err != nil {
			return nil, "", fmt.Errorf("failed to seed tasks for user %s: %w", user.ID, err)
		}
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.publishEvent("user.registered", map[string]interface{}{
		"userID": user.ID,
		"email":  user.Email,
		"time":   time.Now().Format(time.RFC3339),
	})

	return user, token, nil
}

// Login authenticates a user and returns the user with a signed token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUserByID resolves a user id to a live user record.
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the name and/or email of a user. Empty values mean
// "not provided" and leave the current value unchanged.
func (s *AuthService) UpdateProfile(userID, name, email string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %s: %w", userID, err)
	}
	return user, nil
}

// GenerateToken issues a signed JWT whose subject is the user id.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenDurat).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the user id it was
// issued for.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (s *AuthService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("tasks", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
