package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/researchx-app/researchx-gobackend/internal/models"
)

// UserService is the legacy local auth path: credentials land in our own
// user collection instead of the external auth provider.
type UserService struct {
	collection *mongo.Collection
	jwtSecret  []byte
}

func NewUserService(db *mongo.Database, jwtSecret string) *UserService {
	return &UserService{
		collection: db.Collection("user"),
		jwtSecret:  []byte(jwtSecret),
	}
}

func (s *UserService) Signup(ctx context.Context, fullName, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", validationErrorf("a valid email is required")
	}
	if len(password) < 8 {
		return "", validationErrorf("password must be at least 8 characters")
	}

	count, err := s.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		FullName:  strings.TrimSpace(fullName),
		Email:     email,
		HPassword: string(hashed),
		CreatedAt: time.Now(),
	}
	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}

	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Login verifies the password and returns a signed session token with the
// user it belongs to.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, validationErrorf("email and password are required")
	}

	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HPassword), []byte(password)); err != nil {
		return "", nil, validationErrorf("invalid email or password")
	}

	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}
