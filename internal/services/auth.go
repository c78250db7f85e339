package services

import (
	"fmt"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
	GenerateTokens(db *gorm.DB, user *models.User) (*TokenPair, error)
	RefreshTokens(db *gorm.DB, refreshToken string) (*TokenPair, error)
	RevokeToken(db *gorm.DB, refreshToken string) error
}

type AuthServiceImpl struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService signs and verifies every token with the one secret it is
// handed, the same one the authz middleware verifies with.
func NewAuthService(secret string, accessTTL, refreshTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return nil, err
	}
	if !VerifyPassword(user.Password, password) {
		return nil, gorm.ErrInvalidData
	}
	return &user, nil
}

// GenerateTokens signs an access token carrying the profile claims plus a
// jti-tracked refresh token stored in the tokens table.
func (s *AuthServiceImpl) GenerateTokens(db *gorm.DB, user *models.User) (*TokenPair, error) {
	secret := s.secret
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	accessClaims := jwt.MapClaims{
		"user_id":            user.ID.String(),
		"email":              user.Email,
		"preferred_language": user.PreferredLanguage,
		"iat":                now.Unix(),
		"exp":                expiresAt.Unix(),
		"iss":                "bluespace-backend",
		"aud":                "bluespace-users",
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	jti, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate jti: %w", err)
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshClaims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"type":    "refresh",
		"jti":     jti.String(),
		"iat":     now.Unix(),
		"exp":     refreshExpiry.Unix(),
		"iss":     "bluespace-backend",
		"aud":     "bluespace-users",
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := models.Token{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       user.ID,
		JTI:          jti,
		RefreshToken: refreshToken,
		ExpiresAt:    refreshExpiry,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create token record: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Unix(),
	}, nil
}

// RefreshTokens rotates a refresh token: the presented jti must still exist
// and be unexpired, and is deleted once new tokens are issued.
func (s *AuthServiceImpl) RefreshTokens(db *gorm.DB, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseRefreshClaims(refreshToken)
	if err != nil {
		return nil, err
	}

	jti, userID, err := refreshTokenIDs(claims)
	if err != nil {
		return nil, err
	}

	var dbToken models.Token
	err = db.Where("jti = ? AND user_id = ? AND expires_at > ?", jti, userID, time.Now()).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("refresh token not found or expired")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	pair, err := s.GenerateTokens(db, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	if err := db.Delete(&dbToken).Error; err != nil {
		return nil, fmt.Errorf("failed to delete old token: %w", err)
	}

	return pair, nil
}

func (s *AuthServiceImpl) RevokeToken(db *gorm.DB, refreshToken string) error {
	claims, err := s.parseRefreshClaims(refreshToken)
	if err != nil {
		return err
	}

	jti, _, err := refreshTokenIDs(claims)
	if err != nil {
		return err
	}

	return db.Where("jti = ?", jti).Delete(&models.Token{}).Error
}

func (s *AuthServiceImpl) parseRefreshClaims(refreshToken string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return nil, fmt.Errorf("invalid token type")
	}

	return claims, nil
}

func refreshTokenIDs(claims jwt.MapClaims) (jti, userID uuid.UUID, err error) {
	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, fmt.Errorf("missing jti in token")
	}
	jti, err = uuid.FromString(jtiStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid jti format: %w", err)
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, fmt.Errorf("missing user_id in token")
	}
	userID, err = uuid.FromString(userIDStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user_id format: %w", err)
	}

	return jti, userID, nil
}
