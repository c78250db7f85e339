package services

import (
	"errors"
	"strings"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already registered")

type RegisterService interface {
	RegisterUser(db *gorm.DB, email, password, fullName, preferredLanguage string) (*models.User, error)
}

type RegisterServiceImpl struct{}

func NewRegisterService() *RegisterServiceImpl {
	return &RegisterServiceImpl{}
}

func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, email, password, fullName, preferredLanguage string) (*models.User, error) {
	email = strings.TrimSpace(email)

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	if preferredLanguage == "" {
		preferredLanguage = "en"
	}

	user := models.User{
		ID:                uuid.Must(uuid.NewV4()),
		Email:             email,
		Password:          hashedPassword,
		FullName:          fullName,
		PreferredLanguage: preferredLanguage,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
