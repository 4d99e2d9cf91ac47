package auth

import (
	"errors"
	"fmt"

	"github.com/budgetshare/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the minimum number of characters of a password.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort   = fmt.Errorf("%w: the password must have at least %d characters", models.ErrValidation, MinPasswordLength)
	ErrInvalidCredentials = errors.New("the email address or password is wrong")
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a new user.
func Register(db *gorm.DB, name, email, password string) (models.User, error) {
	if len([]rune(password)) < MinPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	err = db.Create(&user).Error
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login checks the credentials and returns the user they belong to.
//
// Unknown addresses and wrong passwords return the same error.
func Login(db *gorm.DB, email, password string) (models.User, error) {
	var user models.User
	err := db.Where(&models.User{Email: models.NormalizeEmail(email)}).First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, ErrInvalidCredentials
	} else if err != nil {
		return models.User{}, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}
