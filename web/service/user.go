// Package service implements the business operations of sidac-ui.
package service

import (
	"errors"

	"github.com/sidac/sidac-ui/database"
	"github.com/sidac/sidac-ui/database/model"
	"github.com/sidac/sidac-ui/logger"
	"github.com/sidac/sidac-ui/util/crypto"
)

// ErrUserExists is returned when the username or email is already registered.
var ErrUserExists = errors.New("username or email already registered")

type UserService struct{}

// CreateUser hashes the plaintext password and inserts a new user row.
// Uniqueness of username and email is enforced by the database indexes, so a
// concurrent duplicate attempt surfaces as ErrUserExists as well.
func (s *UserService) CreateUser(username string, email string, password string) (*model.User, error) {
	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}
	err = db.Create(user).Error
	if database.IsDuplicate(err) {
		return nil, ErrUserExists
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser verifies a credential pair against the stored hash. It returns
// nil both for an unknown username and for a wrong password, so callers
// cannot tell the two apart.
func (s *UserService) CheckUser(username string, password string) *model.User {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}

	return user
}

// GetUserById resolves a stored session reference back to a user row.
func (s *UserService) GetUserById(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CountUsers returns the number of registered users.
func (s *UserService) CountUsers() (int64, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
