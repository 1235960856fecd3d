package db

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureUser looks up the user with the given username, adding the user to the database if necessary. The email,
// name, and role are only applied when the user is first created.
func EnsureUser(ctx context.Context, db *gorm.DB, username, email, name string, role model.Role) (*model.User, error) {
	wrapMsg := "unable to look up or add the user"
	var err error

	user := model.User{Username: username, Email: email, Name: name, Role: role}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).
		Create(&user).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// The generated ID isn't populated when the row already existed.
	if user.ID == nil {
		return GetUser(ctx, db, username)
	}
	return &user, nil
}

// GetUser looks up the user with the given username.
func GetUser(ctx context.Context, db *gorm.DB, username string) (*model.User, error) {
	wrapMsg := fmt.Sprintf("unable to look up user '%s'", username)
	var err error

	var user model.User
	err = db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrapf(model.ErrNotFound, "user %s", username)
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &user, nil
}

// GetUserByID looks up the user with the given identifier.
func GetUserByID(ctx context.Context, db *gorm.DB, userID string) (*model.User, error) {
	wrapMsg := fmt.Sprintf("unable to look up user ID '%s'", userID)
	var err error

	var user model.User
	err = db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrapf(model.ErrNotFound, "user ID %s", userID)
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &user, nil
}

// ListUsers lists the users registered in the database.
func ListUsers(ctx context.Context, db *gorm.DB) ([]model.User, error) {
	wrapMsg := "unable to list users"

	var users []model.User
	err := db.WithContext(ctx).Order("username").Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return users, nil
}
