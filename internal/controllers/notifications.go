package controllers

import (
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// GetNotifications lists the requesting user's notifications, newest first.
func (s Server) GetNotifications(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing notifications"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	notifications, err := db.ListNotificationsForUser(context, s.GORMDB, *user.ID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, notifications, http.StatusOK)
}

// MarkNotificationRead flags one of the requesting user's notifications as read. Notifications addressed to other
// users are reported as not found.
func (s Server) MarkNotificationRead(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "marking notification read"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	notificationID := ctx.Param("notification_id")
	if notificationID == "" {
		return model.Error(ctx, "invalid notification ID", http.StatusBadRequest)
	}

	if err = db.MarkNotificationRead(context, s.GORMDB, notificationID, *user.ID); err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	return model.Success(ctx, "notification marked as read", http.StatusOK)
}
