package db

import (
	"context"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddVMHistory appends an audit log entry for an action performed on a virtual machine.
func AddVMHistory(ctx context.Context, db *gorm.DB, vmID, actorID, action, description string) error {
	wrapMsg := "unable to record the virtual machine history entry"

	entry := model.VirtualMachineHistory{
		VirtualMachineID: &vmID,
		UserID:           &actorID,
		Action:           action,
		Description:      description,
	}
	err := db.WithContext(ctx).Create(&entry).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// ListVMHistory lists audit log entries, optionally restricted to a single virtual machine.
func ListVMHistory(ctx context.Context, db *gorm.DB, vmID string) ([]model.VirtualMachineHistory, error) {
	wrapMsg := "unable to list virtual machine history"

	query := db.WithContext(ctx).
		Preload("VirtualMachine").
		Preload("User").
		Order("created_at desc")
	if vmID != "" {
		query = query.Where("virtual_machine_id = ?", vmID)
	}

	var entries []model.VirtualMachineHistory
	err := query.Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return entries, nil
}

// CreateNotifications stores a batch of notifications in a single insert.
func CreateNotifications(ctx context.Context, db *gorm.DB, notifications []model.Notification) error {
	wrapMsg := "unable to create notifications"

	if len(notifications) == 0 {
		return nil
	}
	err := db.WithContext(ctx).Create(&notifications).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// ListNotificationsForUser lists the notifications addressed to the given user, newest first.
func ListNotificationsForUser(ctx context.Context, db *gorm.DB, userID string) ([]model.Notification, error) {
	wrapMsg := "unable to list notifications"

	var notifications []model.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read. The user ID guards against marking someone else's notification.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, notificationID, userID string) error {
	wrapMsg := "unable to mark the notification as read"

	result := db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", notificationID).
		Where("user_id = ?", userID).
		UpdateColumn("read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, wrapMsg)
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(model.ErrNotFound, "notification")
	}
	return nil
}
