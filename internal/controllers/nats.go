package controllers

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VMAssignmentNotificationHandler consumes assignment jobs from the work queue and records a notification for each
// party of the transfer. Failures are logged; NATS jobs have no caller to report errors to.
func (s Server) VMAssignmentNotificationHandler(subject, reply string, job *model.VMAssignmentNotification) {
	log := log.WithFields(logrus.Fields{"context": "vm assignment job", "subject": subject})

	if job == nil {
		log.Error("received an empty assignment job")
		return
	}

	notifications := []model.Notification{
		{
			UserID:  &job.PreviousOwnerID,
			Message: fmt.Sprintf("Your virtual machine %s has been assigned to another user.", job.MachineName),
		},
		{
			UserID:  &job.NewOwnerID,
			Message: fmt.Sprintf("The virtual machine %s has been assigned to you.", job.MachineName),
		},
	}

	err := s.GORMDB.Transaction(func(tx *gorm.DB) error {
		return db.CreateNotifications(context.Background(), tx, notifications)
	})
	if err != nil {
		log.Error(err)
		return
	}

	log.Infof("recorded assignment notifications for virtual machine %s", job.MachineName)
}

// AccountStatusNotificationHandler consumes suspension jobs from the work queue and records a notification telling
// the customer about the change.
func (s Server) AccountStatusNotificationHandler(subject, reply string, job *model.AccountStatusNotification) {
	log := log.WithFields(logrus.Fields{"context": "account status job", "subject": subject})

	if job == nil {
		log.Error("received an empty account status job")
		return
	}

	message := "Your account has been reactivated. You can resume managing your virtual machines."
	if job.Suspended {
		message = "Your account has been suspended. Please contact support to resolve the issue."
	}

	notifications := []model.Notification{
		{
			UserID:  &job.UserID,
			Message: message,
		},
	}

	err := s.GORMDB.Transaction(func(tx *gorm.DB) error {
		return db.CreateNotifications(context.Background(), tx, notifications)
	})
	if err != nil {
		log.Error(err)
		return
	}

	log.Infof("recorded the account status notification for user %s", job.UserID)
}
