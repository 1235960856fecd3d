package controllers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/internal/payments"
	"github.com/autovm/autovm/logging"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "controllers"})

// RemoteUserHeader is the header the authentication proxy uses to convey the requesting user.
const RemoteUserHeader = "X-Remote-User"

// Server defines the REST API of the AutoVM service.
type Server struct {
	Router   *echo.Echo
	DB       *sql.DB
	GORMDB   *gorm.DB
	Service  string
	Title    string
	Version  string
	NATSConn *nats.EncodedConn
	Payments payments.Client

	// Fully qualified NATS subjects for the background notification jobs.
	VMAssignmentSubject  string
	AccountStatusSubject string
}

// ServiceInfo describes the service in the root endpoint responses.
type ServiceInfo struct {
	Service     string `json:"service"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	APIVersion  string `json:"api_version,omitempty"`
	Description string `json:"description,omitempty"`
}

// RootHandler handles GET requests to the base URL, which acts as a health check endpoint.
func (s Server) RootHandler(ctx echo.Context) error {
	resp := ServiceInfo{Service: s.Service, Title: s.Title, Version: s.Version}
	return ctx.JSON(http.StatusOK, resp)
}

// V1RootHandler handles GET requests to the /v1 endpoint.
func (s Server) V1RootHandler(ctx echo.Context) error {
	resp := ServiceInfo{Service: s.Service, Title: s.Title, Version: s.Version, APIVersion: "v1"}
	return ctx.JSON(http.StatusOK, resp)
}

// RequestingUser resolves the user making the request from the remote user header. The service runs behind the
// platform authentication proxy, so the header is trusted. If an error occurs during the lookup then the appropriate
// response will be sent to the caller and an error will be returned.
func (s Server) RequestingUser(ctx echo.Context) (*model.User, error) {
	username := ctx.Request().Header.Get(RemoteUserHeader)
	if username == "" {
		msg := fmt.Sprintf("missing the %s header", RemoteUserHeader)
		sendErr := model.Error(ctx, msg, http.StatusBadRequest)
		if sendErr != nil {
			ctx.Logger().Errorf("unable to send response: %s", sendErr.Error())
		}
		return nil, fmt.Errorf("%s", msg)
	}

	user, err := db.GetUser(ctx.Request().Context(), s.GORMDB, username)
	if err != nil {
		sendErr := model.BusinessError(ctx, err)
		if sendErr != nil {
			ctx.Logger().Errorf("unable to send response: %s", sendErr.Error())
		}
		return nil, err
	}
	return user, nil
}

// RequireAdmin resolves the requesting user and verifies that the user may manage the platform. If the check fails
// then the appropriate response will be sent to the caller and an error will be returned.
func (s Server) RequireAdmin(ctx echo.Context) (*model.User, error) {
	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.Role.ManagesPlatform() {
		msg := "you are not authorized to perform this action"
		sendErr := model.Error(ctx, msg, http.StatusForbidden)
		if sendErr != nil {
			ctx.Logger().Errorf("unable to send response: %s", sendErr.Error())
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return user, nil
}

// publishNotification enqueues a background notification job. Delivery is best effort: a publish failure is logged
// and never affects the outcome of the operation that triggered it.
func (s Server) publishNotification(log *logrus.Entry, subject string, job interface{}) {
	if s.NATSConn == nil {
		log.Warn("notifications are disabled; no NATS connection")
		return
	}
	if err := s.NATSConn.Publish(subject, job); err != nil {
		log.Errorf("unable to publish the notification job: %s", err)
	}
}
