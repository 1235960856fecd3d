package controllers

import (
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// swagger:route GET /v1/plans plans listPlans
//
// List Rate Plans
//
// Lists the rate plans that accounts can subscribe to.
//
// responses:
//   200: planListing
//   500: internalServerErrorResponse

// GetAllPlans lists the rate plans that are currently defined in the database.
func (s Server) GetAllPlans(ctx echo.Context) error {
	context := ctx.Request().Context()

	plans, err := db.ListRatePlans(context, s.GORMDB)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	return model.Success(ctx, plans, http.StatusOK)
}

// GetPlanByID returns the details of the rate plan with the given identifier.
func (s Server) GetPlanByID(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting plan by ID"})

	context := ctx.Request().Context()

	planID := ctx.Param("plan_id")
	if planID == "" {
		return model.Error(ctx, "invalid plan ID", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"plan": planID})

	plan, err := db.GetRatePlanByID(context, s.GORMDB, planID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	if plan == nil {
		return model.Error(ctx, "plan not found", http.StatusNotFound)
	}

	return model.Success(ctx, plan, http.StatusOK)
}
