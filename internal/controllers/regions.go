package controllers

import (
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/httpmodel"
	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// GetAllRegions lists the regions where virtual machines can be placed.
func (s Server) GetAllRegions(ctx echo.Context) error {
	context := ctx.Request().Context()

	regions, err := db.ListRegions(context, s.GORMDB)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	return model.Success(ctx, regions, http.StatusOK)
}

// AddRegion adds a region. Only admins may manage reference data. Adding a region whose slug already exists updates
// the region name instead.
func (s Server) AddRegion(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "add-region"})
	context := ctx.Request().Context()

	if _, err = s.RequireAdmin(ctx); err != nil {
		return nil
	}

	// Parse and validate the request body.
	var body httpmodel.NewRegion
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	region := &model.Region{
		Name: body.Name,
		Slug: utils.Slugify(body.Name),
	}
	if err = db.UpsertRegion(context, s.GORMDB, region); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, region, http.StatusOK)
}

// GetAllOSVersions lists the installable operating system versions.
func (s Server) GetAllOSVersions(ctx echo.Context) error {
	context := ctx.Request().Context()

	versions, err := db.ListOSVersions(context, s.GORMDB)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	return model.Success(ctx, versions, http.StatusOK)
}

// AddOSVersion adds a version of an operating system, creating the operating system row if it doesn't exist yet. Only
// admins may manage reference data.
func (s Server) AddOSVersion(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "add-os-version"})
	context := ctx.Request().Context()

	if _, err = s.RequireAdmin(ctx); err != nil {
		return nil
	}

	// Parse and validate the request body.
	var body httpmodel.NewOSVersion
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	version, err := db.AddOSVersion(context, s.GORMDB, body.OperatingSystem, body.Version)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, version, http.StatusOK)
}
