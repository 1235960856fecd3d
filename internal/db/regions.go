package db

import (
	"context"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListRegions lists the regions where virtual machines can be placed.
func ListRegions(ctx context.Context, db *gorm.DB) ([]model.Region, error) {
	wrapMsg := "unable to list regions"

	var regions []model.Region
	err := db.WithContext(ctx).Order("name").Find(&regions).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return regions, nil
}

// GetRegionByID looks up the region with the given identifier.
func GetRegionByID(ctx context.Context, db *gorm.DB, regionID string) (*model.Region, error) {
	wrapMsg := "unable to look up the region"
	var err error

	var region model.Region
	err = db.WithContext(ctx).Where("id = ?", regionID).First(&region).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrap(model.ErrNotFound, "region")
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &region, nil
}

// UpsertRegion adds a region, updating the name if a region with the same slug already exists.
func UpsertRegion(ctx context.Context, db *gorm.DB, region *model.Region) error {
	wrapMsg := "unable to add the region"

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(region).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// ListOSVersions lists the installable operating system versions.
func ListOSVersions(ctx context.Context, db *gorm.DB) ([]model.OperatingSystemVersion, error) {
	wrapMsg := "unable to list operating system versions"

	var versions []model.OperatingSystemVersion
	err := db.WithContext(ctx).
		Preload("OperatingSystem").
		Joins("JOIN operating_systems ON operating_system_versions.operating_system_id = operating_systems.id").
		Order("operating_systems.name, operating_system_versions.version").
		Find(&versions).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return versions, nil
}

// GetOSVersionByID looks up the operating system version with the given identifier.
func GetOSVersionByID(ctx context.Context, db *gorm.DB, versionID string) (*model.OperatingSystemVersion, error) {
	wrapMsg := "unable to look up the operating system version"
	var err error

	var version model.OperatingSystemVersion
	err = db.WithContext(ctx).
		Preload("OperatingSystem").
		Where("id = ?", versionID).
		First(&version).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrap(model.ErrNotFound, "operating system version")
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &version, nil
}

// AddOSVersion adds a version of an operating system, creating the operating system row if necessary.
func AddOSVersion(ctx context.Context, db *gorm.DB, osName, version string) (*model.OperatingSystemVersion, error) {
	wrapMsg := "unable to add the operating system version"
	var err error

	// Look up or add the operating system.
	os := model.OperatingSystem{Name: osName}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&os).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if os.ID == nil {
		err = db.WithContext(ctx).Where("name = ?", osName).First(&os).Error
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
	}

	// Add the version.
	osVersion := model.OperatingSystemVersion{
		OperatingSystemID: os.ID,
		Version:           version,
	}
	err = db.WithContext(ctx).Create(&osVersion).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	osVersion.OperatingSystem = &os

	return &osVersion, nil
}
