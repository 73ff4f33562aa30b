package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/internal/config"
	"github.com/jakechorley/trainer-directory/pkg/clients/sheetsclient"
	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
	"github.com/jakechorley/trainer-directory/pkg/httpapi"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client // nil when no trainer sheet is configured
	Database     httpapi.Store
	Geocoder     proximity.Geocoder
	Sorter       *listing.Sorter
	Cycle        *availability.Cycle
	Location     *time.Location
	Logger       *zap.Logger
	Ctx          context.Context

	// Ranker keeps the resolved place for the whole session so that
	// listing again does not geocode again
	Ranker *proximity.Ranker

	// LastListing holds the parameters of the previous listTrainers run
	LastListing services.ListTrainersParams
}

func (a *AppContext) now() time.Time {
	return time.Now().In(a.Location)
}
