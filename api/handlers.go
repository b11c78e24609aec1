package api

import (
	"github.com/rpupo63/linkedfolio-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, ingestor Ingestor, maxUploadBytes int64) *routeHandlers {
	return &routeHandlers{
		profileHandler: newProfileHandler(database.ProfileRepo()),
		uploadHandler:  newUploadHandler(ingestor, maxUploadBytes),
	}
}
