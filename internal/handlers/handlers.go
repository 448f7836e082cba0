package handlers

import (
	"localtube/internal/database"
	"localtube/internal/scanner"
	"localtube/internal/startup"
)

type Handlers struct {
	db            *database.Database
	scanner       *scanner.Scanner
	videosDir     string
	thumbnailsDir string
}

func New(db *database.Database, scan *scanner.Scanner, config *startup.Config) *Handlers {
	return &Handlers{
		db:            db,
		scanner:       scan,
		videosDir:     config.VideosDir,
		thumbnailsDir: config.ThumbnailsDir,
	}
}
