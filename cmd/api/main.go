package main

import (
	"os"

	"github.com/yigit/unirecords/internal/bootstrap"
	"github.com/yigit/unirecords/internal/pkg/logger"
	"github.com/yigit/unirecords/internal/server"
)

// @title Records API
// @version 1.0
// @description Academic records: students, courses, enrollments, grades and GPA
// @BasePath /api/v1
// @schemes http

func main() {
	configPath := bootstrap.DefaultConfigPath
	if p := os.Getenv("RECORDS_CONFIG"); p != "" {
		configPath = p
	}

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
