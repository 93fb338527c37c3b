package main

import (
	"os"

	"github.com/gestfin/gestfin/internal/app"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not load .env: %v", err)
	}

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	configPath := os.Getenv("GESTFIN_CONFIG")
	if configPath == "" {
		configPath = "./config/application.yaml"
	}
	application, err := app.NewApplication(configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
