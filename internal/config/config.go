package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Database Database `koanf:"db"`
	Auth     Auth     `koanf:"auth"`
}

type Database struct {
	// Path of the SQLite file, ":memory:" for a throwaway store.
	Path          string `koanf:"path"`
	BusyTimeoutMs int    `koanf:"busytimeoutms"`
}

type Auth struct {
	Secret     string        `koanf:"secret"`
	AccessTTL  time.Duration `koanf:"accessttl"`
	RefreshTTL time.Duration `koanf:"refreshttl"`
	BcryptCost int           `koanf:"bcryptcost"`
}

func Defaults() Application {
	return Application{
		Listen: "127.0.0.1:8282",
		Database: Database{
			Path:          "data/gestfin.db",
			BusyTimeoutMs: 5000,
		},
		Auth: Auth{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 30 * 24 * time.Hour,
			BcryptCost: 10,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "GESTFIN_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "GESTFIN_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
