package main

import (
	"errors"
	"os"
	"strconv"

	"vetcare-backend/config"
	"vetcare-backend/internal/infrastructure/database"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
)

const usage = "usage: migrate up | down [steps] | version | force <version>"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		logrus.Fatal(usage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	m, err := database.NewMigrator(cfg.DB)
	if err != nil {
		logrus.Fatal(err)
	}
	defer m.Close()

	if err := run(m, os.Args[1], os.Args[2:]); err != nil {
		logrus.Fatal(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logrus.Fatal(err)
	}
	logrus.Infof("Schema version %d (dirty=%t)", version, dirty)
}

func run(m *migrate.Migrate, command string, args []string) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		if len(args) == 0 {
			err = m.Steps(-1)
			break
		}
		steps, convErr := strconv.Atoi(args[0])
		if convErr != nil || steps <= 0 {
			return errors.New("down expects a positive step count")
		}
		err = m.Steps(-steps)
	case "force":
		if len(args) == 0 {
			return errors.New(usage)
		}
		version, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return errors.New("force expects a numeric version")
		}
		err = m.Force(version)
	case "version":
		return nil
	default:
		return errors.New(usage)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logrus.Info("No migrations to apply")
		return nil
	}
	return err
}
