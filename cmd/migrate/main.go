// Comando migrate aplica las migraciones embebidas de PostgreSQL.
//
//	migrate [-log-level info] up | down | steps N | version
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/fulfillment-core/internal/infrastructure/postgres"
	"github.com/jhoicas/fulfillment-core/pkg/config"
	"github.com/jhoicas/fulfillment-core/pkg/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: logLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migrador")
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) < 2 {
			printUsage()
			os.Exit(1)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("steps requiere un entero")
		}
		err = m.Steps(n)
	case "version":
		v, dirty, vErr := m.Version()
		err = vErr
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión actual")
		}
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migración fallida")
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-log-level nivel] up | down | steps N | version")
}
