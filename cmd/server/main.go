package main

import (
	"multirag/internal/config"
	"multirag/internal/server"
	"multirag/internal/util"
	"multirag/pkg/logger"
	"multirag/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg := config.Load()

	server.Init(cfg)
}
