package main

import (
	"fmt"
	"log"

	"github.com/adcalc/internal/config"
	"github.com/adcalc/internal/web"
)

func main() {
	// Load environment configuration
	config.LoadEnv()

	fmt.Println("=== Broadcast Cost Calculator API ===")

	webConfig := web.ConfigFromEnv()
	fmt.Printf("Server: http://%s:%d\n", webConfig.Server.Host, webConfig.Server.Port)
	fmt.Printf("Database: %s (%s)\n", webConfig.Database.Target, webConfig.Database.Driver)

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Printf("\nStarting web server on http://%s:%d\n", webConfig.Server.Host, webConfig.Server.Port)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
