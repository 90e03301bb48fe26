// ABOUTME: Runs the in-memory mock CRM backend on a local port
// ABOUTME: Used for demos and manual testing of the crmdesk CLI and TUI
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/harperreed/crmdesk/logging"
	"github.com/harperreed/crmdesk/mockapi"
)

func main() {
	port := flag.Int("port", 8081, "Port to listen on")
	token := flag.String("token", os.Getenv("CRMDESK_API_TOKEN"), "Bearer token clients must send (empty disables auth)")
	demo := flag.Bool("demo", true, "Seed demo data")
	flag.Parse()

	logging.Init("mockapi", os.Getenv("LOG_LEVEL"))

	srv := mockapi.New(*token, mockapi.WithLogger(logging.Logger))
	if *demo {
		if err := mockapi.SeedDemo(srv); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	addr := fmt.Sprintf(":%d", *port)
	logging.Logger.Infof("mock backend listening on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("Mock backend failed: %v", err)
	}
}
