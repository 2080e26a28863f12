// Command devtoken prints a signed access token for local testing against
// the API. It uses the same JWT_SECRET and JWT_TTL as the server.
package main

import (
	"flag"
	"fmt"
	"log"

	"staffing_backend/internal/config"
	"staffing_backend/pkg/utils"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token (required)")
	username := flag.String("name", "", "display name")
	role := flag.String("role", "Manager", "role: Admin, Manager or Employee")
	flag.Parse()

	if *userID == "" {
		log.Fatal("devtoken: -user is required")
	}

	cfg := config.Load()
	if cfg.IsProduction() {
		log.Fatal("devtoken: refusing to issue tokens with APP_ENV=production")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	token, err := utils.GenerateAccessToken(*userID, *username, *role, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("devtoken: %v", err)
	}
	fmt.Println(token)
}
