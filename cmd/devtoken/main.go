// cmd/devtoken/main.go mints an access token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/pkg/auth"
)

func main() {
	userID := flag.Uint("user", 0, "user id to embed in the token")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", auth.RoleCustomer, "role claim (customer, seller, admin)")
	flag.Parse()

	if *userID == 0 {
		log.Fatal("Usage: go run ./cmd/devtoken -user <id> [-email <email>] [-role <role>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(*userID, *email, *role)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
