// Command devtoken prints a bearer token for local testing. Production tokens
// are issued by the hosted auth service with the same signing key.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hugorgg/command-ai-nexus/pkg/config"
	"github.com/hugorgg/command-ai-nexus/pkg/jwtutil"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant id the token acts for (required)")
	email := flag.String("email", "dev@example.com", "user email claim")
	userID := flag.String("user", "dev-user", "user id claim")
	role := flag.String("role", "owner", "role claim")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "-tenant is required")
		flag.Usage()
		os.Exit(2)
	}

	conf, err := config.Load("devtoken")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})
	token, err := jwt.GenerateToken(*email, *userID, *tenantID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
