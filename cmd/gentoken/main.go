// Command gentoken signs a workspace-scoped JWT for local development, so
// the API can be exercised with curl without a real identity provider.
//
// Usage: gentoken -workspace <uuid> [-hours 24]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/config"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	workspace := flag.String("workspace", "", "workspace uuid the token is scoped to")
	hours := flag.Int("hours", 24, "token lifetime in hours")
	flag.Parse()

	id, err := uuid.Parse(*workspace)
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: gentoken -workspace <uuid> [-hours 24]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	claims := middleware.WorkspaceClaims{
		WorkspaceID: id.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(*hours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
