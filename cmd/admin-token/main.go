// Command admin-token mints a signed admin JWT for the question bank
// administration API. There is no admin user store; operators generate
// tokens out of band and distribute them.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/middleware"
)

func main() {
	var subject string
	var ttl time.Duration
	flag.StringVar(&subject, "subject", "admin", "Token subject (who this token identifies)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default: ADMIN_JWT_EXPIRY_HOURS)")
	flag.Parse()

	cfg := config.Load()
	if ttl == 0 {
		ttl = cfg.AdminJWTExpiry
	}

	now := time.Now()
	claims := middleware.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: "admin",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.AdminJWTSecret))
	if err != nil {
		log.Fatalf("Sign token: %v", err)
	}

	fmt.Println(signed)
}
