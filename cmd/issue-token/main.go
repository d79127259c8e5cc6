// Development helper that signs an access token for a user.
// cmd/issue-token/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"procurify-api/config"
	"procurify-api/middleware"
	"procurify-api/models"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	userID := flag.String("user", "", "user id (required)")
	role := flag.String("role", string(models.RoleUserProcurement), "SUPER_ADMIN, ADMIN_PROCUREMENT or USER_PROCUREMENT")
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "e-mail")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}
	if !models.Role(*role).Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	token, err := signToken(cfg.JWT, middleware.Claims{
		UserID: *userID,
		Email:  *email,
		Name:   *name,
		Role:   models.Role(*role),
	}, time.Now())
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}

func signToken(cfg config.JWTConfig, claims middleware.Claims, now time.Time) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpireHours) * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
