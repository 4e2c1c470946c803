package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-product-catalog/config"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

// token prints an access token for the catalog write endpoints.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	subject := flag.String("sub", "catalog-admin", "token subject")
	ttl := flag.Duration("ttl", cfg.AccessTTL, "token lifetime")
	flag.Parse()

	tok, exp, err := helpers.NewJWTManager(cfg.JWTAccessSecret, *ttl).GenerateAccessToken(*subject)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok)
	log.Printf("subject=%s expires_at=%s", *subject, exp.Format(time.RFC3339))
}
