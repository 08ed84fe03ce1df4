// verify_token checks one identity token against the configured issuer, audience and key set,
// the same way the session gate does, and prints the outcome.
// Usage: go run ./cmd/verify_token <token>   (or pipe the token on stdin)
// Requires .env (or env) with AUTH_ISSUER, AUTH_AUDIENCE and optionally AUTH_JWKS_URL.
package main

import (
	"bufio"
	"context"
	"crimewatch/auth"
	"crimewatch/config"
	"crimewatch/logger"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	jwksURL := flag.String("jwks", "", "override the key set URL")
	timeout := flag.Duration("timeout", 15*time.Second, "key set fetch timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *jwksURL != "" {
		cfg.Auth.JWKSURL = *jwksURL
	}
	cfg.Log.File = false
	logs := logger.New(cfg.Log)

	token, err := readToken(flag.Arg(0))
	if err != nil {
		log.Fatalf("Token: %v", err)
	}

	fmt.Println("=== Token header (unverified) ===")
	if parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err != nil {
		fmt.Printf("not a JWT: %v\n", err)
	} else {
		fmt.Printf("alg=%v kid=%v\n", parsed.Header["alg"], parsed.Header["kid"])
	}

	fmt.Println("=== Configuration ===")
	fmt.Printf("issuer=%s\naudience=%s\njwks=%s\n", cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.KeySetURL())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	keySet := auth.NewRemoteKeySet(ctx, cfg.Auth.KeySetURL(), logs)
	res := auth.NewVerifier(cfg.Auth.Issuer, cfg.Auth.Audience, keySet.Get).Verify(ctx, token)

	fmt.Println("=== Result ===")
	if !res.Valid {
		fmt.Printf("INVALID: %v\n", res.Err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(res.Claims, "", "  ")
	fmt.Printf("VALID (%s)\n%s\n", res.Claims.DisplayName(), out)
	if res.Claims.ExpiresAt != nil {
		fmt.Printf("expires in %s\n", time.Until(res.Claims.ExpiresAt.Time).Round(time.Second))
	}
}

func readToken(arg string) (string, error) {
	if arg != "" {
		return strings.TrimSpace(arg), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no token given: %w", err)
	}
	return strings.TrimSpace(line), nil
}
