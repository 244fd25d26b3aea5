// Command createadmin bootstraps an administrator account: it hashes the
// given password and inserts the user directly into MongoDB. Intended for
// first-time setup; regular accounts are created through the application.
//
// Usage: createadmin -email admin@example.com -password <secret>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/service"
	"github.com/woodtong/storefront/internal/infrastructure/config"
	mongodb "github.com/woodtong/storefront/internal/infrastructure/db/mongo"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email <email> -password <password>")
		os.Exit(2)
	}

	if err := run(*email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "createadmin:", err)
		os.Exit(1)
	}
	fmt.Println("admin user created:", domain.NormalizeEmail(*email))
}

func run(email, password string) error {
	cfg := config.Load()

	digest, err := service.HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	users := mongodb.NewUserStore(db)
	_, err = users.InsertUser(ctx, &domain.User{
		Email:          email,
		PasswordDigest: digest,
		Role:           domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("account %s already exists", domain.NormalizeEmail(email))
	}
	return err
}
