// Command admin runs operator tasks against the configured store:
//
//	admin seed -file swags.json
//	admin promote -username alice [-role admin]
//	admin users
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"swag-shop/internal/app"
	"swag-shop/internal/core/config"
	"swag-shop/internal/core/logger"
	"swag-shop/internal/domain"
	"swag-shop/internal/service"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin <seed|promote|users> [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New("warn", false)
	defer cleanup()

	shop, closeStore, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("wire app", zap.Error(err))
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, shop, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command")

func run(ctx context.Context, shop *app.App, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		file := fs.String("file", "", "JSON array of swags {name,quantity,category,image}")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *file == "" {
			return errors.New("seed: -file is required")
		}
		return seed(ctx, shop.Catalog, *file, out)

	case "promote":
		fs := flag.NewFlagSet("promote", flag.ContinueOnError)
		username := fs.String("username", "", "user to change")
		role := fs.String("role", string(domain.RoleAdmin), "new role: user or admin")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *username == "" {
			return errors.New("promote: -username is required")
		}
		p, err := shop.Accounts.SetRole(ctx, *username, domain.Role(*role))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (id %d) is now %s\n", p.Username, p.ID, p.Role)
		return nil

	case "users":
		users, err := shop.Accounts.Users(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
		}
		return tw.Flush()

	default:
		usage(out)
		return fmt.Errorf("%w %q", errUsage, cmd)
	}
}

func seed(ctx context.Context, catalog *service.CatalogService, path string, out io.Writer) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var items []service.SwagAttrs
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	created, err := catalog.Seed(ctx, items)
	if err != nil {
		return err
	}
	for _, sw := range created {
		fmt.Fprintf(out, "created swag %d %q (qty %d)\n", sw.ID, sw.Name, sw.Quantity)
	}
	return nil
}
