package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/internal/repository"
	"github.com/noah-isme/classwork-api/internal/service"
	"github.com/noah-isme/classwork-api/pkg/config"
	"github.com/noah-isme/classwork-api/pkg/database"
	"github.com/noah-isme/classwork-api/pkg/logger"
)

const usage = `usage: classwork-admin <command> [flags]

commands:
  migrate up             apply pending migrations
  migrate down [steps]   roll back migrations (default 1 step)
  migrate list           print embedded migration files
  adduser -email E -name N -role teacher|student
                         create an account; the password is read from
                         CLASSWORK_PASSWORD or prompted on the terminal
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(cfg, logr, os.Args[2:])
	case "adduser":
		err = runAddUser(cfg, logr, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config, logr *zap.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("migrate requires up, down or list")
	}
	if args[0] == "list" {
		files, err := database.MigrationFiles()
		if err != nil {
			return err
		}
		for _, name := range files {
			fmt.Println(name)
		}
		return nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	switch args[0] {
	case "up":
		return database.RunMigrations(db.DB, logr)
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid steps %q", args[1])
			}
		}
		return database.RollbackMigrations(db.DB, steps, logr)
	default:
		return fmt.Errorf("unknown migrate action %q", args[0])
	}
}

func runAddUser(cfg *config.Config, logr *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(models.RoleStudent), "teacher or student")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(repository.NewUserRepository(db), validator.New(), logr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := users.Create(ctx, models.CreateUserRequest{
		Email:    *email,
		Password: password,
		FullName: *name,
		Role:     models.UserRole(*role),
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func readPassword() (string, error) {
	if pw := os.Getenv("CLASSWORK_PASSWORD"); pw != "" {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
