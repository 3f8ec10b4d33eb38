package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/db"
	"github.com/registrovecinal/api/internal/usuario"
	"github.com/registrovecinal/api/internal/util"
)

// createadmin da de alta la primera cuenta ADMIN directamente contra la
// base, para bootstrapear una instalación sin usuarios.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el administrador")
	}
}

func run() error {
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		nombre   = fs.String("nombre", "", "nombre completo del administrador")
		email    = fs.String("email", "", "email de la cuenta")
		password = fs.String("password", "", "contraseña inicial")
	)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *nombre == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "uso: createadmin --nombre \"Nombre\" --email admin@municipio.cl --password secreta")
		return errors.New("nombre, email y password son obligatorios")
	}

	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		return errors.New("defina DB_DSN o DATABASE_URL")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("conectar a la base: %w", err)
	}
	defer pool.Close()

	if !util.ValidarEmail(*email) {
		return errors.New("email inválido")
	}
	if !util.ValidarPassword(*password) {
		return errors.New("la contraseña debe tener al menos 6 caracteres")
	}

	hash, err := auth.Hash(*password)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}

	repo := usuario.NewRepository(pool)
	creado, err := repo.Create(ctx, strings.TrimSpace(*nombre), strings.TrimSpace(*email), hash, auth.RolAdmin, nil)
	if err != nil {
		return err
	}

	output, _ := json.MarshalIndent(creado.Publico(), "", "  ")
	fmt.Println(string(output))
	return nil
}
