// Command devtoken emite un Bearer token para desarrollo local con el secreto de la configuración.
//
//	go run ./cmd/devtoken -user 00000000-0000-0000-0000-000000000001 -role storekeeper
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/obra-stock-api/pkg/config"
	"github.com/jhoicas/obra-stock-api/pkg/jwt"
	"github.com/jhoicas/obra-stock-api/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "ID del usuario (requerido)")
	role := flag.String("role", jwt.RoleStorekeeper, "admin | manager | supervisor | storekeeper")
	minutes := flag.Int("minutes", 0, "vigencia en minutos; 0 usa JWT_EXPIRATION_MINUTES")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info", Output: os.Stderr})

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}
	switch *role {
	case jwt.RoleAdmin, jwt.RoleManager, jwt.RoleSupervisor, jwt.RoleStorekeeper:
	default:
		log.Fatal().Str("role", *role).Msg("rol desconocido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	token, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(token)
}
