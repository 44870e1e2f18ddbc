package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"petshop-crm/internal/adapters/auth/session"
	"petshop-crm/internal/ports/auth"
)

var tokenFlags struct {
	openID string
	name   string
	email  string
	admin  bool
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un token de sesión de desarrollo (AUTH_MODE=session)",
	Long: `Firma un token de sesión con SESSION_SECRET para probar la API.

Ejemplo:
  petshop-crm token --open-id owner-1 --name "Dono" --admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer syncLogger(log)

		if cfg.Auth.Mode != "session" {
			return errors.New("token requires AUTH_MODE=session")
		}
		if strings.TrimSpace(tokenFlags.openID) == "" {
			return errors.New("--open-id is required")
		}

		res, err := session.NewResolver(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
		if err != nil {
			return err
		}
		role := auth.RoleUser
		if tokenFlags.admin {
			role = auth.RoleAdmin
		}
		token, claims, err := res.Issue(auth.Claims{
			UserID: tokenFlags.openID,
			Name:   tokenFlags.name,
			Email:  tokenFlags.email,
			Role:   role,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, token)
		fmt.Fprintf(out, "# role=%s expires=%s cookie=%s\n", claims.Role, claims.ExpiresAt.Format(time.RFC3339), cfg.Auth.SessionCookie)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenFlags.openID, "open-id", "", "open id del usuario")
	tokenCmd.Flags().StringVar(&tokenFlags.name, "name", "", "nombre")
	tokenCmd.Flags().StringVar(&tokenFlags.email, "email", "", "email")
	tokenCmd.Flags().BoolVar(&tokenFlags.admin, "admin", false, "emitir con rol admin")
}
