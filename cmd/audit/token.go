package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/auditoria-fiscal/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Genera un token JWT para la API (requiere JWT_SECRET)",
	Example: `  audit token --sub contador@empresa.co --role auditor
  audit token --sub admin --role admin --exp 480`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("sub", "", "sujeto del token (usuario)")
	tokenCmd.Flags().String("role", jwt.RoleAuditor, "rol: auditor o admin")
	tokenCmd.Flags().Int("exp", 0, "minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("sub")
}

func runToken(cmd *cobra.Command, args []string) error {
	sub, _ := cmd.Flags().GetString("sub")
	role, _ := cmd.Flags().GetString("role")
	exp, _ := cmd.Flags().GetInt("exp")

	if role != jwt.RoleAuditor && role != jwt.RoleAdmin {
		return fmt.Errorf("rol inválido %q: use %s o %s", role, jwt.RoleAuditor, jwt.RoleAdmin)
	}
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, sub, role, cfg.JWT.Issuer, exp)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
