package cli

import (
	"fmt"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/repository"
	"adlaan-backend/internal/services"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		orgName  string
		username string
		password string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an organization and its first user",
		Long: `Seed creates an organization and a user in it. The first user in an empty
database is an admin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}

			org := &models.Organization{Name: orgName}
			if err := repository.NewDirectoryRepository(db).CreateOrganization(cmd.Context(), org); err != nil {
				return fmt.Errorf("failed to create organization: %w", err)
			}
			user, err := services.RegisterUser(org.ID, username, password)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "organization %d (%s)\nuser %d (%s, %s)\n",
				org.ID, org.Name, user.ID, user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgName, "org", "", "organization name")
	cmd.Flags().StringVar(&username, "username", "", "login name of the first user")
	cmd.Flags().StringVar(&password, "password", "", "password of the first user")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
