package seed

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/config"
	"github.com/emmott-systems/soporte-api/internal/database"
	"github.com/emmott-systems/soporte-api/internal/tools/common"
)

type options struct {
	envFile string
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply default seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := func() ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				report, err := database.SeedSync(db)
				if err != nil {
					return nil, err
				}
				if report.Noop {
					return []string{"catalog already seeded, nothing to do"}, nil
				}
				return []string{
					fmt.Sprintf("created %d roles", report.CreatedRoles),
					fmt.Sprintf("created %d areas", report.CreatedAreas),
				}, nil
			}()
			report(opts, "seed apply", details, err)
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := func() ([]string, error) {
				if _, _, err := loadConfigDB(opts.envFile); err != nil {
					return nil, err
				}
				return []string{
					"would ensure roles: ADMIN, SUPERVISOR, ANALYST, QA, DEVELOPER",
					"would ensure areas: Soporte, Desarrollo, Marketing, Finanzas, RRHH",
				}, nil
			}()
			report(opts, "seed dry-run", details, err)
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func report(opts *options, title string, details []string, err error) {
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", title, err)
		return
	}
	for _, d := range details {
		fmt.Println(d)
	}
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
