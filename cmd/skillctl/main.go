package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "skillctl",
		Short:         "Command line client for the skill-matrix API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("server", envOr("SKILLCTL_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().String("session", "", "Session file (default: user config dir)")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE:  runLogin,
	}
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (or SKILLCTL_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE:  runLogout,
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE:  runWhoami,
	}

	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Stage and save sub-skill grades for an employee",
		Long: `Stage grade changes for one employee and save them in one batch.

Each --set takes SUBSKILL=GRADE; a grade of 0 removes the assignment.
With --dry-run the resulting statistics are printed and nothing is saved.`,
		RunE: runGrade,
	}
	gradeCmd.Flags().Int64("user", 0, "Employee id")
	gradeCmd.Flags().StringArray("set", nil, "SUBSKILL=GRADE change, repeatable")
	gradeCmd.Flags().Bool("dry-run", false, "Preview statistics without saving")
	_ = gradeCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, gradeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
