package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the recognition backend and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("ATTENDANCE_PASSWORD")
		}
		if password == "" {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("password required: use --password or ATTENDANCE_PASSWORD")
			}
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimSpace(string(raw))
		}

		if err := application.Session().Login(cmd.Context(), loginUser, password); err != nil {
			return err
		}
		fmt.Printf("✅ Logged in as %s\n", loginUser)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Session().Logout(); err != nil {
			return err
		}
		fmt.Println("👋 Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	Run: func(cmd *cobra.Command, args []string) {
		info := application.Session().Describe()
		if !info.Authenticated {
			fmt.Println("Not logged in.")
			return
		}
		fmt.Println("Logged in.")
		if info.Subject != "" {
			fmt.Printf("User:    %s\n", info.Subject)
		}
		if info.ExpiresAt != nil {
			fmt.Printf("Expires: %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "backend username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "backend password (prompted when omitted)")
	loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}
