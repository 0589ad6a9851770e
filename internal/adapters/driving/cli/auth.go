package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

var (
	authEmail         string
	authPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the analysis service",
	Long: `Log in and store the access token in the config directory.

The password is prompted for without echo. Use --password-stdin to pipe it in.

Examples:
  descheck login --email you@example.com
  echo "$PASSWORD" | descheck login --email you@example.com --password-stdin`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long:  `Create an account on the analysis service. Run 'descheck login' afterwards.`,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoAmI,
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
		cmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "read the password from stdin")
	}
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth: %w", ErrNotConfigured)
	}
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	who, err := authService.Login(commandContext(cmd), creds)
	if err != nil {
		return err
	}
	cmd.Printf("Logged in as %s\n", who.Email)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth: %w", ErrNotConfigured)
	}
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	who, err := authService.Register(commandContext(cmd), creds)
	if err != nil {
		return err
	}
	cmd.Printf("Registered %s. Run 'descheck login' to sign in.\n", who.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth: %w", ErrNotConfigured)
	}
	if err := authService.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runWhoAmI(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth: %w", ErrNotConfigured)
	}
	who, err := authService.WhoAmI(commandContext(cmd))
	if errors.Is(err, domain.ErrAuthRequired) {
		cmd.Println("Not logged in. Run 'descheck login'.")
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf("Logged in as %s (user %d)\n", who.Email, who.ID)
	return nil
}

// readCredentials gathers email and password from flags, stdin or a prompt.
func readCredentials(cmd *cobra.Command) (domain.Credentials, error) {
	reader := bufio.NewReader(cmd.InOrStdin())

	email := strings.TrimSpace(authEmail)
	if email == "" {
		cmd.Print("Email: ")
		line, err := readLine(reader)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("read email: %w", err)
		}
		email = line
	}

	password, err := readPassword(cmd, reader)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read password: %w", err)
	}
	return domain.Credentials{Email: email, Password: password}, nil
}

func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	if !authPasswordStdin && cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if !authPasswordStdin {
		cmd.Print("Password: ")
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
