package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

var loginNoSave bool

func init() {
	// Load .env file if present (for INSTAPAPER_* credentials)
	_ = godotenv.Load()

	loginCmd.Flags().BoolVar(&loginNoSave, "no-save", false, "Do not persist access tokens to the config file")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to Instapaper and save access tokens",
	Long: `Exchange Instapaper credentials for xAuth access tokens.

The username can be given as an argument or configured as
instapaper_username. The password comes from config, the
INSTAPAPER_PASSWORD environment variable, or an interactive prompt.

On success the token pair is written to the config file so later
commands skip the exchange. Use --no-save to keep tokens in memory only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// LoginResponse is the response for the login command.
type LoginResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
	Saved    bool   `json:"tokens_saved"`
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := mustInstapaperClient(cfg)

	username := cfg.Username
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		username = promptLine("Instapaper username (email): ")
	}
	if username == "" {
		exitWithError(ExitError, "username is required")
	}

	password := cfg.Password
	if password == "" {
		password = promptPassword("Instapaper password: ")
	}

	ctx := cmd.Context()
	tokens, err := client.Login(ctx, username, password)
	if err != nil {
		exitWithError(ExitAuthError, "login failed: %v", err)
	}

	user, err := client.VerifyCredentials(ctx)
	if err != nil {
		exitWithError(ExitAuthError, "verifying credentials: %v", err)
	}

	saved := false
	if !loginNoSave {
		cfg.Username = username
		cfg.AccessTokens = &tokens
		if err := cfg.Save(); err != nil {
			exitWithError(ExitError, "saving tokens: %v", err)
		}
		saved = true
	}

	if humanOutput {
		fmt.Printf("Logged in as %s (user %d)\n", user.Username, user.UserID)
		if saved {
			fmt.Println("Access tokens saved.")
		}
	} else {
		outputJSON(LoginResponse{
			Status:   "ok",
			Username: user.Username,
			UserID:   user.UserID,
			Saved:    saved,
		})
	}
	return nil
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in Instapaper account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		user, err := client.VerifyCredentials(cmd.Context())
		if err != nil {
			exitWithError(ExitAuthError, "verifying credentials: %v", err)
		}

		if humanOutput {
			fmt.Printf("%s (user %d)\n", user.Username, user.UserID)
		} else {
			outputJSON(user)
		}
		return nil
	},
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echo, falling back to a plain
// line read when stdin is not a terminal (piped input).
func promptPassword(prompt string) string {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return promptLine(prompt)
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := terminal.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(password)
}
