package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avelar/chatdeck/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to the backend",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return runLogin(email)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a backend account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the backend session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout()
	},
}

// promptLine reads one trimmed line from stdin.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func runLogin(email string) error {
	cfg := loadRuntimeConfig()
	backend, _, err := newBackend(cfg)
	if err != nil {
		return err
	}

	var promptErr error
	if email == "" {
		email, promptErr = promptLine("Email: ")
		if promptErr != nil {
			return promptErr
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := backend.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runRegister() error {
	cfg := loadRuntimeConfig()
	backend, _, err := newBackend(cfg)
	if err != nil {
		return err
	}

	username, err := promptLine("Username: ")
	if err != nil {
		return err
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := backend.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("Account created. Run 'chatdeck login' to sign in.")
	return nil
}

func runLogout() error {
	cfg := loadRuntimeConfig()
	backend, _, err := newBackend(cfg)
	if err != nil {
		return err
	}

	sess := session.NewStore(backend, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sess.Logout(ctx)
	fmt.Println("Signed out.")
	return nil
}
