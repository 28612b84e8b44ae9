package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginCode     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password. Missing values are read from stdin.

Accounts with two-factor authentication get a code by email; pass it with
--code or type it when asked.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "Two-factor code")
}

// prompt reads one trimmed line from in after printing label to out.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		if email, err = prompt(in, out, "Email: "); err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		if password, err = prompt(in, out, "Password: "); err != nil {
			return err
		}
	}

	user, err := a.sess.Login(ctx, model.LoginInput{Email: email, Password: password})
	if errors.Is(err, session.ErrTwoFactorRequired) {
		code := strings.TrimSpace(loginCode)
		if code == "" {
			if _, err := a.sess.Public().SendTwoFactorCode(ctx, email); err != nil {
				return fmt.Errorf("send code: %w", err)
			}
			fmt.Fprintf(out, "A sign-in code was sent to %s\n", email)
			if code, err = prompt(in, out, "Code: "); err != nil {
				return err
			}
		}
		user, err = a.sess.VerifyTwoFactor(ctx, email, code)
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(out, "Signed in as %s <%s>\n", user.FullName, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sess.SignedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := a.sess.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	user, ok := a.sess.User()
	if !ok {
		return errors.New("not signed in")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", user.FullName, user.Email)
	if user.State != "" {
		fmt.Fprintf(out, "State: %s\n", user.State)
	}
	fmt.Fprintf(out, "Theme: %s\n", a.sess.Theme())
	return nil
}
