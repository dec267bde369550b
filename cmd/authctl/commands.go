package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/session"
)

type command struct {
	summary string
	run     func(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error
}

var commands = map[string]command{
	"login":           {"log in with email and password", login},
	"register":        {"create an account and log in", register},
	"logout":          {"end the session", logout},
	"refresh":         {"exchange the access token for a new one", refresh},
	"verify":          {"check the session with the server", verify},
	"whoami":          {"print the logged-in user", whoami},
	"status":          {"print the session status", status},
	"update-profile":  {"change name or email", updateProfile},
	"change-password": {"change the password", changePassword},
	"forgot-password": {"request a password reset email", forgotPassword},
	"reset-password":  {"set a new password with a reset token", resetPassword},
	"verify-email":    {"confirm an email address", verifyEmail},
	"2fa-enable":      {"enable two-factor authentication", enableTwoFactor},
	"2fa-disable":     {"disable two-factor authentication", disableTwoFactor},
}

var errUnknownCommand = errors.New("unknown command")

func run(ctx context.Context, mgr *session.Manager, name string, args []string, out io.Writer) error {
	cmd, ok := commands[name]
	if !ok {
		usage()
		return fmt.Errorf("%w %q", errUnknownCommand, name)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if err := cmd.run(ctx, mgr, fs, args, out); err != nil {
		return failure(mgr, err)
	}
	return nil
}

// failure prefers the message recorded on the session stores.
func failure(mgr *session.Manager, err error) error {
	if msg := mgr.UserState().Error(); msg != "" {
		return errors.New(msg)
	}
	if msg := mgr.TokenState().Error(); msg != "" {
		return errors.New(msg)
	}
	return err
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "usage: authctl <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(os.Stderr, "  %-16s %s\n", "version", "print build information")
}

func login(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	var c model.Credentials
	fs.StringVar(&c.Email, "email", "", "account email")
	fs.StringVar(&c.Password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := mgr.Login(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(out, "Logged in as %s\n", mgr.CurrentUser().DisplayName)
	return nil
}

func register(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	var r model.Registration
	fs.StringVar(&r.Name, "name", "", "display name")
	fs.StringVar(&r.Email, "email", "", "account email")
	fs.StringVar(&r.Password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	if err := mgr.Register(ctx, r); err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered and logged in as %s\n", mgr.CurrentUser().DisplayName)
	return nil
}

func logout(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	mgr.Logout(ctx)
	fmt.Fprintln(out, "Logged out")
	return nil
}

func refresh(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := mgr.RefreshToken(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Token refreshed")
	return nil
}

func verify(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !mgr.IsAuthenticated() {
		return model.ErrNotAuthenticated
	}
	if err := mgr.VerifySession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Session is valid")
	return nil
}

func whoami(_ context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	current := mgr.CurrentUser()
	if current.User == nil {
		return model.ErrNotAuthenticated
	}

	fmt.Fprintf(out, "Name:  %s\n", current.DisplayName)
	fmt.Fprintf(out, "Email: %s\n", current.User.Email)
	fmt.Fprintf(out, "Role:  %s\n", current.User.Role)
	fmt.Fprintf(out, "Admin: %t\n", current.IsAdmin)
	return nil
}

func status(_ context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	snap := mgr.Snapshot()

	fmt.Fprintf(out, "Status: %s\n", snap.Status)
	if snap.IsAuthenticated {
		fmt.Fprintf(out, "User:   %s\n", mgr.CurrentUser().DisplayName)
	}
	if snap.User.HasError() {
		fmt.Fprintf(out, "Error:  %s\n", snap.User.Error)
	}
	if snap.Token.HasError() {
		fmt.Fprintf(out, "Error:  %s\n", snap.Token.Error)
	}
	return nil
}

func updateProfile(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	name := fs.String("name", "", "new display name")
	email := fs.String("email", "", "new email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update model.ProfileUpdate
	if *name != "" {
		update.Name = name
	}
	if *email != "" {
		update.Email = email
	}
	if update.Name == nil && update.Email == nil {
		return errors.New("nothing to update: set -name or -email")
	}
	if err := update.Validate(); err != nil {
		return err
	}

	if err := mgr.UpdateProfile(ctx, update); err != nil {
		return err
	}
	fmt.Fprintln(out, "Profile updated")
	return nil
}

func changePassword(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	var c model.PasswordChange
	fs.StringVar(&c.OldPassword, "old", "", "current password")
	fs.StringVar(&c.NewPassword, "new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := mgr.ChangePassword(ctx, c); err != nil {
		return err
	}
	fmt.Fprintln(out, "Password changed")
	return nil
}

func forgotPassword(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	if err := mgr.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Fprintln(out, "If the account exists, a reset email has been sent")
	return nil
}

func resetPassword(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	var r model.PasswordReset
	fs.StringVar(&r.Token, "token", "", "reset token")
	fs.StringVar(&r.NewPassword, "new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	if err := mgr.ResetPassword(ctx, r); err != nil {
		return err
	}
	fmt.Fprintln(out, "Password reset")
	return nil
}

func verifyEmail(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	token := fs.String("token", "", "verification token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return errors.New("-token is required")
	}

	if err := mgr.VerifyEmail(ctx, *token); err != nil {
		return err
	}
	fmt.Fprintln(out, "Email verified")
	return nil
}

func enableTwoFactor(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := mgr.EnableTwoFactor(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Secret: %s\n", secret.Secret)
	fmt.Fprintf(out, "URI:    %s\n", secret.QRCode)
	return nil
}

func disableTwoFactor(ctx context.Context, mgr *session.Manager, fs *flag.FlagSet, args []string, out io.Writer) error {
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return errors.New("-password is required")
	}

	if err := mgr.DisableTwoFactor(ctx, *password); err != nil {
		return err
	}
	fmt.Fprintln(out, "Two-factor authentication disabled")
	return nil
}
