package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a local account and sign in",
	Long: `Registers a user in the dayplan directory. Either --email or --phone is required.
The password is prompted for when --password is not given.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL|PHONE",
	Short: "Sign in with email or phone",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")
	registerCmd.Flags().String("avatar", "", "image file to use as avatar")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r := session.Registration{}
	r.Name, _ = cmd.Flags().GetString("name")
	r.Email, _ = cmd.Flags().GetString("email")
	r.Phone, _ = cmd.Flags().GetString("phone")

	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		r.Password, r.ConfirmPassword = pw, pw
	} else {
		if r.Password, err = readPassword("Password: "); err != nil {
			return err
		}
		if r.ConfirmPassword, err = readPassword("Confirm password: "); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("avatar"); path != "" {
		if r.Avatar, err = session.AvatarFromFile(path); err != nil {
			return clierr.Wrap(clierr.InvalidInput, err.Error(), err).
				WithDetails(map[string]any{"field": "avatar"})
		}
	}

	u, err := newSessionStore(cfg).Register(r, time.Now())
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, u)
	}
	output.Messagef(os.Stdout, "Welcome, %s! You are signed in.", u.DisplayName())
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pw, _ := cmd.Flags().GetString("password")
	if pw == "" {
		if pw, err = readPassword("Password: "); err != nil {
			return err
		}
	}

	u, err := newSessionStore(cfg).Login(args[0], pw)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, u)
	}
	output.Messagef(os.Stdout, "Signed in as %s", u.DisplayName())
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := newSessionStore(cfg).Logout(); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "signed_out"})
	}
	output.Messagef(os.Stdout, "Signed out.")
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	u, err := newSessionStore(cfg).Current()
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, u)
	case output.FormatCompact:
		output.Messagef(os.Stdout, "%s %s", u.ID, u.DisplayName())
		return nil
	}

	output.Messagef(os.Stdout, "%s", u.DisplayName())
	if u.Email != "" {
		output.Messagef(os.Stdout, "  Email: %s", u.Email)
	}
	if u.Phone != "" {
		output.Messagef(os.Stdout, "  Phone: %s", u.Phone)
	}
	output.Messagef(os.Stdout, "  Since: %s", u.Created.Local().Format("2006-01-02"))
	return nil
}

// readPassword prompts on stderr. On a terminal the input is not echoed;
// otherwise one line is read from stdin so scripts can pipe it in.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // fd fits in int
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	return readLine(os.Stdin)
}

// stdinReader is shared so consecutive prompts do not lose buffered input.
var stdinReader *bufio.Reader

func readLine(r io.Reader) (string, error) {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(r)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", clierr.Wrap(clierr.InvalidInput, "no input on stdin", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
