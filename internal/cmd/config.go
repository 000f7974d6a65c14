package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jimezsa/internhunt/internal/config"
)

type ConfigCmd struct {
	Init     InitConfigCmd     `cmd:"" help:"Write default config and proxies files."`
	Path     PathConfigCmd     `cmd:"" help:"Print config directory."`
	LinkedIn LinkedInConfigCmd `cmd:"" name:"linkedin" help:"Manage the LinkedIn password in the OS keyring."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type LinkedInConfigCmd struct {
	SetPassword    SetLinkedInPasswordCmd    `cmd:"" name:"set-password" help:"Read a password from stdin and store it in the keyring."`
	DeletePassword DeleteLinkedInPasswordCmd `cmd:"" name:"delete-password" help:"Remove the stored password."`
}

type SetLinkedInPasswordCmd struct {
	Email string `help:"LinkedIn account email (default from config)."`
}

type DeleteLinkedInPasswordCmd struct {
	Email string `help:"LinkedIn account email (default from config)."`
}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *SetLinkedInPasswordCmd) Run(ctx *Context) error {
	email := firstNonEmpty(c.Email, ctx.Config.LinkedIn.Email)
	if email == "" {
		return fmt.Errorf("--email is required when linkedin.email is not configured")
	}

	password, err := readSecret(ctx)
	if err != nil {
		return err
	}
	if err := config.SetLinkedInPassword(email, password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	ctx.UI.Successf("Stored LinkedIn password for %s", email)
	return nil
}

func (c *DeleteLinkedInPasswordCmd) Run(ctx *Context) error {
	email := firstNonEmpty(c.Email, ctx.Config.LinkedIn.Email)
	if email == "" {
		return fmt.Errorf("--email is required when linkedin.email is not configured")
	}
	if err := config.DeleteLinkedInPassword(email); err != nil {
		return fmt.Errorf("delete password: %w", err)
	}
	ctx.UI.Infof("Removed LinkedIn password for %s", email)
	return nil
}

func readSecret(ctx *Context) (string, error) {
	if ctx.In == nil {
		return "", fmt.Errorf("no input available")
	}
	if ctx.UI != nil && isTTY(ctx.Err) {
		fmt.Fprint(ctx.Err, "Password: ")
	}
	line, err := bufio.NewReader(ctx.In).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", fmt.Errorf("empty password")
	}
	return line, nil
}
