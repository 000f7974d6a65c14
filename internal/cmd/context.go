package cmd

import (
	"io"

	"github.com/jimezsa/internhunt/internal/config"
	"github.com/jimezsa/internhunt/internal/ui"
	"github.com/rs/zerolog"
)

// Context is handed to every command's Run method.
type Context struct {
	Out        io.Writer
	Err        io.Writer
	In         io.Reader
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}
