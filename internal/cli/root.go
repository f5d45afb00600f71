package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Engine *engine.Engine
	// Out receives command output; nil means os.Stdout.
	Out io.Writer
	// Now is the clock used for default start dates; nil means time.Now.
	Now func() time.Time
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) Today() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) engine() *engine.Engine {
	if c.Engine == nil {
		c.Engine = engine.New()
	}
	return c.Engine
}

// Analyze runs the engine with the context's shared instance.
func (c *Context) Analyze(tasks []models.Task, p engine.Params) (engine.Analysis, error) {
	return c.engine().Analyze(tasks, p)
}

// Settings returns the persisted planning defaults, or the built-in ones
// when the store is missing or not initialised.
func (c *Context) Settings() models.Settings {
	if c.Store == nil {
		return storage.DefaultSettings()
	}
	if err := c.Store.Load(); err != nil {
		logger.Debug("Using default settings", "reason", err)
		return storage.DefaultSettings()
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		return storage.DefaultSettings()
	}
	return settings
}

// WriteJSON writes v as indented JSON.
func (c *Context) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(c.Stdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// OutputFlags selects the rendering of a command's result.
type OutputFlags struct {
	Format string `help:"Output format." enum:"text,json" default:"text" short:"o"`
}

func (f OutputFlags) JSON() bool {
	return f.Format == constants.FormatJSON
}
