package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/client"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/config"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/editor"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/filex"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// newClient is a test seam for the remote client.
var newClient = func(c *config.Config) (client.Client, error) {
	return client.NewRemote(c.APIURL, c.GRPCEndpointAddr, c.RequestTimeout)
}

type App struct {
	config *config.Config
	client client.Client
	fs     afero.Fs
	in     io.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp() *App {
	return &App{fs: afero.NewOsFs(), in: os.Stdin, out: os.Stdout}
}

// init loads the configuration for cmd and connects the client.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	dir, err := filex.EnsureDir(a.fs, cfg.PreviewDir)
	if err != nil {
		return fmt.Errorf("preview dir: %w", err)
	}
	cfg.PreviewDir = dir

	c, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	a.config = cfg
	a.client = c
	a.in = cmd.InOrStdin()
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *App) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func (a *App) newSession() *editor.Session {
	c := editor.NewCollection(editor.WithPreviewer(editor.NewTempPreviewer(a.fs, a.config.PreviewDir)))
	return editor.NewSession(c)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
