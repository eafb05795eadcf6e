package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/middlemost/radio"
	"github.com/middlemost/radio/aws"
	"github.com/middlemost/radio/http"
	"github.com/middlemost/radio/local"
	"github.com/middlemost/radio/tag"
)

func main() {
	m := NewMain()

	// Parse command line flags.
	if err := m.ParseFlags(os.Args[1:]); err == flag.ErrHelp {
		fmt.Fprintln(m.Stderr, m.Usage())
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Load configuration.
	if err := m.LoadConfig(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Execute program.
	if err := m.Run(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Shutdown on SIGINT (CTRL-C).
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	fmt.Fprintln(m.Stdout, "received interrupt, shutting down...")
	m.Close()
}

// Main represents the main program execution.
type Main struct {
	ConfigPath string
	Config     Config

	// Input/output streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	closeFn func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath,
		Config:     DefaultConfig(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,

		closeFn: func() error { return nil },
	}
}

// Close cleans up the program.
func (m *Main) Close() error { return m.closeFn() }

// Usage returns the usage message.
func (m *Main) Usage() string {
	return strings.TrimSpace(`
usage: radio [flags]

Serves a directory of audio files and plays them as a shuffled radio station.

The following flags are available:

	-config PATH
		Specifies the configuration file to read.
		Defaults to ~/.radio/config

`)
}

// ParseFlags parses the command line flags.
func (m *Main) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("radio", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	fs.StringVar(&m.ConfigPath, "config", "", "config file")
	return fs.Parse(args)
}

// LoadConfig parses the configuration file.
func (m *Main) LoadConfig() error {
	// Default configuration path if not specified.
	path := m.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	// Interpolate path.
	if err := InterpolatePaths(&path); err != nil {
		return err
	}

	// Read configuration file.
	if _, err := toml.DecodeFile(path, &m.Config); os.IsNotExist(err) {
		if m.ConfigPath != "" {
			return err
		}
	} else if err != nil {
		return err
	}
	return m.Config.Validate()
}

// Run executes the program.
func (m *Main) Run() error {
	// Interpolate config paths.
	musicPath := m.Config.Music.Path
	if err := InterpolatePaths(&musicPath); err != nil {
		return err
	}

	// Initialize local file service.
	localFileService := local.NewFileService()
	localFileService.Path = musicPath
	if len(m.Config.Music.Extensions) > 0 {
		localFileService.Extensions = m.Config.Music.Extensions
	}

	// Files are stored locally unless an S3 bucket is configured.
	// This store always backs the HTTP endpoints.
	var fileService radio.FileService = localFileService
	if m.Config.S3.Bucket != "" {
		awsSession, err := aws.NewSession(m.Config.S3.AccessKeyID, m.Config.S3.SecretAccessKey, m.Config.S3.Region, m.Config.S3.Endpoint)
		if err != nil {
			return err
		}
		s3FileService := aws.NewFileService()
		s3FileService.Session = awsSession
		s3FileService.Bucket = m.Config.S3.Bucket
		s3FileService.Prefix = m.Config.S3.Prefix
		s3FileService.Extensions = localFileService.Extensions
		fileService = s3FileService
		fmt.Fprintf(m.Stdout, "file storage: s3://%s/%s\n", m.Config.S3.Bucket, m.Config.S3.Prefix)
	} else {
		fmt.Fprintf(m.Stdout, "file storage: path=%s\n", m.Config.Music.Path)
	}

	// The session loads from the file store or from a remote server.
	var source radio.FileService = fileService
	if m.Config.Remote.URL != "" {
		u, err := url.Parse(m.Config.Remote.URL)
		if err != nil {
			return fmt.Errorf("error: invalid remote url: %s", err)
		}
		client := http.NewClient()
		client.URL = *u
		source = client
		fmt.Fprintf(m.Stdout, "remote source: url=%s\n", u)

		// Tracks are played straight from the remote server.
		if m.Config.Loader.URLPrefix == radio.DefaultURLPrefix {
			m.Config.Loader.URLPrefix = strings.TrimSuffix(u.String(), "/") + radio.DefaultURLPrefix
		}
	}

	session := radio.NewSession()
	session.LogOutput = m.Stdout

	// Initialize HTTP server.
	httpServer := http.NewServer()
	httpServer.Addr = m.Config.HTTP.Addr
	httpServer.Host = m.Config.HTTP.Host
	httpServer.Autocert = m.Config.HTTP.Autocert
	httpServer.LogOutput = m.Stdout
	httpServer.FileService = fileService
	httpServer.Session = session

	// Open HTTP server.
	if err := httpServer.Open(); err != nil {
		return err
	}
	u := httpServer.URL()
	fmt.Fprintf(m.Stdout, "http listening: %s\n", u.String())

	// Load the playlist. Playback starts once the preload set is ready.
	loader := radio.NewLoader()
	loader.FileService = source
	loader.MetadataExtractor = tag.NewExtractor()
	loader.Session = session
	loader.PreloadSize = m.Config.Loader.Preload
	loader.DeferredDelay = time.Duration(m.Config.Loader.DeferredDelay)
	loader.URLPrefix = m.Config.Loader.URLPrefix
	loader.LogOutput = m.Stdout

	// Watch for files added to the music directory while running. The watcher
	// opens before the initial listing so no file falls between the two;
	// files seen by both are only appended once.
	var watcher *local.Watcher
	if m.Config.Music.Watch && m.Config.S3.Bucket == "" && m.Config.Remote.URL == "" {
		watcher = local.NewWatcher(localFileService)
		watcher.LogOutput = m.Stdout
		if err := watcher.Open(); err != nil {
			httpServer.Close()
			return fmt.Errorf("error: open watcher: %s", err)
		}
	}

	ctx := context.Background()
	if err := loader.Load(ctx); err != nil {
		fmt.Fprintf(m.Stdout, "warning: playlist is empty: %s\n", err)
	}
	if watcher != nil {
		loader.Follow(ctx, watcher.C())
	}

	// Assign close function.
	m.closeFn = func() error {
		if watcher != nil {
			watcher.Close()
		}
		loader.Close()
		httpServer.Close()
		return nil
	}

	return nil
}

// DefaultConfigPath is the default configuration path.
const DefaultConfigPath = "~/.radio/config"

// Config represents a configuration file.
type Config struct {
	Music struct {
		Path       string   `toml:"path"`
		Extensions []string `toml:"extensions"`
		Watch      bool     `toml:"watch"`
	} `toml:"music"`

	HTTP struct {
		Addr     string `toml:"addr"`
		Host     string `toml:"host"`
		Autocert bool   `toml:"autocert"`
	} `toml:"http"`

	Loader struct {
		Preload       int      `toml:"preload"`
		DeferredDelay Duration `toml:"deferred-delay"`
		URLPrefix     string   `toml:"url-prefix"`
	} `toml:"loader"`

	S3 struct {
		Bucket          string `toml:"bucket"`
		Prefix          string `toml:"prefix"`
		Region          string `toml:"region"`
		Endpoint        string `toml:"endpoint"`
		AccessKeyID     string `toml:"access-key-id"`
		SecretAccessKey string `toml:"secret-access-key"`
	} `toml:"s3"`

	Remote struct {
		URL string `toml:"url"`
	} `toml:"remote"`
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	var c Config
	c.Music.Path = "~/.radio/music"
	c.Music.Extensions = append([]string(nil), radio.DefaultExtensions...)
	c.HTTP.Addr = ":3000"
	c.Loader.Preload = radio.DefaultPreloadSize
	c.Loader.DeferredDelay = Duration(radio.DefaultDeferredDelay)
	c.Loader.URLPrefix = radio.DefaultURLPrefix
	return c
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	if c.Music.Path == "" {
		return errors.New("music path required")
	} else if c.Loader.Preload < 1 {
		return errors.New("loader preload must be at least 1")
	} else if c.Loader.DeferredDelay < 0 {
		return errors.New("loader deferred-delay must not be negative")
	} else if c.HTTP.Autocert && c.HTTP.Host == "" {
		return errors.New("http host required for autocert")
	} else if c.S3.Bucket != "" && c.S3.Region == "" {
		return errors.New("s3 region required")
	}
	return nil
}

// Duration is a time.Duration that decodes from a TOML string such as "1s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// InterpolatePaths replaces the tilde prefix with the user's home directory.
func InterpolatePaths(a ...*string) error {
	for _, s := range a {
		if !strings.HasPrefix(*s, "~/") {
			continue
		}

		u, err := user.Current()
		if err != nil {
			return err
		} else if u.HomeDir == "" {
			return errors.New("home directory not found")
		}
		*s = filepath.Join(u.HomeDir, strings.TrimPrefix(*s, "~/"))
	}
	return nil
}
