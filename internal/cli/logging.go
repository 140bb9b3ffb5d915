package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tartampluch/go-genie/internal/config"
)

// SetupLogging installs the default slog logger. Records go to a truncated
// JSON log file in dir; with debug they are mirrored to stderr at Debug
// level. Stdout is left to the prompts.
//
// An unusable log directory is reported on stderr and logging continues
// without the file.
func SetupLogging(dir string, debug bool, stderr io.Writer) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debug {
		writers = append(writers, stderr)
	}

	if logPath, err := logFilePath(dir); err == nil {
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	} else {
		fmt.Fprintf(stderr, config.MsgLogWarning, config.ErrLogFile, dir, err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// DefaultLogDir is the per-user cache directory of the application.
func DefaultLogDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	return filepath.Join(cacheDir, config.AppDirName), nil
}

func logFilePath(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultLogDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(dir, config.LogFileName), nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompCLI,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
