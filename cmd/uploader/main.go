package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"object-updater/internal/app"
	"object-updater/internal/config"
	"object-updater/internal/logging"
	"object-updater/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "uploader: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("uploader", flag.ContinueOnError)
	key := fs.String("key", "", "object key to update")
	file := fs.String("file", "-", "payload file, - for stdin")
	typ := fs.String("type", "auto", "content type: json, png, other or auto")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *key == "" {
		return errors.New("-key is required")
	}

	payload, err := readPayload(*file, stdin)
	if err != nil {
		return err
	}

	ct, err := resolveContentType(*typ, payload)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	updated, err := a.Updater.Update(ctx, payload, *key, ct)
	if err != nil {
		return err
	}

	if updated {
		fmt.Fprintln(stdout, "updated")
	} else {
		fmt.Fprintln(stdout, "unchanged")
	}
	return nil
}

func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" || path == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return b, nil
}

func resolveContentType(flagValue string, payload []byte) (models.ContentType, error) {
	if flagValue == "auto" {
		return models.DetectContentType(payload), nil
	}
	return models.ParseContentType(flagValue)
}
