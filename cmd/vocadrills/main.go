package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/config"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

const shutdownTimeout = 10 * time.Second

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func main() {
	config.Flags(pflag.CommandLine)
	pflag.Parse()

	conf, err := config.Load(pflag.CommandLine)
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	zapConf, err := conf.ZapConf()
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	logger, err := zapConf.Build()
	if err != nil {
		exitf(codeErrorArgs, "Failure while instatiating logger: %s\n", err)
	}
	defer logger.Sync() // nolint:errcheck

	logger.Info("Starting server",
		zap.String("host", conf.Host),
		zap.Bool("inmemory", conf.Storage.InMemory),
		zap.String("storage", conf.Storage.Path),
	)
	server, err := New(logger, conf)
	if err != nil {
		exitf(codeInternalError, "Can not initialize server: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Close(ctx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
			return
		}
	}()

	logger.Info(fmt.Sprintf("Listening started on http://%s", conf.Host))
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
			return
		}
	}
	<-closed
	logger.Info("Closed")
}
