package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/config"
	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/speech"
	"github.com/darkclainer/vocadrill/pkg/translate"
)

//go:embed templates/*.html
var templateFS embed.FS

// Speaker turns text into mp3 audio.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Translator turns text into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type Server struct {
	http.Server
	mux        http.ServeMux
	logger     *zap.Logger
	lib        *library.Cached
	speaker    Speaker
	translator Translator
	pages      *template.Template
	closers    []func() error
}

func New(logger *zap.Logger, conf *config.Config) (*Server, error) {
	storage, err := library.OpenStorage(conf.Storage.Path, conf.Storage.InMemory)
	if err != nil {
		return nil, err
	}
	lib := library.NewCached(
		library.NewParsing(nil, conf.ParsingConfig()),
		storage.DB,
		logger.Named("library"),
	)
	speaker := speech.NewClient(conf.SpeechConfig())
	translator := translate.NewClient(conf.TranslateConfig())

	s, err := newServer(logger, conf.Host, lib, speaker, translator)
	if err != nil {
		_ = lib.Close(context.Background())
		return nil, err
	}
	s.closers = append(s.closers, speaker.Close, translator.Close)
	return s, nil
}

func newServer(logger *zap.Logger, host string, lib *library.Cached, speaker Speaker, translator Translator) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("can not parse templates: %w", err)
	}
	s := Server{
		logger:     logger,
		lib:        lib,
		speaker:    speaker,
		translator: translator,
		pages:      pages,
	}

	s.mux.HandleFunc("/", s.middleLogging(s.handleIndex()))
	s.mux.HandleFunc("/quiz", s.middleLogging(s.handleQuiz()))
	s.mux.HandleFunc("/documents", s.middleLogging(s.handleDocuments()))
	s.mux.HandleFunc("/document", s.middleLogging(s.handleDocument()))
	s.mux.HandleFunc("/drill", s.middleLogging(s.handleDrill()))
	s.mux.HandleFunc("/check", s.middleLogging(s.handleCheck()))
	s.mux.HandleFunc("/solved", s.middleLogging(s.handleSolved()))
	s.mux.HandleFunc("/reset", s.middleLogging(s.handleReset()))
	s.mux.HandleFunc("/speech", s.middleLogging(s.handleSpeech()))
	s.mux.HandleFunc("/translate", s.middleLogging(s.handleTranslate()))
	s.Addr = host
	s.Server.Handler = &s.mux
	return &s, nil
}

func (s *Server) Close(ctx context.Context) error {
	var reasons []string
	if serverErr := s.Server.Shutdown(ctx); serverErr != nil {
		reasons = append(reasons, "server shutdown failed: "+serverErr.Error())
	}
	if libErr := s.lib.Close(ctx); libErr != nil {
		reasons = append(reasons, "library close failed: "+libErr.Error())
	}
	for _, closer := range s.closers {
		if closeErr := closer(); closeErr != nil {
			reasons = append(reasons, "client close failed: "+closeErr.Error())
		}
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, vPtr interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(vPtr); err != nil {
		s.logger.Error("encodig failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) respondPage(w http.ResponseWriter, name string, data interface{}) {
	buffer := new(bytes.Buffer)
	if err := s.pages.ExecuteTemplate(buffer, name, data); err != nil {
		s.logger.Error("page rendering failed", zap.Error(err), zap.String("page", name))
		http.Error(w, "rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) middleLogging(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client", r.RemoteAddr),
			zap.String("method", r.Method),
		)
		handler(w, r)
	}
}
