// Package translate translates example sentences with the public Google
// Translate endpoint.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/darkclainer/vocadrill/pkg/remote"
)

const (
	defaultHost   = "https://translate.googleapis.com"
	defaultSource = "en"
	defaultTarget = "ko"
	translatePath = "/translate_a/single"
)

var (
	ErrEmptyText     = errors.New("empty text")
	ErrNoTranslation = fmt.Errorf("%w: no translation", remote.ErrMalformedResponse)
)

type Config struct {
	Host    string
	Source  string
	Target  string
	Timeout time.Duration
	Retries uint
}

type Client struct {
	http   *resty.Client
	config *Config
}

func NewClient(config *Config) *Client {
	if config.Host == "" {
		config.Host = defaultHost
	}
	if config.Source == "" {
		config.Source = defaultSource
	}
	if config.Target == "" {
		config.Target = defaultTarget
	}
	client := resty.New()
	client.SetBaseURL(config.Host)
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	return &Client{
		http:   client,
		config: config,
	}
}

func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	var translation string
	err := remote.Retry(ctx, c.config.Retries, func() error {
		var err error
		translation, err = c.translate(ctx, text)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("can not translate: %w", err)
	}
	return translation, nil
}

func (c *Client) translate(ctx context.Context, text string) (string, error) {
	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     c.config.Source,
			"tl":     c.config.Target,
			"dt":     "t",
			"q":      text,
		}).
		Get(translatePath)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	if response.IsError() {
		return "", &remote.StatusError{Code: response.StatusCode()}
	}
	return parseResponse(response.Bytes())
}

// parseResponse joins the translated segments of a response shaped like
// [[["translated","original",...],...],...].
func parseResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrMalformedResponse, err)
	}
	if len(raw) == 0 {
		return "", ErrNoTranslation
	}
	var segments [][]interface{}
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", ErrNoTranslation
	}
	var result strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if s, ok := segment[0].(string); ok {
			result.WriteString(s)
		}
	}
	if result.Len() == 0 {
		return "", ErrNoTranslation
	}
	return result.String(), nil
}

func (c *Client) Close() error {
	return c.http.Close()
}
