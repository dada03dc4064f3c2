// Package speech synthesizes spoken sentences through the Google Translate
// text-to-speech endpoint.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"resty.dev/v3"

	"github.com/darkclainer/vocadrill/pkg/remote"
)

const (
	defaultHost     = "https://translate.google.com"
	defaultLanguage = "en"
	ttsPath         = "/translate_tts"
	// maxChunkLength is the longest text the endpoint accepts per request.
	maxChunkLength = 100
)

var ErrEmptyText = errors.New("empty text")

type Config struct {
	// Host is the scheme and host requests are sent to.
	Host     string
	Language string
	Timeout  time.Duration
	// Retries is the number of retries after the first failed attempt.
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
	if config.Language == "" {
		config.Language = defaultLanguage
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

// Synthesize returns mp3 audio for text. Long text is requested in chunks
// and the audio segments are concatenated.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := splitText(text, maxChunkLength)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	audio := new(bytes.Buffer)
	for i, chunk := range chunks {
		var part []byte
		err := remote.Retry(ctx, c.config.Retries, func() error {
			var err error
			part, err = c.fetch(ctx, chunk, i, len(chunks))
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("can not synthesize chunk %d: %w", i, err)
		}
		audio.Write(part)
	}
	return audio.Bytes(), nil
}

func (c *Client) fetch(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"q":       chunk,
			"tl":      c.config.Language,
			"client":  "tw-ob",
			"total":   strconv.Itoa(total),
			"idx":     strconv.Itoa(idx),
			"textlen": strconv.Itoa(utf8.RuneCountInString(chunk)),
		}).
		Get(ttsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	if response.IsError() {
		return nil, &remote.StatusError{Code: response.StatusCode()}
	}
	return response.Bytes(), nil
}

func (c *Client) Close() error {
	return c.http.Close()
}

// splitText cuts text on whitespace into chunks of at most limit runes.
// Words longer than limit are cut.
func splitText(text string, limit int) []string {
	var (
		chunks  []string
		current []string
		length  int
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}
		current, length = nil, 0
	}
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > limit {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:limit]))
			word = string(runes[limit:])
		}
		wordLength := utf8.RuneCountInString(word)
		if length > 0 && length+1+wordLength > limit {
			flush()
		}
		if length > 0 {
			length++
		}
		current = append(current, word)
		length += wordLength
	}
	flush()
	return chunks
}
