package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/document"
	"github.com/darkclainer/vocadrill/pkg/drill"
	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

const maxUploadSize = 32 << 20

type ResponseStatus int

const (
	ResponseOK ResponseStatus = iota
	ResponseBadRequest
	ResponseNotFound
	ResponseError
)

var responseStatusNames = [...]string{"ok", "bad_request", "not_found", "error"}

func (s ResponseStatus) String() string {
	if int(s) < len(responseStatusNames) {
		return responseStatusNames[s]
	}
	return "unknown"
}

func (s ResponseStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ResponseStatus) UnmarshalText(text []byte) error {
	for i, name := range responseStatusNames {
		if name == string(text) {
			*s = ResponseStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown response status %q", text)
}

type ResponseDocument struct {
	Document *library.Document `json:"document,omitempty"`
	Error    string            `json:"error,omitempty"`
	Status   ResponseStatus    `json:"status"`
}

type ResponseDocuments struct {
	Documents []library.Summary `json:"documents"`
	Error     string            `json:"error,omitempty"`
	Status    ResponseStatus    `json:"status"`
}

type DrillSentence struct {
	Index  int    `json:"index"`
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// DrillRow is one entry as shown in a drill. Hidden fields are empty.
type DrillRow struct {
	Index     int             `json:"index"`
	Number    int             `json:"number"`
	Word      string          `json:"word,omitempty"`
	Meaning   string          `json:"meaning,omitempty"`
	Sentences []DrillSentence `json:"sentences"`
	Solved    bool            `json:"solved"`
}

type ResponseDrill struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	HideWord    bool           `json:"hide_word"`
	HideMeaning bool           `json:"hide_meaning"`
	Rows        []DrillRow     `json:"rows"`
	Error       string         `json:"error,omitempty"`
	Status      ResponseStatus `json:"status"`
}

// Kinds of answers accepted by the check endpoint.
const (
	CheckWord     = "word"
	CheckMeaning  = "meaning"
	CheckSentence = "sentence"
)

type RequestCheck struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Sentence int    `json:"sentence"`
	Answer   string `json:"answer"`
}

type ResponseCheck struct {
	Correct bool           `json:"correct"`
	Reveal  string         `json:"reveal,omitempty"`
	Error   string         `json:"error,omitempty"`
	Status  ResponseStatus `json:"status"`
}

type RequestSolved struct {
	ID     string `json:"id"`
	Index  int    `json:"index"`
	Solved bool   `json:"solved"`
}

type ResponseTranslate struct {
	Translation string         `json:"translation,omitempty"`
	Error       string         `json:"error,omitempty"`
	Status      ResponseStatus `json:"status"`
}

// failure maps library errors to a response status and http code.
func (s *Server) failure(err error, msg string, fields ...zap.Field) (ResponseStatus, int) {
	switch {
	case errors.Is(err, library.ErrDocumentNotFound):
		return ResponseNotFound, http.StatusNotFound
	case errors.Is(err, library.ErrEntryOutOfRange),
		errors.Is(err, library.ErrUnreadableDocument),
		errors.Is(err, document.ErrUnsupportedFormat):
		s.logger.Info(msg, append(fields, zap.Error(err))...)
		return ResponseBadRequest, http.StatusBadRequest
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return ResponseError, http.StatusInternalServerError
}

func (s *Server) handleDocuments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			summaries, err := s.lib.List(r.Context())
			if err != nil {
				status, code := s.failure(err, "Library list returned error")
				s.respondJSON(w, &ResponseDocuments{Status: status, Error: err.Error()}, code)
				return
			}
			s.respondJSON(w, &ResponseDocuments{Documents: summaries}, http.StatusOK)
		case http.MethodPost:
			s.upload(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondJSON(w, &ResponseDocument{
			Status: ResponseBadRequest,
			Error:  "multipart field \"file\" is required",
		}, http.StatusBadRequest)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		s.respondJSON(w, &ResponseDocument{Status: ResponseBadRequest, Error: err.Error()}, http.StatusBadRequest)
		return
	}
	doc, err := s.lib.Load(r.Context(), header.Filename, content)
	if err != nil {
		status, code := s.failure(err, "Library load returned error", zap.String("name", header.Filename))
		s.respondJSON(w, &ResponseDocument{Status: status, Error: err.Error()}, code)
		return
	}
	s.logger.Info("Document loaded",
		zap.String("id", doc.ID),
		zap.String("name", doc.Name),
		zap.Int("entries", len(doc.Entries)),
	)
	s.respondJSON(w, &ResponseDocument{Document: doc}, http.StatusOK)
}

func (s *Server) handleDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			s.respondJSON(w, &ResponseDocument{Status: ResponseBadRequest, Error: "id is required"}, http.StatusBadRequest)
			return
		}
		var (
			doc *library.Document
			err error
		)
		switch r.Method {
		case http.MethodGet:
			doc, err = s.lib.Get(r.Context(), id)
		case http.MethodDelete:
			err = s.lib.Delete(r.Context(), id)
		default:
			http.NotFound(w, r)
			return
		}
		if err != nil {
			status, code := s.failure(err, "Library returned error", zap.String("id", id))
			s.respondJSON(w, &ResponseDocument{Status: status, Error: err.Error()}, code)
			return
		}
		s.respondJSON(w, &ResponseDocument{Document: doc}, http.StatusOK)
	}
}

// parseDrillQuery reads id, hide_word and hide_meaning.
func parseDrillQuery(r *http.Request) (*ResponseDrill, error) {
	query := r.URL.Query()
	resp := &ResponseDrill{ID: query.Get("id")}
	if resp.ID == "" {
		return nil, errors.New("id is required")
	}
	for key, dst := range map[string]*bool{
		"hide_word":    &resp.HideWord,
		"hide_meaning": &resp.HideMeaning,
	} {
		value := query.Get(key)
		if value == "" {
			continue
		}
		flag, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be boolean", key)
		}
		*dst = flag
	}
	return resp, nil
}

func drillRows(entries []*parser.Entry, hideWord, hideMeaning bool) []DrillRow {
	rows := make([]DrillRow, 0, len(entries))
	for i, e := range entries {
		row := DrillRow{
			Index:     i,
			Number:    i + 1,
			Sentences: make([]DrillSentence, 0, len(e.Sentences)),
			Solved:    e.Solved,
		}
		if !hideWord || e.Solved {
			row.Word = e.Word
		}
		if !hideMeaning {
			row.Meaning = e.Meaning
		}
		for j, sentence := range e.Sentences {
			row.Sentences = append(row.Sentences, DrillSentence{
				Index:  j,
				Number: j + 1,
				Text:   drill.Mask(sentence, e.Word),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) drill(r *http.Request) (*ResponseDrill, int) {
	resp, err := parseDrillQuery(r)
	if err != nil {
		return &ResponseDrill{Status: ResponseBadRequest, Error: err.Error()}, http.StatusBadRequest
	}
	doc, err := s.lib.Get(r.Context(), resp.ID)
	if err != nil {
		status, code := s.failure(err, "Library get returned error", zap.String("id", resp.ID))
		resp.Status = status
		resp.Error = err.Error()
		return resp, code
	}
	resp.Name = doc.Name
	resp.Rows = drillRows(doc.Entries, resp.HideWord, resp.HideMeaning)
	return resp, http.StatusOK
}

func (s *Server) handleDrill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		resp, code := s.drill(r)
		s.respondJSON(w, resp, code)
	}
}

func (s *Server) handleCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req RequestCheck
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			s.respondJSON(w, &ResponseCheck{Status: ResponseBadRequest, Error: "invalid check request"}, http.StatusBadRequest)
			return
		}
		resp, code := s.check(r, &req)
		s.respondJSON(w, resp, code)
	}
}

func (s *Server) check(r *http.Request, req *RequestCheck) (*ResponseCheck, int) {
	doc, err := s.lib.Get(r.Context(), req.ID)
	if err != nil {
		status, code := s.failure(err, "Library get returned error", zap.String("id", req.ID))
		return &ResponseCheck{Status: status, Error: err.Error()}, code
	}
	if req.Index < 0 || req.Index >= len(doc.Entries) {
		return &ResponseCheck{
			Status: ResponseBadRequest,
			Error:  fmt.Sprintf("%s: %d", library.ErrEntryOutOfRange, req.Index),
		}, http.StatusBadRequest
	}
	entry := doc.Entries[req.Index]

	var resp ResponseCheck
	switch req.Kind {
	case CheckWord:
		resp.Correct = drill.CheckWord(req.Answer, entry.Word)
		if resp.Correct {
			resp.Reveal = entry.Word
			if _, err := s.lib.SetSolved(r.Context(), req.ID, req.Index, true); err != nil {
				status, code := s.failure(err, "Library set solved returned error", zap.String("id", req.ID))
				return &ResponseCheck{Status: status, Error: err.Error()}, code
			}
		}
	case CheckMeaning:
		resp.Correct = drill.CheckMeaning(req.Answer, entry.Meaning)
		if resp.Correct {
			resp.Reveal = entry.Meaning
		}
	case CheckSentence:
		if req.Sentence < 0 || req.Sentence >= len(entry.Sentences) {
			return &ResponseCheck{
				Status: ResponseBadRequest,
				Error:  fmt.Sprintf("sentence index out of range: %d", req.Sentence),
			}, http.StatusBadRequest
		}
		resp.Correct = drill.CheckWord(req.Answer, entry.Word)
		if resp.Correct {
			resp.Reveal = entry.Sentences[req.Sentence]
		}
	default:
		return &ResponseCheck{
			Status: ResponseBadRequest,
			Error:  fmt.Sprintf("kind must be one of %s", strings.Join([]string{CheckWord, CheckMeaning, CheckSentence}, ", ")),
		}, http.StatusBadRequest
	}
	return &resp, http.StatusOK
}

func (s *Server) handleSolved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req RequestSolved
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			s.respondJSON(w, &ResponseDocument{Status: ResponseBadRequest, Error: "invalid solved request"}, http.StatusBadRequest)
			return
		}
		doc, err := s.lib.SetSolved(r.Context(), req.ID, req.Index, req.Solved)
		if err != nil {
			status, code := s.failure(err, "Library set solved returned error", zap.String("id", req.ID))
			s.respondJSON(w, &ResponseDocument{Status: status, Error: err.Error()}, code)
			return
		}
		s.respondJSON(w, &ResponseDocument{Document: doc}, http.StatusOK)
	}
}

func (s *Server) handleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			s.respondJSON(w, &ResponseDocument{Status: ResponseBadRequest, Error: "id is required"}, http.StatusBadRequest)
			return
		}
		doc, err := s.lib.Reset(r.Context(), id)
		if err != nil {
			status, code := s.failure(err, "Library reset returned error", zap.String("id", id))
			s.respondJSON(w, &ResponseDocument{Status: status, Error: err.Error()}, code)
			return
		}
		s.respondJSON(w, &ResponseDocument{Document: doc}, http.StatusOK)
	}
}

func (s *Server) handleSpeech() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		text, status, err := s.speechText(r)
		if err != nil {
			code := http.StatusBadRequest
			if status == ResponseNotFound {
				code = http.StatusNotFound
			}
			s.respondJSON(w, &ResponseTranslate{Status: status, Error: err.Error()}, code)
			return
		}
		audio, err := s.speaker.Synthesize(r.Context(), text)
		if err != nil {
			s.logger.Error("Speech synthesis returned error", zap.Error(err), zap.String("text", text))
			s.respondJSON(w, &ResponseTranslate{Status: ResponseError, Error: err.Error()}, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
		_, _ = w.Write(audio)
	}
}

// speechText takes text either literally or as a stored sentence addressed
// by id, index and sentence.
func (s *Server) speechText(r *http.Request) (string, ResponseStatus, error) {
	query := r.URL.Query()
	if text := strings.TrimSpace(query.Get("text")); text != "" {
		return text, ResponseOK, nil
	}
	id := query.Get("id")
	if id == "" {
		return "", ResponseBadRequest, errors.New("text or id is required")
	}
	index, err := strconv.Atoi(query.Get("index"))
	if err != nil {
		return "", ResponseBadRequest, errors.New("index must be integer")
	}
	sentence, err := strconv.Atoi(query.Get("sentence"))
	if err != nil {
		return "", ResponseBadRequest, errors.New("sentence must be integer")
	}
	doc, err := s.lib.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, library.ErrDocumentNotFound) {
			return "", ResponseNotFound, err
		}
		return "", ResponseError, err
	}
	if index < 0 || index >= len(doc.Entries) {
		return "", ResponseBadRequest, fmt.Errorf("%w: %d", library.ErrEntryOutOfRange, index)
	}
	sentences := doc.Entries[index].Sentences
	if sentence < 0 || sentence >= len(sentences) {
		return "", ResponseBadRequest, fmt.Errorf("sentence index out of range: %d", sentence)
	}
	return sentences[sentence], ResponseOK, nil
}

func (s *Server) handleTranslate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		text := strings.TrimSpace(r.URL.Query().Get("text"))
		if text == "" {
			s.respondJSON(w, &ResponseTranslate{Status: ResponseBadRequest, Error: "text is required"}, http.StatusBadRequest)
			return
		}
		translation, err := s.translator.Translate(r.Context(), text)
		if err != nil {
			s.logger.Error("Translation returned error", zap.Error(err), zap.String("text", text))
			s.respondJSON(w, &ResponseTranslate{Status: ResponseError, Error: err.Error()}, http.StatusBadGateway)
			return
		}
		s.respondJSON(w, &ResponseTranslate{Translation: translation}, http.StatusOK)
	}
}

type indexPage struct {
	Documents  []library.Summary
	Extensions string
	Error      string
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		page := indexPage{Extensions: strings.Join(document.Extensions(), ",")}
		summaries, err := s.lib.List(r.Context())
		if err != nil {
			s.logger.Error("Library list returned error", zap.Error(err))
			page.Error = err.Error()
		}
		page.Documents = summaries
		s.respondPage(w, "index.html", &page)
	}
}

func (s *Server) handleQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		resp, code := s.drill(r)
		if code != http.StatusOK {
			http.Error(w, resp.Error, code)
			return
		}
		s.respondPage(w, "quiz.html", resp)
	}
}
