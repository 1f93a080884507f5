package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snotra-ai/snotra-backend/internal/apierr"
	"github.com/snotra-ai/snotra-backend/internal/artifacts"
	"github.com/snotra-ai/snotra-backend/internal/extract"
	"github.com/snotra-ai/snotra-backend/internal/gemini"
	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/middleware"
	"github.com/snotra-ai/snotra-backend/internal/session"
	"github.com/snotra-ai/snotra-backend/internal/types"
	"github.com/snotra-ai/snotra-backend/internal/videos"
)

type StudyHandler struct {
	log            *logger.Logger
	store          session.Store
	generator      artifacts.Generator
	videoService   *videos.Service
	maxUploadBytes int64
}

func NewStudyHandler(log *logger.Logger, store session.Store, gen artifacts.Generator, vs *videos.Service, maxUploadBytes int64) *StudyHandler {
	return &StudyHandler{
		log:            log.With("handler", "StudyHandler"),
		store:          store,
		generator:      gen,
		videoService:   vs,
		maxUploadBytes: maxUploadBytes,
	}
}

// POST /upload
// Receives one file, extracts its text and makes it the session's active
// document, replacing any previous one.
func (h *StudyHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "no_file", errors.New("no file provided"))
		return
	}
	if fh.Filename == "" {
		RespondError(c, http.StatusBadRequest, "no_file", errors.New("no file selected"))
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("file exceeds upload size limit"))
		return
	}
	format, ok := extract.FormatFromFilename(fh.Filename)
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_file_type", errors.New("invalid file type"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "upload_read", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "upload_read", err)
		return
	}

	text, err := extract.Extract(fh.Filename, format, data)
	if err != nil {
		h.log.Warn("extraction failed", "filename", fh.Filename, "format", string(format), "error", err)
		RespondError(c, http.StatusBadRequest, "extraction_failed", errors.New("failed to extract text from file"))
		return
	}

	doc := &types.Document{Name: fh.Filename, Format: format, ExtractedText: text}
	if err := h.store.SetDocument(c.Request.Context(), middleware.SessionKey(c), doc); err != nil {
		RespondError(c, http.StatusInternalServerError, "session_store", err)
		return
	}
	RespondOK(c, gin.H{
		"success":        true,
		"filename":       fh.Filename,
		"content_length": len(text),
	})
}

// POST /summarize
func (h *StudyHandler) Summarize(c *gin.Context) {
	docText, ok := h.requireDocument(c)
	if !ok {
		return
	}
	summary, err := h.generator.Summary(c.Request.Context(), docText)
	if err != nil {
		h.respondGenerationError(c, "summary", err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

// POST /generate-quiz
func (h *StudyHandler) GenerateQuiz(c *gin.Context) {
	docText, ok := h.requireDocument(c)
	if !ok {
		return
	}
	var req struct {
		NumQuestions int    `json:"num_questions"`
		Difficulty   string `json:"difficulty"`
	}
	_ = c.ShouldBindJSON(&req) // both fields optional

	quiz, err := h.generator.Quiz(c.Request.Context(), docText, req.NumQuestions, req.Difficulty)
	if err != nil {
		h.respondGenerationError(c, "quiz", err)
		return
	}
	RespondOK(c, quiz)
}

// POST /generate-mock-test
func (h *StudyHandler) GenerateMockTest(c *gin.Context) {
	docText, ok := h.requireDocument(c)
	if !ok {
		return
	}
	test, err := h.generator.MockTest(c.Request.Context(), docText)
	if err != nil {
		h.respondGenerationError(c, "mock test", err)
		return
	}
	RespondOK(c, test)
}

// POST /generate-mindmap
func (h *StudyHandler) GenerateMindMap(c *gin.Context) {
	docText, ok := h.requireDocument(c)
	if !ok {
		return
	}
	mindMap, err := h.generator.MindMap(c.Request.Context(), docText)
	if err != nil {
		h.respondGenerationError(c, "mind map", err)
		return
	}
	RespondOK(c, mindMap)
}

// POST /chat
// Works with or without a document; the tutor falls back to general help.
func (h *StudyHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		RespondError(c, http.StatusBadRequest, "no_message", errors.New("no message provided"))
		return
	}

	key := middleware.SessionKey(c)
	sess, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session_store", err)
		return
	}
	docText := ""
	if sess.Document != nil {
		docText = sess.Document.ExtractedText
	}

	reply, err := h.generator.ChatReply(c.Request.Context(), docText, sess.History, req.Message)
	if err != nil {
		h.respondGenerationError(c, "chat response", err)
		return
	}
	turn := types.ConversationTurn{User: req.Message, Assistant: reply, Timestamp: time.Now().UTC()}
	if err := h.store.AppendTurn(c.Request.Context(), key, turn); err != nil {
		RespondError(c, http.StatusInternalServerError, "session_store", err)
		return
	}
	RespondOK(c, gin.H{"response": reply})
}

// POST /search-videos
// Best-effort: lookup failures return an empty list, never an error.
func (h *StudyHandler) SearchVideos(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	_ = c.ShouldBindJSON(&req)

	query := req.Query
	if query == "" {
		sess, err := h.store.Get(c.Request.Context(), middleware.SessionKey(c))
		if err == nil && sess.Document != nil && sess.Document.ExtractedText != "" {
			topic, terr := h.generator.Topic(c.Request.Context(), sess.Document.ExtractedText)
			if terr != nil {
				h.log.Warn("topic extraction failed", "error", terr)
			} else {
				query = topic
			}
		}
	}
	if query == "" {
		RespondError(c, http.StatusBadRequest, "no_query", errors.New("no search query provided"))
		return
	}

	list := h.videoService.Search(c.Request.Context(), query)
	RespondOK(c, gin.H{"videos": list, "query": query})
}

// POST /clear-session
func (h *StudyHandler) ClearSession(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context(), middleware.SessionKey(c)); err != nil {
		RespondError(c, http.StatusInternalServerError, "session_store", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (h *StudyHandler) requireDocument(c *gin.Context) (string, bool) {
	sess, err := h.store.Get(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session_store", err)
		return "", false
	}
	if sess.Document == nil || sess.Document.ExtractedText == "" {
		RespondError(c, http.StatusBadRequest, "no_document", session.ErrNoDocument)
		return "", false
	}
	return sess.Document.ExtractedText, true
}

// respondGenerationError maps pipeline failures to the generic responses
// callers see. Diagnostic detail (including raw model output) only ever
// reaches the logs.
func (h *StudyHandler) respondGenerationError(c *gin.Context, artifact string, err error) {
	var malformed *artifacts.MalformedOutputError
	var apiErr *apierr.Error
	switch {
	case errors.Is(err, gemini.ErrNoCredentials):
		apiErr = apierr.New(http.StatusServiceUnavailable, "no_model_credentials", errors.New("model credentials are not configured"))
	case errors.As(err, &malformed):
		h.log.Error("generation produced unusable output", "artifact", artifact, "error", err)
		apiErr = apierr.New(http.StatusInternalServerError, "bad_model_output", errors.New("failed to parse "+artifact+" data"))
	default:
		h.log.Error("generation failed", "artifact", artifact, "error", err)
		apiErr = apierr.New(http.StatusBadGateway, "model_unreachable", errors.New("failed to generate "+artifact))
	}
	Respond(c, apiErr)
}
