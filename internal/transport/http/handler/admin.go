package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"supportbot/internal/app"
	"supportbot/internal/pkg/pdfextract"
	"supportbot/internal/transport/http/response"
)

const (
	maxUploadSize = 10 << 20 // per file
)

// AdminHandler serves the knowledge management and history review surface.
type AdminHandler struct {
	knowledgeService *app.KnowledgeService
	chatService      *app.ChatService
}

func NewAdminHandler(knowledgeService *app.KnowledgeService, chatService *app.ChatService) *AdminHandler {
	return &AdminHandler{
		knowledgeService: knowledgeService,
		chatService:      chatService,
	}
}

// UploadJSON accepts a multipart batch under "files" and feeds it through
// the ingestion pipeline. Non-.json files are skipped by the pipeline, and
// a batch with nothing eligible is rejected before any processing.
func (h *AdminHandler) UploadJSON(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}

	files := form.File["files"]
	batch := make([]app.UploadItem, 0, len(files))
	for _, file := range files {
		if file.Size > maxUploadSize {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("%s is too large (max 10MB)", file.Filename))
			return
		}
		f, err := file.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to open uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read uploaded file")
			return
		}
		batch = append(batch, app.UploadItem{Name: file.Filename, Data: data})
	}

	report, err := h.knowledgeService.IngestBatch(batch)
	if err != nil {
		if errors.Is(err, app.ErrNoFiles) {
			response.Error(c, http.StatusBadRequest, response.CodeNoFiles, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		}
		return
	}

	response.OK(c, gin.H{
		"fragments": report.Fragments,
		"items":     report.Items,
		"message":   fmt.Sprintf("learned %d knowledge fragments", report.Fragments),
	})
}

// UploadPDF ingests a single PDF's extracted text as one knowledge
// fragment. Form fields: "file" (required), "name" (optional source label).
func (h *AdminHandler) UploadPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	text, err := pdfextract.ExtractText(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to extract text from PDF: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "PDF contains no extractable text")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = file.Filename
	}

	fragment, err := h.knowledgeService.IngestText(name, text)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed")
		}
		return
	}

	response.OK(c, fragment)
}

// History lists the whole conversation log in timestamp order.
func (h *AdminHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	messages, err := h.chatService.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	response.OK(c, messages)
}

// KnowledgeFiles lists the distinct source labels of stored fragments.
func (h *AdminHandler) KnowledgeFiles(c *gin.Context) {
	sources, err := h.knowledgeService.ListSources()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list knowledge files failed")
		return
	}

	response.OK(c, sources)
}
