package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadResponse reports what an upload ingested.
type UploadResponse struct {
	Success           bool   `json:"success"`
	CorpusID          string `json:"corpus_id"`
	SyllabusDocs      int    `json:"syllabus_docs"`
	TextbookDocs      int    `json:"textbook_docs"`
	QuestionPaperPath string `json:"question_paper_path"`
}

// ValidateRequest names a previously uploaded question paper.
type ValidateRequest struct {
	QuestionPaperPath string `json:"question_paper_path"`
}

// handleUpload stores the syllabus, question paper and textbooks, then
// ingests them into the session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	syllabus := firstFile(r.MultipartForm, "syllabus")
	paper := firstFile(r.MultipartForm, "question_paper")
	if syllabus == nil || paper == nil {
		writeError(w, http.StatusBadRequest, "Missing required files")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0750); err != nil {
		writeServiceError(w, fmt.Errorf("create upload directory: %w", err))
		return
	}

	syllabusPath, err := s.save(syllabus)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	paperPath, err := s.save(paper)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var textbookPaths []string
	for _, fh := range r.MultipartForm.File["textbooks"] {
		if fh.Filename == "" {
			continue
		}
		path, err := s.save(fh)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		textbookPaths = append(textbookPaths, path)
	}
	logger.Info("Upload: syllabus %s, paper %s, %d textbook(s)",
		filepath.Base(syllabusPath), filepath.Base(paperPath), len(textbookPaths))

	corpus, err := s.session.Ingest(r.Context(), driving.IngestRequest{
		SyllabusPath:  syllabusPath,
		TextbookPaths: textbookPaths,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := UploadResponse{
		Success:           true,
		CorpusID:          corpus.ID,
		QuestionPaperPath: paperPath,
	}
	if corpus.Syllabus != nil {
		resp.SyllabusDocs = corpus.Syllabus.Size()
	}
	if corpus.Textbook != nil {
		resp.TextbookDocs = corpus.Textbook.Size()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleValidate checks an uploaded question paper against the session corpus.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	path, ok := s.resolveUpload(req.QuestionPaperPath)
	if !ok {
		writeError(w, http.StatusBadRequest, "Question paper file not found")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Question paper file not found")
		return
	}
	questions, err := domain.ParseQuestionPaper(data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	report, err := s.session.Validate(r.Context(), questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// save writes an uploaded file into the upload directory under a
// sanitised name and returns its path.
func (s *Server) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(s.uploadDir, SanitiseFilename(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// resolveUpload accepts only existing regular files inside the upload directory.
func (s *Server) resolveUpload(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	root, err := filepath.Abs(s.uploadDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return abs, true
}

// SanitiseFilename reduces a client-supplied file name to a safe base name.
func SanitiseFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	files := form.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}
