package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/pkg/gdocs"
)

// ErrMissingProviderToken indicates the caller has not linked a Google
// account, so the Docs API cannot be called on their behalf.
var ErrMissingProviderToken = errors.New("google account not connected")

// ErrUnsupportedFileType indicates the uploaded file is not plain text.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// maxUploadBytes caps how much of an uploaded essay file is read.
const maxUploadBytes = 1 << 20

// FileUploader retains an original source file and returns its URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ImportService turns external documents into essay drafts ready for the
// submission wizard. It is a fetch-and-reshape utility, not part of the
// analysis pipeline.
type ImportService interface {
	FromGoogleDoc(ctx context.Context, payload dto.GoogleDocImportRequest) (dto.ImportResponse, error)
	FromUpload(ctx context.Context, file *multipart.FileHeader) (dto.ImportResponse, error)
}

type importService struct {
	docs      *gdocs.Client
	uploader  FileUploader
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewImportService constructs an ImportService. The uploader is optional;
// without one, uploaded source files are not retained.
func NewImportService(docs *gdocs.Client, uploader FileUploader, validate *validator.Validate, logger zerolog.Logger) ImportService {
	return &importService{
		docs:      docs,
		uploader:  uploader,
		validator: validate,
		logger:    logger.With().Str("component", "import_service").Logger(),
	}
}

func (s *importService) FromGoogleDoc(ctx context.Context, payload dto.GoogleDocImportRequest) (dto.ImportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ImportResponse{}, err
	}

	if strings.TrimSpace(payload.ProviderToken) == "" {
		return dto.ImportResponse{}, ErrMissingProviderToken
	}

	document, err := s.docs.Fetch(ctx, payload.DocURL, payload.ProviderToken)
	if err != nil {
		return dto.ImportResponse{}, err
	}

	comments := make([]dto.ImportedComment, 0, len(document.Comments))
	for _, comment := range document.Comments {
		comments = append(comments, dto.ImportedComment{
			Excerpt: comment.Excerpt,
			Comment: comment.Comment,
		})
	}

	s.logger.Info().Str("doc_title", document.Title).Int("comments", len(comments)).Msg("google doc imported")

	return dto.ImportResponse{
		EssayText: document.Text,
		Comments:  comments,
		DocTitle:  document.Title,
	}, nil
}

func (s *importService) FromUpload(ctx context.Context, file *multipart.FileHeader) (dto.ImportResponse, error) {
	if file == nil {
		return dto.ImportResponse{}, fmt.Errorf("essay file is required")
	}

	if err := validateTextFile(file); err != nil {
		return dto.ImportResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.ImportResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, maxUploadBytes))
	if err != nil {
		return dto.ImportResponse{}, fmt.Errorf("failed to read file: %w", err)
	}

	sourceURL := ""
	if s.uploader != nil {
		retained, err := s.retain(ctx, file)
		if err != nil {
			s.logger.Warn().Err(err).Str("filename", file.Filename).Msg("failed to retain essay source file")
		} else {
			sourceURL = retained
		}
	}

	title := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	if title == "" {
		title = "Untitled Document"
	}

	return dto.ImportResponse{
		EssayText: strings.TrimSpace(string(content)),
		Comments:  []dto.ImportedComment{},
		DocTitle:  title,
		SourceURL: sourceURL,
	}, nil
}

func (s *importService) retain(ctx context.Context, file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	return s.uploader.Upload(ctx, file.Filename, reader)
}

func validateTextFile(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	if !mime.Is("text/plain") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime.String())
	}

	return nil
}
