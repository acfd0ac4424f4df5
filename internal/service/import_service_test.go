package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/pkg/gdocs"
)

type recordingUploader struct {
	names []string
}

func (u *recordingUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	u.names = append(u.names, name)
	return "https://files.test/" + name, nil
}

func newMultipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 4096)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestImportServiceFromGoogleDoc(t *testing.T) {
	docs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Draft One", "body": {"content": [{"paragraph": {"elements": [{"textRun": {"content": "Essay body."}}]}}]}}`))
	}))
	defer docs.Close()

	drive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"comments": [{"content": "Expand here.", "resolved": false, "quotedFileContent": {"value": "Essay body."}}]}`))
	}))
	defer drive.Close()

	client := gdocs.NewClient(gdocs.WithBaseURLs(docs.URL, drive.URL))
	svc := NewImportService(client, nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.FromGoogleDoc(context.Background(), dto.GoogleDocImportRequest{
		DocURL:        "https://docs.google.com/document/d/doc-1/edit",
		ProviderToken: "token-1",
	})
	require.NoError(t, err)
	require.Equal(t, "Essay body.", resp.EssayText)
	require.Equal(t, "Draft One", resp.DocTitle)
	require.Len(t, resp.Comments, 1)
	require.Equal(t, "Expand here.", resp.Comments[0].Comment)
}

func TestImportServiceRequiresProviderToken(t *testing.T) {
	svc := NewImportService(gdocs.NewClient(), nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.FromGoogleDoc(context.Background(), dto.GoogleDocImportRequest{
		DocURL: "https://docs.google.com/document/d/doc-1/edit",
	})
	require.ErrorIs(t, err, ErrMissingProviderToken)
}

func TestImportServiceRejectsNonDocURL(t *testing.T) {
	svc := NewImportService(gdocs.NewClient(), nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.FromGoogleDoc(context.Background(), dto.GoogleDocImportRequest{
		DocURL:        "https://example.com/essay.txt",
		ProviderToken: "token-1",
	})
	require.ErrorIs(t, err, gdocs.ErrInvalidURL)
}

func TestImportServiceFromUpload(t *testing.T) {
	uploader := &recordingUploader{}
	svc := NewImportService(gdocs.NewClient(), uploader, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	file := newMultipartFile(t, "my essay.txt", []byte("  An uploaded essay body.\n"))

	resp, err := svc.FromUpload(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "An uploaded essay body.", resp.EssayText)
	require.Equal(t, "my essay", resp.DocTitle)
	require.Equal(t, "https://files.test/my essay.txt", resp.SourceURL)
	require.Empty(t, resp.Comments)
	require.Equal(t, []string{"my essay.txt"}, uploader.names)
}

func TestImportServiceFromUploadWithoutUploader(t *testing.T) {
	svc := NewImportService(gdocs.NewClient(), nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	file := newMultipartFile(t, "essay.txt", []byte("Plain text."))

	resp, err := svc.FromUpload(context.Background(), file)
	require.NoError(t, err)
	require.Empty(t, resp.SourceURL)
}

func TestImportServiceRejectsBinaryUpload(t *testing.T) {
	svc := NewImportService(gdocs.NewClient(), nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	zipHeader := []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
	file := newMultipartFile(t, "essay.zip", zipHeader)

	_, err := svc.FromUpload(context.Background(), file)
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}
