// Package gdocs fetches document text and unresolved comments from the
// Google Docs and Drive REST APIs using a caller-supplied OAuth token.
package gdocs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidURL indicates the supplied link is not a Google Docs URL.
	ErrInvalidURL = errors.New("invalid google docs url")
	// ErrPermission indicates the token is expired or lacks access.
	ErrPermission = errors.New("google token expired or insufficient permissions")
)

var docIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// Comment is one unresolved document comment paired with its quoted excerpt.
type Comment struct {
	Excerpt string `json:"excerpt"`
	Comment string `json:"comment"`
}

// Document is the reshaped import payload.
type Document struct {
	Title    string    `json:"doc_title"`
	Text     string    `json:"essay_text"`
	Comments []Comment `json:"comments"`
}

// Client talks to the Google Docs and Drive APIs.
type Client struct {
	docsBaseURL  string
	driveBaseURL string
	httpClient   *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints, used by tests.
func WithBaseURLs(docs, drive string) Option {
	return func(c *Client) {
		c.docsBaseURL = strings.TrimSuffix(docs, "/")
		c.driveBaseURL = strings.TrimSuffix(drive, "/")
	}
}

// NewClient constructs a Google Docs client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		docsBaseURL:  "https://docs.googleapis.com/v1",
		driveBaseURL: "https://www.googleapis.com/drive/v3",
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ParseDocID extracts the document identifier from a Google Docs link.
func ParseDocID(docURL string) (string, error) {
	match := docIDPattern.FindStringSubmatch(docURL)
	if match == nil {
		return "", ErrInvalidURL
	}
	return match[1], nil
}

// Fetch retrieves the document body text and its unresolved comments,
// reshaped into the import payload. Comment fetch failures are tolerated;
// the document text is the essential part.
func (c *Client) Fetch(ctx context.Context, docURL, token string) (Document, error) {
	docID, err := ParseDocID(docURL)
	if err != nil {
		return Document{}, err
	}

	doc, err := c.fetchDocument(ctx, docID, token)
	if err != nil {
		return Document{}, err
	}

	comments, err := c.fetchComments(ctx, docID, token)
	if err != nil {
		comments = nil
	}

	doc.Comments = comments
	if doc.Comments == nil {
		doc.Comments = []Comment{}
	}

	return doc, nil
}

func (c *Client) fetchDocument(ctx context.Context, docID, token string) (Document, error) {
	url := fmt.Sprintf("%s/documents/%s", c.docsBaseURL, docID)
	body, err := c.get(ctx, url, token)
	if err != nil {
		return Document{}, err
	}

	var payload struct {
		Title string `json:"title"`
		Body  struct {
			Content []struct {
				Paragraph *struct {
					Elements []struct {
						TextRun *struct {
							Content string `json:"content"`
						} `json:"textRun"`
					} `json:"elements"`
				} `json:"paragraph"`
			} `json:"content"`
		} `json:"body"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	builder := strings.Builder{}
	for _, element := range payload.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, el := range element.Paragraph.Elements {
			if el.TextRun != nil {
				builder.WriteString(el.TextRun.Content)
			}
		}
	}

	title := payload.Title
	if title == "" {
		title = "Untitled Document"
	}

	return Document{
		Title: title,
		Text:  strings.TrimSpace(builder.String()),
	}, nil
}

func (c *Client) fetchComments(ctx context.Context, docID, token string) ([]Comment, error) {
	url := fmt.Sprintf("%s/files/%s/comments?fields=comments(content,quotedFileContent,resolved)&includeDeleted=false", c.driveBaseURL, docID)
	body, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Comments []struct {
			Content           string `json:"content"`
			Resolved          bool   `json:"resolved"`
			QuotedFileContent *struct {
				Value string `json:"value"`
			} `json:"quotedFileContent"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]Comment, 0, len(payload.Comments))
	for _, item := range payload.Comments {
		if item.Resolved || strings.TrimSpace(item.Content) == "" {
			continue
		}
		excerpt := ""
		if item.QuotedFileContent != nil {
			excerpt = item.QuotedFileContent.Value
		}
		comments = append(comments, Comment{
			Excerpt: excerpt,
			Comment: item.Content,
		})
	}

	return comments, nil
}

func (c *Client) get(ctx context.Context, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google api error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrPermission
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google api returned %d: %s", resp.StatusCode, string(respBody))
	}

	return io.ReadAll(resp.Body)
}
