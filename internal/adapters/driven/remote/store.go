package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// uploadRequest is the /files request format.
type uploadRequest struct {
	UserID       int64  `json:"user_id"`
	FileName     string `json:"file_name"`
	UploadedText string `json:"uploaded_text"`
	File         string `json:"file"`
}

// uploadResponse is the /files response format.
type uploadResponse struct {
	ID int64 `json:"id"`
}

// storedFileResponse is one entry of the /user_files response.
type storedFileResponse struct {
	ID             int64  `json:"id"`
	FileName       string `json:"file_name"`
	UploadedText   string `json:"uploaded_text"`
	AnalysisResult string `json:"analysis_result"`
	UploadedAt     string `json:"uploaded_at"`
}

// Upload stores encoded content and returns the server-assigned record.
func (c *Client) Upload(ctx context.Context, session domain.Session, req domain.UploadRequest) (*domain.UploadRecord, error) {
	var out uploadResponse
	err := c.do(ctx, call{
		op:      "upload",
		method:  http.MethodPost,
		url:     c.baseURL + "/files",
		session: &session,
		in: uploadRequest{
			UserID:       req.OwnerID,
			FileName:     req.FileName,
			UploadedText: req.Text,
			File:         req.EncodedPayload,
		},
		out: &out,
	})
	if err != nil {
		return nil, err
	}
	if out.ID <= 0 {
		return nil, &domain.RemoteError{Op: "upload", Detail: "File ID not returned from upload."}
	}
	return &domain.UploadRecord{ID: out.ID}, nil
}

// List returns the caller's uploads.
func (c *Client) List(ctx context.Context, session domain.Session) ([]domain.StoredFile, error) {
	var out []storedFileResponse
	err := c.do(ctx, call{
		op:      "list files",
		method:  http.MethodGet,
		url:     c.baseURL + "/user_files",
		session: &session,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}

	files := make([]domain.StoredFile, 0, len(out))
	for _, f := range out {
		files = append(files, domain.StoredFile{
			ID:             f.ID,
			FileName:       f.FileName,
			UploadedText:   f.UploadedText,
			AnalysisResult: f.AnalysisResult,
			UploadedAt:     parseTimestamp(f.UploadedAt),
		})
	}
	return files, nil
}

// Delete removes an upload.
func (c *Client) Delete(ctx context.Context, session domain.Session, id int64) error {
	return c.do(ctx, call{
		op:      "delete file",
		method:  http.MethodDelete,
		url:     c.baseURL + "/files/" + strconv.FormatInt(id, 10),
		session: &session,
	})
}
