package remote

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// describeRequest is the verify analysis request format.
type describeRequest struct {
	Description string `json:"description"`
}

// analysisResponse covers both analysis endpoints. Description and
// DoesMatch are only reported by the verify endpoint. AnalysisResult is
// required.
type analysisResponse struct {
	FileName       string  `json:"file_name"`
	Description    string  `json:"description"`
	AnalysisResult *string `json:"analysis_result"`
	DoesMatch      *bool   `json:"does_match"`
}

// Analyze runs the variant's analysis against an uploaded file.
func (c *Client) Analyze(ctx context.Context, session domain.Session, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	id := strconv.FormatInt(req.UploadID, 10)

	cl := call{
		op:      "analyze",
		method:  http.MethodPost,
		session: &session,
	}
	switch req.Variant {
	case domain.VariantVerify:
		cl.url = c.baseURL + "/analyze_image_with_description/" + id
		cl.in = describeRequest{Description: req.Text}
	case domain.VariantGenerate:
		cl.url = c.baseURL + "/analyze_file/" + id
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", domain.ErrInvalidInput, req.Variant)
	}

	var out analysisResponse
	cl.out = &out
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	if out.AnalysisResult == nil {
		return nil, &domain.RemoteError{Op: "analyze", Detail: "Analysis result not returned."}
	}
	return &domain.AnalysisResult{
		Text:        *out.AnalysisResult,
		FileName:    out.FileName,
		Description: out.Description,
		DoesMatch:   out.DoesMatch,
	}, nil
}
