package remote

import (
	"context"
	"net/http"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// socialRequest is the /twitter_data request format.
type socialRequest struct {
	URL     string `json:"url"`
	TweetID string `json:"tweet_id"`
}

// socialResponse is the /twitter_data response format.
type socialResponse struct {
	ImageURL  string `json:"image_url"`
	TweetText string `json:"tweet_text"`
}

// Extract resolves a post to its image location and caption. Missing
// fields come back empty; completeness is judged by the caller.
func (c *Client) Extract(ctx context.Context, postURL, postID string) (*domain.SocialPost, error) {
	var out socialResponse
	err := c.do(ctx, call{
		op:     "fetch social post",
		method: http.MethodPost,
		url:    c.socialURL + "/twitter_data",
		in:     socialRequest{URL: postURL, TweetID: postID},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &domain.SocialPost{
		PostURL:  postURL,
		PostID:   postID,
		ImageURL: out.ImageURL,
		Caption:  out.TweetText,
	}, nil
}
