package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// MatchJobs finds job postings matching the resume text. When persist is set the
// backend saves the results for the user.
func (c *Client) MatchJobs(ctx context.Context, text string, persist bool) (*types.MatchResult, error) {
	req, err := jsonCall(OpMatch, http.MethodPost, "/match-jobs/", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	req.query = url.Values{"save_results": []string{strconv.FormatBool(persist)}}

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, mapFailure(err, func(detail string, status int) error {
			return &MatchError{Message: detail, StatusCode: status}
		})
	}

	if err := schemas.ValidatePayload(schemas.MatchResponse, body); err != nil {
		return nil, &MatchError{Message: "malformed match response", Cause: err}
	}

	var result types.MatchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &MatchError{Message: "malformed match response", Cause: err}
	}
	if result.Jobs == nil {
		result.Jobs = []types.JobMatch{}
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	return &result, nil
}
