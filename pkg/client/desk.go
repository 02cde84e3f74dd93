package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
)

// DeskClient talks to the desks service. The reservations service uses it to
// confirm a desk exists and accepts reservations before admitting a request.
type DeskClient struct {
	httpClient *HttpClient
}

func NewDeskClient(baseURL string) *DeskClient {
	return &DeskClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *DeskClient) GetByID(ctx context.Context, id string) (*model.Desk, error) {
	path := "/api/v1/desks/" + url.PathEscape(id)

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, apperrors.Unavailable("desks service")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("desk", id)
	default:
		return nil, apperrors.Internal(
			fmt.Sprintf("desks service returned status %d: %s", resp.StatusCode, GetErrorMessage(resp)),
			nil,
		)
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, apperrors.Internal("could not decode desk response", err)
	}

	var desk model.Desk
	if err := json.Unmarshal(wrapper.Data, &desk); err != nil {
		return nil, apperrors.Internal("could not decode desk payload", err)
	}

	return &desk, nil
}
