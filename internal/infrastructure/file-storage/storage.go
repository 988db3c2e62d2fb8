package filestorage

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/grocerlink/payment-service/config"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/grocerlink/payment-service/pkg/httpclient"
	"github.com/rs/zerolog/log"
)

// Client uploads proof-of-transfer blobs to the platform blob store and
// returns retrievable references. The store's internals are not this
// service's concern; only the upload contract is.
type Client struct {
	host string
}

func CreateClient(config *config.Config) *Client {
	return &Client{
		host: config.ProofStorageHost,
	}
}

type uploadResponse struct {
	Reference string `json:"reference"`
}

func (c *Client) Upload(name string, mimeType string, content []byte) (string, error) {
	req := httpclient.HttpRequest{
		URL:    fmt.Sprintf("%s/api/v1/blobs", c.host),
		Method: "POST",
		Body:   content,
		Headers: map[string]string{
			"Content-Type":        mimeType,
			"X-Blob-Name":         name,
			"X-Blob-Content-Type": mimeType,
		},
	}

	statusCode, body, err := httpclient.SendRequest(req)
	if err != nil {
		log.Error().Err(err).Str("component", "Upload").Msg("")
		return "", errs.ErrInternalServer
	}

	if statusCode != http.StatusCreated && statusCode != http.StatusOK {
		log.Error().Int("status", statusCode).Str("component", "Upload").Msg("blob store returned non-success status")
		return "", errs.ErrInternalServer
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error().Err(err).Str("component", "Upload").Msg("")
		return "", errs.ErrInternalServer
	}

	return resp.Reference, nil
}
