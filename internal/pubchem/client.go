// Package pubchem resolves free-text chemical names to PubChem compound
// identifiers via the PUG REST interface.
//
// It is the last-resort fallback of the resolver: when a token matches no
// datasource directly, the token is assumed to be a chemical name and looked
// up here before one final mapping attempt.
package pubchem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/avdwerff/bridgechat/internal/log"
)

// DefaultBaseURL is the public PubChem PUG REST service.
const DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov"

// ErrNotFound means the service knows no compound by the given name. This is
// absence, not a transport error; fallback chains continue past it.
var ErrNotFound = errors.New("no compound found")

// httpGuard is the transport dependency, defined by this consumer.
// *security.HTTP satisfies it.
type httpGuard interface {
	ValidateURL(url string) error
	Client() *http.Client
	MaxResponseSize() int64
}

// Client talks to one PubChem instance. Stateless and safe for concurrent
// use.
type Client struct {
	baseURL string
	guard   httpGuard
	logger  log.Logger
}

// New creates a name resolution client. baseURL may be empty, in which case
// DefaultBaseURL is used.
func New(baseURL string, guard httpGuard, logger log.Logger) (*Client, error) {
	if guard == nil {
		return nil, fmt.Errorf("http guard is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		guard:   guard,
		logger:  logger,
	}, nil
}

// CompoundID resolves a chemical name to a PubChem compound identifier.
//
// The service may list several CIDs, one per line; only the first is
// returned, since the caller feeds the result into a single path segment of
// the next mapping lookup. ErrNotFound is returned for any non-200 response.
func (c *Client) CompoundID(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("chemical name must be non-empty")
	}

	lookupURL := fmt.Sprintf("%s/rest/pug/compound/name/%s/cids/TXT",
		c.baseURL, url.PathEscape(name))

	if err := c.guard.ValidateURL(lookupURL); err != nil {
		return "", fmt.Errorf("validating lookup URL: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.guard.Client().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("name lookup request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Info("compound name not found", "name", name, "status", resp.StatusCode)
		return "", ErrNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.guard.MaxResponseSize()))
	if err != nil {
		return "", fmt.Errorf("reading name lookup response: %w", err)
	}

	ids := strings.Fields(string(body))
	if len(ids) == 0 {
		return "", ErrNotFound
	}
	if len(ids) > 1 {
		c.logger.Warn("compound name resolved to multiple identifiers, using first",
			"name", name, "count", len(ids))
	}

	c.logger.Debug("compound name resolved", "name", name, "cid", ids[0])
	return ids[0], nil
}
