// Package bridgedb is a client for the BridgeDB identifier mapping web
// service.
//
// The service cross-references biological and chemical identifiers between
// databases. A lookup is a single GET against
// /{species}/xrefs/{source}/{identifier} returning newline-separated,
// tab-separated rows of (target identifier, target datasource label).
package bridgedb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/avdwerff/bridgechat/internal/log"
)

// DefaultBaseURL is the public BridgeDB web service.
const DefaultBaseURL = "https://webservice.bridgedb.org"

// Well-known system codes for the datasources the resolver queries.
// BridgeDB identifies datasources by short codes, e.g. "En" for Ensembl.
const (
	SourceEnsembl         = "En"
	SourceHGNC            = "H"
	SourcePubChemCompound = "Cpc"
)

// Request identifies one cross-reference lookup. Fields are fixed once the
// request is built; the client never mutates it.
type Request struct {
	Species string // e.g. "Human", "Homo sapiens"
	Source  string // system code or datasource name, e.g. "En", "Ensembl"
	ID      string // the identifier to map
}

// Xref is one resolved cross-reference row.
type Xref struct {
	ID         string // target identifier
	Datasource string // target datasource label, e.g. "GeneOntology"
}

// Outcome discriminates the three ways a lookup can end. A non-200 response
// is a normal outcome the caller branches on, not an error.
type Outcome int

const (
	// OutcomeMapped means the service returned at least one cross-reference.
	OutcomeMapped Outcome = iota

	// OutcomeEmpty means HTTP 200 with no rows; the identifier is unknown to
	// the queried datasource. Callers treat this as terminal, not retryable.
	OutcomeEmpty

	// OutcomeHTTPFailure means the service answered with a non-200 status.
	OutcomeHTTPFailure
)

// MapResult is the discriminated result of a lookup.
type MapResult struct {
	Outcome Outcome
	Xrefs   []Xref // populated when Outcome == OutcomeMapped

	// StatusCode and Reason are populated when Outcome == OutcomeHTTPFailure.
	StatusCode int
	Reason     string
}

// Failed reports whether the lookup ended in an HTTP-level failure. Empty
// results are not failures.
func (r *MapResult) Failed() bool {
	return r.Outcome == OutcomeHTTPFailure
}

// httpGuard is the transport dependency, defined here by the consumer.
// *security.HTTP satisfies it; tests substitute their own.
type httpGuard interface {
	ValidateURL(url string) error
	Client() *http.Client
	MaxResponseSize() int64
}

// Client talks to one BridgeDB instance. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	baseURL string
	guard   httpGuard
	logger  log.Logger
}

// New creates a mapping service client. baseURL may be empty, in which case
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

// Map performs one cross-reference lookup.
//
// The returned error covers only unexpected conditions: invalid input,
// blocked URLs, and transport failures. Service-level failures (non-200)
// and empty results come back inside MapResult.
func (c *Client) Map(ctx context.Context, req Request) (*MapResult, error) {
	if req.Species == "" || req.Source == "" || req.ID == "" {
		return nil, fmt.Errorf("species, source and identifier must be non-empty")
	}

	lookupURL := fmt.Sprintf("%s/%s/xrefs/%s/%s",
		c.baseURL,
		url.PathEscape(req.Species),
		url.PathEscape(req.Source),
		url.PathEscape(req.ID),
	)

	if err := c.guard.ValidateURL(lookupURL); err != nil {
		return nil, fmt.Errorf("validating lookup URL: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.guard.Client().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mapping service request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Info("mapping lookup failed",
			"species", req.Species, "source", req.Source, "id", req.ID,
			"status", resp.StatusCode)
		return &MapResult{
			Outcome:    OutcomeHTTPFailure,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.guard.MaxResponseSize()))
	if err != nil {
		return nil, fmt.Errorf("reading mapping response: %w", err)
	}

	xrefs := c.parseXrefs(string(body))
	c.logger.Debug("mapping lookup succeeded",
		"species", req.Species, "source", req.Source, "id", req.ID,
		"xrefs", len(xrefs))

	if len(xrefs) == 0 {
		return &MapResult{Outcome: OutcomeEmpty}, nil
	}
	return &MapResult{Outcome: OutcomeMapped, Xrefs: xrefs}, nil
}

// parseXrefs splits the response body into cross-reference rows. Rows with
// fewer than two tab-separated fields are skipped with a warning; the
// remaining rows still form a usable report.
func (c *Client) parseXrefs(body string) []Xref {
	var xrefs []Xref

	scanner := bufio.NewScanner(strings.NewReader(strings.TrimSpace(body)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			c.logger.Warn("skipping malformed mapping row", "row", line)
			continue
		}

		xrefs = append(xrefs, Xref{ID: fields[0], Datasource: fields[1]})
	}

	return xrefs
}
