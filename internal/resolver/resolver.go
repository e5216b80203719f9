// Package resolver implements the identifier resolution strategy at the core
// of bridgechat.
//
// A raw query decomposes into up to three comma-separated parts:
//
//	"Homo sapiens, Ensembl, ENSG00000139618"  species, source, identifier
//	"Cpc, 2478"                               source, identifier (species defaults to Human)
//	"BRCA2"                                   bare token, resolved through the fallback chain
//
// For a bare token the resolver walks an ordered list of datasource guesses
// (Ensembl gene ID, HGNC ID, gene symbol, PubChem compound ID) and finally
// asks PubChem to interpret the token as a chemical name. The chain stops at
// the first lookup that is not an HTTP-level failure; an empty mapping result
// is a terminal answer, not a reason to keep guessing.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avdwerff/bridgechat/internal/bridgedb"
	"github.com/avdwerff/bridgechat/internal/log"
	"github.com/avdwerff/bridgechat/internal/pubchem"
)

// DefaultSpecies is assumed when the query names none.
const DefaultSpecies = "Human"

// Mapper performs cross-reference lookups. *bridgedb.Client satisfies it.
type Mapper interface {
	Map(ctx context.Context, req bridgedb.Request) (*bridgedb.MapResult, error)
}

// CompoundFinder resolves chemical names to PubChem compound identifiers.
// *pubchem.Client satisfies it.
type CompoundFinder interface {
	CompoundID(ctx context.Context, name string) (string, error)
}

// step is one guess in the fallback chain: a datasource code plus an
// optional predicate limiting when the guess applies.
type step struct {
	source  string
	applies func(token string) bool
}

// fallbackChain is the resolution policy for bare tokens, tried in order.
// The chemical-name fallback is not listed here; it runs after the chain is
// exhausted because it needs the extra name-to-CID hop.
var fallbackChain = []step{
	{source: bridgedb.SourceEnsembl},
	{source: bridgedb.SourceHGNC, applies: func(token string) bool {
		return strings.HasPrefix(token, "HGNC:")
	}},
	{source: bridgedb.SourceHGNC}, // gene symbols share the HGNC system code
	{source: bridgedb.SourcePubChemCompound},
}

// Resolver owns the full lifecycle of one resolution call. It holds no
// mutable state between calls and is safe for concurrent use.
type Resolver struct {
	mapper    Mapper
	compounds CompoundFinder
	species   string
	logger    log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSpecies overrides the species assumed for 1- and 2-part queries.
func WithSpecies(species string) Option {
	return func(r *Resolver) {
		if species != "" {
			r.species = species
		}
	}
}

// New creates a Resolver.
func New(mapper Mapper, compounds CompoundFinder, logger log.Logger, opts ...Option) (*Resolver, error) {
	if mapper == nil {
		return nil, fmt.Errorf("mapper is required")
	}
	if compounds == nil {
		return nil, fmt.Errorf("compound finder is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	r := &Resolver{
		mapper:    mapper,
		compounds: compounds,
		species:   DefaultSpecies,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve turns a raw query into a formatted mapping report.
//
// Every expected failure mode (malformed queries, unknown identifiers,
// non-200 service answers, exhausted fallbacks) comes back as text with a
// nil error. The error return is reserved for transport-level faults
// (connection refused, DNS, canceled context), which the caller may treat as
// fatal.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	parts := splitQuery(query)

	switch len(parts) {
	case 1:
		return r.resolveToken(ctx, parts[0])
	case 2:
		return r.lookup(ctx, bridgedb.Request{
			Species: r.species, Source: parts[0], ID: parts[1],
		})
	case 3:
		return r.lookup(ctx, bridgedb.Request{
			Species: parts[0], Source: parts[1], ID: parts[2],
		})
	default:
		r.logger.Info("malformed query", "query", query, "parts", len(parts))
		return formatMalformed(query), nil
	}
}

// splitQuery splits on commas and trims each part. A query whose parts are
// all empty yields nil, which Resolve reports as malformed.
func splitQuery(query string) []string {
	raw := strings.Split(query, ",")

	parts := make([]string, 0, len(raw))
	empty := true
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			empty = false
		}
		parts = append(parts, p)
	}
	if empty {
		return nil
	}
	// An explicit form with a blank component (e.g. "En,") cannot build a
	// lookup; report it as malformed rather than failing inside the client.
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	return parts
}

// lookup performs one explicit mapping lookup and formats whatever outcome
// the service produced, HTTP failures included. No fallback applies.
func (r *Resolver) lookup(ctx context.Context, req bridgedb.Request) (string, error) {
	result, err := r.mapper.Map(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mapping %s/%s/%s: %w", req.Species, req.Source, req.ID, err)
	}
	return formatResult(req, result), nil
}

// resolveToken runs the fallback chain for a bare token.
func (r *Resolver) resolveToken(ctx context.Context, token string) (string, error) {
	for _, s := range fallbackChain {
		if s.applies != nil && !s.applies(token) {
			continue
		}

		req := bridgedb.Request{Species: r.species, Source: s.source, ID: token}
		result, err := r.mapper.Map(ctx, req)
		if err != nil {
			return "", fmt.Errorf("mapping %s/%s/%s: %w", req.Species, req.Source, req.ID, err)
		}
		if !result.Failed() {
			r.logger.Debug("fallback chain matched", "token", token, "source", s.source)
			return formatResult(req, result), nil
		}
	}

	// Last resort: interpret the token as a chemical name.
	cid, err := r.compounds.CompoundID(ctx, token)
	if err != nil {
		if errors.Is(err, pubchem.ErrNotFound) {
			r.logger.Info("fallback chain exhausted", "token", token)
			return formatExhausted(token), nil
		}
		return "", fmt.Errorf("resolving compound name %q: %w", token, err)
	}

	req := bridgedb.Request{Species: r.species, Source: bridgedb.SourcePubChemCompound, ID: cid}
	result, err := r.mapper.Map(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mapping %s/%s/%s: %w", req.Species, req.Source, req.ID, err)
	}
	if result.Failed() {
		r.logger.Info("fallback chain exhausted after name resolution",
			"token", token, "cid", cid, "status", result.StatusCode)
		return formatExhausted(token), nil
	}

	r.logger.Debug("resolved via chemical name", "token", token, "cid", cid)
	return formatResult(req, result), nil
}
