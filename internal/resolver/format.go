package resolver

import (
	"fmt"
	"strings"

	"github.com/avdwerff/bridgechat/internal/bridgedb"
)

// geneOntologyURL is the reference site appended to Gene Ontology terms.
const geneOntologyURL = "http://geneontology.org/"

// Datasource labels with dedicated presentation rules.
const (
	labelGeneOntology = "GeneOntology"
	labelUCSC         = "UCSC Genome Browser"
)

// formatResult renders any lookup outcome as user-facing text.
func formatResult(req bridgedb.Request, result *bridgedb.MapResult) string {
	switch result.Outcome {
	case bridgedb.OutcomeMapped:
		return formatReport(req, result.Xrefs)
	case bridgedb.OutcomeEmpty:
		return fmt.Sprintf("No mappings found for %s from %s", req.ID, req.Source)
	default:
		return fmt.Sprintf("Error: Failed to retrieve mappings. Status code: %d (%s)",
			result.StatusCode, result.Reason)
	}
}

// formatReport renders a successful mapping lookup: a header naming the
// queried identifier and source, then one line per cross-reference.
//
// Two datasources get special treatment. Gene Ontology terms are concepts,
// not database records, so they carry a lookup URL. UCSC Genome Browser
// identifiers are internal and cannot be searched directly; the line says to
// use the gene name or genomic location instead.
func formatReport(req bridgedb.Request, xrefs []bridgedb.Xref) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mapped identifiers for %s from %s:\n", req.ID, req.Source)

	for _, xref := range xrefs {
		switch xref.Datasource {
		case labelGeneOntology:
			fmt.Fprintf(&b, "- Gene Ontology term: %s (Look up at %s)\n", xref.ID, geneOntologyURL)
		case labelUCSC:
			fmt.Fprintf(&b, "- UCSC Genome Browser identifier: %s (Use gene name or genomic location to search)\n", xref.ID)
		default:
			fmt.Fprintf(&b, "- %s\t%s\n", xref.ID, xref.Datasource)
		}
	}

	return b.String()
}

// formatMalformed reports a query that does not decompose into 1–3 parts.
func formatMalformed(query string) string {
	return fmt.Sprintf("Error: Invalid query format: %q. "+
		"Use 'species, source, identifier', 'source, identifier', or a single identifier or name.", query)
}

// formatExhausted reports a bare token no strategy could resolve.
func formatExhausted(token string) string {
	return fmt.Sprintf("Error: Unable to map identifier or find compound: %s", token)
}
