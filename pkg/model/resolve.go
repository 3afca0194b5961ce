package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
)

// Route prefixes KEGG uses in config-file hyperlinks.
var queryPrefixes = []string{
	"/dbget-bin/www_bget",
	"/kegg-bin/show_pathway",
	"/kegg-bin/search_htext",
}

// DescriptionLookup returns the description stored under query in the given
// reference file, or "" when there is none. It must not block on I/O.
type DescriptionLookup interface {
	Description(query, restFile string) string
}

// DescriptionTable is a completed snapshot: rest file -> key -> description.
type DescriptionTable map[string]map[string]string

func (t DescriptionTable) Description(query, restFile string) string {
	return t[restFile][query]
}

// Put stores one description, creating the file namespace as needed.
func (t DescriptionTable) Put(restFile, key, description string) {
	file, ok := t[restFile]
	if !ok {
		file = make(map[string]string)
		t[restFile] = file
	}
	file[key] = description
}

type WarnReason string

const (
	WarnUnrecognized   WarnReason = "unrecognized annotation"
	WarnNoDescription  WarnReason = "no description found"
	WarnDuplicate      WarnReason = "duplicate annotation"
	WarnMalformedQuery WarnReason = "malformed query"
)

// Warning records a recoverable problem. Processing continued past it.
type Warning struct {
	Token  string     `json:"token"`
	Reason WarnReason `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Reason, w.Token)
}

type Resolver struct {
	Lookup   DescriptionLookup
	Organism Organism
}

func NewResolver(lookup DescriptionLookup, org Organism) *Resolver {
	if lookup == nil {
		lookup = DescriptionTable{}
	}
	return &Resolver{Lookup: lookup, Organism: org}
}

// SplitQuery checks the route prefix and returns the payload tokens of a query url
// such as "/dbget-bin/www_bget?K00832+K00838".
func SplitQuery(url string) ([]string, error) {
	prefix, payload, found := strings.Cut(url, "?")
	if !found {
		return nil, fmt.Errorf("%w: %q: missing '?'", ErrMalformedQuery, url)
	}

	known := false
	for _, p := range queryPrefixes {
		if prefix == p {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %q: bad url-prefix", ErrMalformedQuery, url)
	}
	if strings.Contains(payload, "?") {
		return nil, fmt.Errorf("%w: %q: bad annotations-hyperlink", ErrMalformedQuery, url)
	}

	// some multi-id payloads are joined with '/' instead of '+'
	payload = strings.ReplaceAll(payload, "/", "+")
	return strings.Split(payload, "+"), nil
}

// Resolve turns a query url into annotations. Unknown tokens, missing descriptions
// and repeated keys are reported as warnings. A malformed url or a broken anomaly
// rewrite is an error.
func (r *Resolver) Resolve(url string) (AnnotationSet, []Warning, error) {

	tokens, err := SplitQuery(url)
	if err != nil {
		return nil, nil, err
	}

	annos := make(AnnotationSet, len(tokens))
	var warnings []Warning

	for _, token := range tokens {
		c, err := Classify(token, r.Organism)
		if errors.Is(err, ErrUnrecognizedToken) {
			logger.Warn("Annotation does not match any pattern", zap.String("token", token), zap.String("query", url))
			warnings = append(warnings, Warning{Token: token, Reason: WarnUnrecognized})
			continue
		}
		if err != nil {
			return nil, warnings, err
		}

		description := r.Lookup.Description(c.Query, c.RestFile)
		if description == "" {
			logger.Warn("No description found",
				zap.String("query", c.Query), zap.String("rest_file", c.RestFile))
			warnings = append(warnings, Warning{Token: token, Reason: WarnNoDescription})
		}

		anno := newAnnotation(c, description)
		if !annos.Add(anno) {
			logger.Warn("Duplicate annotation in shape",
				zap.String("kind", string(anno.Type)), zap.String("identifier", anno.Name), zap.String("query", url))
			warnings = append(warnings, Warning{Token: token, Reason: WarnDuplicate})
		}
	}

	return annos, warnings, nil
}

func newAnnotation(c Classification, description string) *Annotation {
	name := c.ID
	if c.Type == AnnoEC {
		name = "EC:" + name
	}
	return &Annotation{
		Type:        c.Type,
		Name:        name,
		Description: description,
		Class:       c.Class,
	}
}
