package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Organism carries the gene-id pattern of one KEGG organism code ("eco", "hsa", "ko").
type Organism struct {
	Code    string
	pattern *regexp.Regexp
}

func NewOrganism(code string) Organism {
	return Organism{
		Code:    code,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(code) + `:\S+$`),
	}
}

func (o Organism) Matches(token string) bool {
	return o.pattern != nil && o.pattern.MatchString(token)
}

// Classification is the outcome of classifying one query token.
type Classification struct {
	Type     AnnoType
	ID       string // normalized identifier (a map id is its trailing 5 digits)
	Query    string // key used for the description lookup
	RestFile string // lookup namespace
	Class    string
}

func (s annoSetting) classification(id string) Classification {
	if s.Type == AnnoMap {
		id = id[len(id)-5:]
	}
	return Classification{
		Type:     s.Type,
		ID:       id,
		Query:    s.DescrPrefix + id,
		RestFile: s.RestFile,
		Class:    s.Class,
	}
}

// Classify decides which KEGG entity kind a token names. A token no pattern or
// anomaly rule matches yields ErrUnrecognizedToken; callers skip it. A token an
// anomaly rule claims but cannot repair yields ErrInvalidAnomaly, which is fatal.
func Classify(token string, org Organism) (Classification, error) {

	if org.Matches(token) {
		return Classification{
			Type:     AnnoType(org.Code),
			ID:       token,
			Query:    token,
			RestFile: org.Code,
			Class:    ClassEnzyme,
		}, nil
	}

	for _, s := range annoSettings {
		if s.Pattern.MatchString(token) {
			return s.classification(token), nil
		}
	}

	annoType, name, ok := classifyAnomaly(token)
	if !ok {
		return Classification{}, fmt.Errorf("%w: %q", ErrUnrecognizedToken, token)
	}

	s := settingFor(annoType)
	if !s.Pattern.MatchString(name) {
		return Classification{}, fmt.Errorf("%w: %q became %s %q", ErrInvalidAnomaly, token, annoType, name)
	}
	return s.classification(name), nil
}

// Known irregularities in KEGG config files. The returned name is validated by
// the caller.
func classifyAnomaly(token string) (AnnoType, string, bool) {
	switch {
	case strings.HasPrefix(token, "dr:D"):
		// sometimes drugs carry the 'dr:' prefix
		return AnnoDrug, strings.TrimPrefix(token, "dr:"), true

	case strings.HasPrefix(token, "htext=br"):
		// e.g. 'htext=br08003&search_string=%22Acridone%20alkaloids%22&option=-n'
		rest := strings.TrimLeft(strings.TrimPrefix(token, "htext=br"), ":")
		return AnnoBrite, "br:" + rest[:min(5, len(rest))], true

	case token == "map4670":
		return AnnoMap, "map04670", true
	}
	return "", "", false
}
