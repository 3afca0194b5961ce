package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// AnnoType is the KEGG entity kind of an annotation. Organism genes use the
// organism code itself (e.g. "eco") as their type.
type AnnoType string

const (
	AnnoGene          AnnoType = "K"
	AnnoEC            AnnoType = "EC"
	AnnoReaction      AnnoType = "R"
	AnnoReactionClass AnnoType = "RC"
	AnnoCompound      AnnoType = "C"
	AnnoGlycan        AnnoType = "G"
	AnnoDrug          AnnoType = "D"
	AnnoDrugGroup     AnnoType = "DG"
	AnnoBrite         AnnoType = "BR"
	AnnoMap           AnnoType = "MAP"
)

// Style classes used by the renderer.
const (
	ClassEnzyme   = "enzyme"
	ClassCompound = "compound"
	ClassBrite    = "brite"
	ClassMap      = "kegg-map"
)

type annoSetting struct {
	Type        AnnoType
	Label       string
	Pattern     *regexp.Regexp
	RestFile    string
	DescrPrefix string
	Class       string
}

// Matching order matters only for parity; the patterns are disjoint.
var annoSettings = []annoSetting{
	{AnnoGene, "KEGG Gene", regexp.MustCompile(`^K[0-9]{5}$`), "ko", "", ClassEnzyme},
	{AnnoEC, "Enzyme Commission", regexp.MustCompile(`^[0-9]+(\.[0-9]+)+(\.-)?$`), "enzyme", "", ClassEnzyme},
	{AnnoReaction, "KEGG Reaction", regexp.MustCompile(`^R[0-9]{5}$`), "rn", "", ClassEnzyme},
	{AnnoReactionClass, "KEGG Reaction Class", regexp.MustCompile(`^RC[0-9]{5}$`), "rc", "", ClassEnzyme},
	{AnnoCompound, "KEGG Compound", regexp.MustCompile(`^C[0-9]{5}$`), "compound", "", ClassCompound},
	{AnnoGlycan, "KEGG Glycan", regexp.MustCompile(`^G[0-9]{5}$`), "glycan", "", ClassCompound},
	{AnnoDrug, "KEGG Drug", regexp.MustCompile(`^D[0-9]{5}$`), "drug", "", ClassCompound},
	{AnnoDrugGroup, "KEGG Drug Group", regexp.MustCompile(`^DG[0-9]{5}$`), "dgroup", "", ClassCompound},
	{AnnoBrite, "KEGG Brite Entry", regexp.MustCompile(`^br:[0-9]{5}$`), "br", "", ClassBrite},
	{AnnoMap, "KEGG Map", regexp.MustCompile(`^[a-z]{2,3}[0-9]{5}$`), "path", "map", ClassMap},
}

func settingFor(t AnnoType) annoSetting {
	for _, s := range annoSettings {
		if s.Type == t {
			return s
		}
	}
	panic(fmt.Sprintf("no annotation setting for type %q", t))
}

// RestFiles lists the reference files the classifier table looks descriptions up in.
func RestFiles() []string {
	files := make([]string, 0, len(annoSettings))
	for _, s := range annoSettings {
		files = append(files, s.RestFile)
	}
	return files
}

// Label returns the human readable name of an annotation type.
func (t AnnoType) Label() string {
	for _, s := range annoSettings {
		if s.Type == t {
			return s.Label
		}
	}
	return "Organism Gene"
}

// Annotation is a resolved reference to a KEGG entity attached to a shape.
type Annotation struct {
	Type        AnnoType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Class       string   `json:"class"`
}

type AnnoKey struct {
	Type AnnoType
	Name string
}

func (a *Annotation) Key() AnnoKey {
	return AnnoKey{Type: a.Type, Name: a.Name}
}

func (a *Annotation) String() string {
	return fmt.Sprintf("<Annotation: %s - %s>", a.Type, a.Name)
}

// Escaped returns the annotation as handed to the renderer: the description is
// url-quoted so it survives embedding in an attribute.
func (a *Annotation) Escaped() Annotation {
	return Annotation{
		Type:        a.Type,
		Name:        a.Name,
		Description: QuoteDescription(a.Description),
		Class:       a.Class,
	}
}

// AnnotationSet holds annotations keyed by (type, name). Keys are unique.
type AnnotationSet map[AnnoKey]*Annotation

// Add inserts a unless its key already exists. The first occurrence wins.
func (s AnnotationSet) Add(a *Annotation) bool {
	key := a.Key()
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = a
	return true
}

// Union copies every annotation of other whose key is missing from s and returns
// the keys that were already present.
func (s AnnotationSet) Union(other AnnotationSet) []AnnoKey {
	var dups []AnnoKey
	for key, a := range other {
		if _, exists := s[key]; exists {
			dups = append(dups, key)
			continue
		}
		s[key] = a
	}
	sort.Slice(dups, func(i, j int) bool { return keyLess(dups[i], dups[j]) })
	return dups
}

func (s AnnotationSet) Keys() []AnnoKey {
	keys := make([]AnnoKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// Sorted returns the annotations ordered by type, then name.
func (s AnnotationSet) Sorted() []*Annotation {
	out := make([]*Annotation, 0, len(s))
	for _, k := range s.Keys() {
		out = append(out, s[k])
	}
	return out
}

// Classes returns the distinct style classes of the set, sorted.
func (s AnnotationSet) Classes() []string {
	seen := map[string]struct{}{}
	for _, a := range s {
		seen[a.Class] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

func keyLess(a, b AnnoKey) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Name < b.Name
}

// QuoteDescription percent-encodes everything except letters, digits, "_.-~" and "/".
func QuoteDescription(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '_', c == '.', c == '-', c == '~', c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}
