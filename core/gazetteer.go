package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// gazetteerHeader is the expected layout of the geography lookup table.
// Aliases are pipe-separated alternate spellings (state abbreviations,
// legacy metro names).
var gazetteerHeader = []string{"code", "name", "level", "aliases"}

var (
	// stateSuffixRe matches the trailing state list of a metro name,
	// e.g. ", TX" or ", NY-NJ-PA".
	stateSuffixRe = regexp.MustCompile(`,\s*[A-Z]{2}(?:-[A-Z]{2})*$`)

	// areaSuffixRe matches administrative suffixes some extracts append.
	areaSuffixRe = regexp.MustCompile(`(?i)\s+(msa|metro area|hud metro fmr area)$`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Gazetteer is the canonical geography reference set, loaded once per run.
type Gazetteer struct {
	records []schema.GeoRecord
	byCode  map[string]*schema.GeoRecord
	byName  map[string]*schema.GeoRecord
}

// LoadGazetteer reads the geography lookup table. Reference data must be
// clean: any malformed row aborts the run.
func LoadGazetteer(path string) (*Gazetteer, error) {
	r, file, err := openSource(path, "gazetteer", gazetteerHeader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	g := &Gazetteer{
		byCode: make(map[string]*schema.GeoRecord),
		byName: make(map[string]*schema.GeoRecord),
	}

	var rowErr error
	err = readRows(r, "gazetteer", func(line int, record []string) {
		if rowErr != nil {
			return
		}
		code := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		level := schema.GeoLevel(strings.ToLower(strings.TrimSpace(record[2])))
		if code == "" || name == "" {
			rowErr = fmt.Errorf("gazetteer line %d: empty code or name", line)
			return
		}
		if _, ok := schema.ValidGeoLevels[level]; !ok {
			rowErr = fmt.Errorf("gazetteer line %d: invalid level %q", line, record[2])
			return
		}
		if _, dup := g.byCode[code]; dup {
			rowErr = fmt.Errorf("gazetteer line %d: duplicate code %q", line, code)
			return
		}

		var aliases []string
		if record[3] != "" {
			for _, a := range strings.Split(record[3], "|") {
				if a = strings.TrimSpace(a); a != "" {
					aliases = append(aliases, a)
				}
			}
		}

		g.records = append(g.records, schema.GeoRecord{Code: code, Name: name, Level: level, Aliases: aliases})
		rec := &g.records[len(g.records)-1]
		g.byCode[code] = rec
		g.byName[NormalizeGeoName(name)] = rec
		for _, a := range aliases {
			g.byName[NormalizeGeoName(a)] = rec
		}
	})
	if err != nil {
		return nil, err
	}
	if rowErr != nil {
		return nil, rowErr
	}
	if len(g.records) == 0 {
		return nil, fmt.Errorf("gazetteer %s has no records", path)
	}

	// Index rebuilt: records slice may have reallocated during append.
	g.reindex()

	return g, nil
}

// reindex rebuilds the lookup maps against the final records slice.
func (g *Gazetteer) reindex() {
	g.byCode = make(map[string]*schema.GeoRecord, len(g.records))
	g.byName = make(map[string]*schema.GeoRecord)
	for i := range g.records {
		rec := &g.records[i]
		g.byCode[rec.Code] = rec
		g.byName[NormalizeGeoName(rec.Name)] = rec
		for _, a := range rec.Aliases {
			g.byName[NormalizeGeoName(a)] = rec
		}
	}
}

// Lookup returns the record for a canonical code.
func (g *Gazetteer) Lookup(code string) (*schema.GeoRecord, bool) {
	rec, ok := g.byCode[code]
	return rec, ok
}

// Resolve maps a source's native geography identifier to its canonical
// record. Codes match directly; anything else goes through name cleanup.
func (g *Gazetteer) Resolve(text string) (*schema.GeoRecord, bool) {
	text = strings.TrimSpace(text)
	if rec, ok := g.byCode[text]; ok {
		return rec, true
	}
	if rec, ok := g.byName[NormalizeGeoName(text)]; ok {
		return rec, true
	}
	return nil, false
}

// Len returns the number of geography records loaded.
func (g *Gazetteer) Len() int { return len(g.records) }

// Records returns the loaded geography records.
func (g *Gazetteer) Records() []schema.GeoRecord { return g.records }

// NormalizeGeoName reduces a free-text geography name to its lookup form:
// administrative and state suffixes stripped, lowercased, whitespace collapsed.
func NormalizeGeoName(s string) string {
	s = strings.TrimSpace(s)
	// State and area suffixes stack in either order in the wild, so strip
	// until neither matches.
	for {
		next := stateSuffixRe.ReplaceAllString(s, "")
		next = areaSuffixRe.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ToLower(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
