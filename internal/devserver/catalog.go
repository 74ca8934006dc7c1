// Package devserver is a local stand-in for the course backend. It answers
// /api/chat from a catalog of transcribed video chunks using keyword overlap.
package devserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Chunk is one transcribed span of a course video
type Chunk struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
}

// Catalog is the searchable set of chunks
type Catalog struct {
	chunks []Chunk
	terms  [][]string
}

// NewCatalog indexes chunks in the given order
func NewCatalog(chunks []Chunk) *Catalog {
	c := &Catalog{chunks: chunks, terms: make([][]string, len(chunks))}
	for i, ch := range chunks {
		c.terms[i] = tokenize(ch.Title + " " + ch.Text)
	}
	return c
}

// Len returns the number of chunks
func (c *Catalog) Len() int {
	return len(c.chunks)
}

// LoadCatalog reads a chunk file, or every *.json file of a directory. A file holds
// either a bare list of chunks or a transcript object with a "chunks" list.
func LoadCatalog(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog: %w", err)
		}
		sort.Strings(files)
	}

	var chunks []Chunk
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		parsed, err := parseChunks(data)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog file %s: %w", f, err)
		}
		chunks = append(chunks, parsed...)
	}

	return NewCatalog(chunks), nil
}

func parseChunks(data []byte) ([]Chunk, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("not valid JSON")
	}

	raw := gjson.ParseBytes(data)
	if raw.IsObject() {
		raw = raw.Get("chunks")
	}
	if !raw.IsArray() {
		return nil, fmt.Errorf("expected a list of chunks")
	}

	var chunks []Chunk
	if err := json.Unmarshal([]byte(raw.Raw), &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// Search returns up to limit chunks ranked by how many query terms they contain.
// Chunks with no overlap are never returned.
func (c *Catalog) Search(query string, limit int) []Chunk {
	qterms := tokenize(query)
	if len(qterms) == 0 || limit <= 0 {
		return nil
	}

	type hit struct {
		idx   int
		score int
	}
	var hits []hit
	for i, terms := range c.terms {
		score := 0
		for _, q := range qterms {
			for _, t := range terms {
				if t == q {
					score++
				}
			}
		}
		if score > 0 {
			hits = append(hits, hit{idx: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]Chunk, len(hits))
	for i, h := range hits {
		out[i] = c.chunks[h.idx]
	}
	return out
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "what": true, "which": true,
	"where": true, "how": true, "does": true, "video": true, "videos": true, "about": true,
	"explain": true, "explains": true, "this": true, "that": true, "with": true, "is": true,
	"lesson": true, "taught": true, "summarize": true, "you": true, "can": true,
}

// tokenize lowercases text and keeps words of three or more letters, folding a
// trailing plural "s"
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out []string
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		if len(f) > 3 && strings.HasSuffix(f, "s") && !strings.HasSuffix(f, "ss") {
			f = strings.TrimSuffix(f, "s")
		}
		out = append(out, f)
	}
	return out
}

// SampleCatalog is served when no catalog path is configured
func SampleCatalog() *Catalog {
	return NewCatalog([]Chunk{
		{Number: 1, Title: "01 Introduction to Transformations", Start: 0, End: 42.5,
			Text: "In this course we study geometric transformations: translations, reflections, rotations and dilations."},
		{Number: 2, Title: "01 Introduction to Transformations", Start: 42.5, End: 95,
			Text: "A transformation maps every point of a figure to a new position called the image."},
		{Number: 1, Title: "02 Translations", Start: 0, End: 61,
			Text: "A translation slides every point of a figure the same distance in the same direction."},
		{Number: 2, Title: "02 Translations", Start: 61, End: 150.2,
			Text: "We describe translations with vectors, for example moving three units right and two units up."},
		{Number: 1, Title: "03 Reflections", Start: 0, End: 75,
			Text: "A reflection flips a figure over a line called the line of reflection, producing a mirror image."},
		{Number: 2, Title: "03 Reflections", Start: 75, End: 170,
			Text: "Reflecting over the x-axis changes the sign of the y coordinate of each point."},
		{Number: 1, Title: "04 Rotations", Start: 0, End: 88,
			Text: "A rotation turns a figure around a fixed point called the center of rotation by a given angle."},
		{Number: 2, Title: "04 Rotations", Start: 88, End: 205,
			Text: "Rotating ninety degrees counterclockwise about the origin sends the point (x, y) to (-y, x)."},
		{Number: 1, Title: "05 Symmetry", Start: 0, End: 96,
			Text: "A figure has line symmetry when a reflection maps it onto itself, and rotational symmetry when a rotation does."},
		{Number: 2, Title: "05 Symmetry", Start: 96, End: 184,
			Text: "A regular hexagon has six lines of symmetry and rotational symmetry of order six."},
	})
}
