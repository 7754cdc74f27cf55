package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileCategory is the on-disk shape: skills are nested under their category
// and positions come from document order.
type fileCategory struct {
	Category `yaml:",inline"`
	Skills   []Skill `yaml:"skills"`
}

type fileCatalog struct {
	Categories []fileCategory `yaml:"categories"`
}

// LoadYAML decodes and validates a catalog document.
//
//	categories:
//	  - id: advanced-maneuvers
//	    name: Advanced Maneuvers
//	    advanced: true
//	    skills:
//	      - id: parallel-parking
//	        name: Parallel parking
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc fileCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var (
		categories []Category
		skills     []Skill
	)
	for i, fc := range doc.Categories {
		cat := fc.Category
		cat.Position = i
		categories = append(categories, cat)
		for j, s := range fc.Skills {
			s.CategoryID = cat.ID
			s.Position = j
			skills = append(skills, s)
		}
	}

	c := New(categories, skills)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// WriteYAML encodes the catalog in the same nested shape LoadYAML reads.
func WriteYAML(w io.Writer, c *Catalog) error {
	doc := fileCatalog{}
	for _, cat := range c.Categories {
		doc.Categories = append(doc.Categories, fileCategory{
			Category: cat,
			Skills:   c.ByCategory(cat.ID),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
