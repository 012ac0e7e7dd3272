package reflection

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// QuestionID identifies a survey question, e.g. "time2" or "followup1".
type QuestionID string

// Question is one survey statement. Options are filled in from the phase the
// question belongs to.
type Question struct {
	ID          QuestionID `yaml:"id" json:"id"`
	Category    string     `yaml:"category" json:"category"`
	Question    string     `yaml:"question" json:"question"`
	Description string     `yaml:"description" json:"description"`
	Options     []string   `yaml:"-" json:"options"`
}

// Persona is a time-management disposition selected by score.
type Persona struct {
	ID                    string   `yaml:"id" json:"id"`
	Name                  string   `yaml:"name" json:"name"`
	Description           string   `yaml:"description" json:"description"`
	Characteristics       []string `yaml:"characteristics" json:"characteristics"`
	RecommendedStrategies []string `yaml:"recommended_strategies" json:"recommended_strategies"`
	MinScore              int      `yaml:"min_score" json:"min_score"`
	MaxScore              int      `yaml:"max_score" json:"max_score"`
}

// Contains reports whether score falls inside the persona's inclusive range.
func (p Persona) Contains(score int) bool {
	return score >= p.MinScore && score <= p.MaxScore
}

// Resource is a book or film attached to a strategy.
type Resource struct {
	Title       string `yaml:"title" json:"title"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// Strategy is a practice the user can follow to reclaim time.
type Strategy struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Steps       []string   `yaml:"steps,omitempty" json:"steps,omitempty"`
	Resources   []Resource `yaml:"resources,omitempty" json:"resources,omitempty"`
	Recommended bool       `yaml:"-" json:"recommended"`
}

// Catalog is the static content the scoring engine classifies against.
type Catalog struct {
	Questions struct {
		Primary  []Question `yaml:"primary"`
		FollowUp []Question `yaml:"followup"`
	} `yaml:"questions"`
	Personas   []Persona    `yaml:"personas"`
	Strategies []Strategy   `yaml:"strategies"`
	Audit      []AuditEntry `yaml:"audit"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot recover from a
// broken build.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a YAML catalog and checks that it can classify.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Questions.Primary) == 0 {
		return nil, fmt.Errorf("catalog has no primary questions")
	}
	if len(c.Personas) == 0 {
		return nil, fmt.Errorf("catalog has no personas")
	}
	for i := range c.Questions.Primary {
		c.Questions.Primary[i].Options = append([]string(nil), ScaleLabels...)
	}
	for i := range c.Questions.FollowUp {
		c.Questions.FollowUp[i].Options = append([]string(nil), YesNoLabels...)
	}
	for _, p := range c.Personas {
		if p.MinScore > p.MaxScore {
			return nil, fmt.Errorf("persona %s: min score %d above max %d", p.ID, p.MinScore, p.MaxScore)
		}
	}
	for _, e := range c.Audit {
		if _, err := ParseRating(string(e.Rating)); err != nil {
			return nil, fmt.Errorf("audit entry %s: %w", e.ID, err)
		}
	}
	return &c, nil
}

// Classify returns the first persona whose range contains score, falling back
// to the last persona when none does.
func (c *Catalog) Classify(score int) Persona {
	for _, p := range c.Personas {
		if p.Contains(score) {
			return p
		}
	}
	return c.Personas[len(c.Personas)-1]
}

// Persona looks up a persona by id.
func (c *Catalog) Persona(id string) (Persona, bool) {
	for _, p := range c.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// StrategiesFor returns every strategy, flagging those the persona recommends.
// An unknown persona id recommends nothing.
func (c *Catalog) StrategiesFor(personaID string) []Strategy {
	persona, _ := c.Persona(personaID)
	out := make([]Strategy, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		s.Recommended = false
		for _, title := range persona.RecommendedStrategies {
			if title == s.Title {
				s.Recommended = true
				break
			}
		}
		s.Steps = append([]string(nil), s.Steps...)
		s.Resources = append([]Resource(nil), s.Resources...)
		out = append(out, s)
	}
	return out
}

// DefaultAuditEntries returns the weekly audit rows with zero hours.
func (c *Catalog) DefaultAuditEntries() []AuditEntry {
	return append([]AuditEntry(nil), c.Audit...)
}

// isPrimary reports whether id belongs to the primary question set.
func (c *Catalog) isPrimary(id QuestionID) bool {
	for _, q := range c.Questions.Primary {
		if q.ID == id {
			return true
		}
	}
	return false
}
