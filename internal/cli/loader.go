package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/session"
)

//go:embed schema.cue
var datasetSchema string

// Dataset is the decoded shape of a CLI input file.
type Dataset struct {
	Teams   []TeamSpec   `yaml:"teams" json:"teams"`
	Members []MemberSpec `yaml:"members" json:"members"`
}

// TeamSpec describes one team entry.
type TeamSpec struct {
	Name string `yaml:"name" json:"name"`
}

// MemberSpec describes one member entry. Name and Team are optional; an
// absent name loads as a null user_name and an absent team as no
// association.
type MemberSpec struct {
	Name *string `yaml:"name,omitempty" json:"name,omitempty"`
	Age  *int64  `yaml:"age,omitempty" json:"age,omitempty"`
	Team *string `yaml:"team,omitempty" json:"team,omitempty"`
}

// LoadError represents a failure to load or validate a dataset file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // File read error
	ErrCodeParseFailed = "E003" // YAML parse error
	ErrCodeSchema      = "E004" // Dataset violates the schema
	ErrCodeNotFound    = "E005" // Path not found

	ErrCodeUnknownTeam = "E101" // Member references a team not in the dataset
	ErrCodeBadQuery    = "E102" // Query flags form an invalid query
)

// LoadDataset reads a YAML dataset file, validates it against the embedded
// CUE schema, and decodes it.
func LoadDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	// Unify the decoded document with the schema before trusting its shape.
	ctx := cuecontext.New()
	schema := ctx.CompileString(datasetSchema)
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling dataset schema: %v", err)}
	}
	unified := schema.Unify(ctx.Encode(doc))
	if err := unified.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("dataset does not match schema: %v", err)}
	}

	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}
	return &ds, nil
}

// BuildSession persists a dataset into a fresh session. Teams are persisted
// first so member associations can record their ids.
func BuildSession(ds *Dataset) (*session.Session, error) {
	s := session.New()

	teams := make(map[string]*entity.Team, len(ds.Teams))
	for _, ts := range ds.Teams {
		if _, dup := teams[ts.Name]; dup {
			return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("duplicate team name %q", ts.Name)}
		}
		team := entity.NewTeam(ts.Name)
		if err := s.Persist(team); err != nil {
			return nil, err
		}
		teams[ts.Name] = team
	}

	for i, ms := range ds.Members {
		var age int64
		if ms.Age != nil {
			age = *ms.Age
		}

		var m *entity.Member
		if ms.Name != nil {
			m = entity.NewMemberWithAge(*ms.Name, age)
		} else {
			m = entity.NewUnnamedMember(age)
		}

		if ms.Team != nil {
			team, known := teams[*ms.Team]
			if !known {
				return nil, &LoadError{Code: ErrCodeUnknownTeam, Message: fmt.Sprintf("members[%d] references unknown team %q", i, *ms.Team)}
			}
			if err := m.ChangeTeam(team); err != nil {
				return nil, err
			}
		}

		if err := s.Persist(m); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LoadSession loads a dataset file and builds a session from it.
func LoadSession(path string) (*session.Session, *Dataset, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := BuildSession(ds)
	if err != nil {
		return nil, nil, err
	}
	return s, ds, nil
}
