package benchmark

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/kaizenhq/kaizen/internal/models"
)

//go:embed data/catalog.schema.json
var catalogSchemaJSON string

// catalogSchema is the compiled JSON Schema for catalog files.
var catalogSchema *jsonschema.Schema

var schemaPrinter = message.NewPrinter(language.English)

func init() {
	var doc any
	if err := json.Unmarshal([]byte(catalogSchemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("parsing embedded catalog schema: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", doc); err != nil {
		panic(fmt.Sprintf("adding catalog schema resource: %v", err))
	}
	sch, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compiling catalog schema: %v", err))
	}
	catalogSchema = sch
}

// Catalog is an immutable set of benchmark problems for one family, loaded
// once at initialization and never mutated.
type Catalog struct {
	family   string
	problems []models.Problem
}

// catalogFile mirrors the on-disk YAML layout.
type catalogFile struct {
	Family   string           `yaml:"family"`
	Problems []models.Problem `yaml:"problems"`
}

// LoadCatalog reads and validates a YAML problem catalog. A missing or
// malformed catalog is fatal for the enclosing run.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	if errs := validateCatalogBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("catalog %s failed validation:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return &Catalog{family: cf.Family, problems: cf.Problems}, nil
}

// validateCatalogBytes checks raw YAML against the embedded catalog schema
// and returns human-readable violations.
func validateCatalogBytes(data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}

	err := catalogSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(schemaPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// Family returns the catalog's benchmark family name.
func (c *Catalog) Family() string { return c.family }

// Len returns the number of problems in the catalog.
func (c *Catalog) Len() int { return len(c.problems) }

// ProblemsFor returns the problems matching the requested language.
// An empty match yields ErrNotFound, never an empty result.
func (c *Catalog) ProblemsFor(lang string) ([]models.Problem, error) {
	var matched []models.Problem
	for _, p := range c.problems {
		if p.Language == lang {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w for language %q in family %q", ErrNotFound, lang, c.family)
	}
	return matched, nil
}
