package intelligence

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ettle/strcase"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const (
	datasetVersionV1 = "1"
	// DatasetVersion exposes the current dataset format version for tooling.
	DatasetVersion = datasetVersionV1
)

//go:embed schema/dataset.schema.json
var datasetSchemaJSON []byte

//go:embed data/central-square.yaml
var defaultDatasetYAML []byte

var (
	datasetSchemaOnce sync.Once
	datasetSchema     *jsonschema.Schema
	datasetSchemaErr  error
)

// Dataset is the full set of mock collections behind every dashboard.
type Dataset struct {
	Version   string                   `json:"version" yaml:"version"`
	Name      string                   `json:"name,omitempty" yaml:"name,omitempty"`
	Operator  OperatorData             `json:"operator" yaml:"operator"`
	Sponsor   SponsorData              `json:"sponsor" yaml:"sponsor"`
	Discourse DiscourseData            `json:"discourse" yaml:"discourse"`
	Bots      BotsData                 `json:"bots" yaml:"bots"`
	Assistant AssistantData            `json:"assistant,omitempty" yaml:"assistant,omitempty"`
	Layouts   map[Tab][]WidgetInstance `json:"layouts,omitempty" yaml:"layouts,omitempty"`
	Source    string                   `json:"-" yaml:"-"`
}

// DefaultDataset returns a fresh copy of the built-in Central Square mock data.
func DefaultDataset() *Dataset {
	doc, err := DecodeDataset(bytes.NewReader(defaultDatasetYAML))
	if err != nil {
		// The file is embedded at build time and covered by tests.
		panic(fmt.Errorf("intelligence: embedded dataset: %w", err))
	}
	doc.Source = "embedded:central-square.yaml"
	return doc
}

// ReadDataset loads and validates a dataset file.
func ReadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("intelligence: open dataset %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("intelligence: decode dataset %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeDataset parses YAML, checks it against the embedded JSON schema and
// then applies the semantic checks the schema cannot express.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("intelligence: read dataset: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrInvalidDataset)
	}
	if err := validateDatasetSchema(raw); err != nil {
		return nil, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var doc Dataset
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("intelligence: parse dataset: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validateDatasetSchema(raw []byte) error {
	datasetSchemaOnce.Do(func() {
		datasetSchema, datasetSchemaErr = compileSchema("dataset.schema.json", datasetSchemaJSON)
	})
	if datasetSchemaErr != nil {
		return datasetSchemaErr
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("intelligence: parse dataset: %w", err)
	}
	payload, err := normalizeJSON(generic)
	if err != nil {
		return fmt.Errorf("intelligence: normalize dataset: %w", err)
	}
	if err := datasetSchema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}

func (d *Dataset) applyDefaults() {
	if d.Version == "" {
		d.Version = datasetVersionV1
	}
	for i := range d.Discourse.Topics {
		d.Discourse.Topics[i].Category = strcase.ToKebab(d.Discourse.Topics[i].Category)
	}
	for i := range d.Bots.Polls {
		p := &d.Bots.Polls[i]
		p.Platform = strcase.ToKebab(p.Platform)
		if p.TotalVotes == 0 {
			for _, o := range p.Options {
				p.TotalVotes += o.Votes
			}
		}
	}
}

// Validate collects every semantic problem in the dataset.
func (d *Dataset) Validate() error {
	var errs []error
	if d.Version != datasetVersionV1 {
		errs = append(errs, fmt.Errorf("unsupported dataset version %q", d.Version))
	}
	if s := d.Operator.Health.Score; s < 0 || s > 100 {
		errs = append(errs, fmt.Errorf("operator.health.score %v outside 0..100", s))
	}
	errs = append(errs, uniqueIDs("operator.at_risk", len(d.Operator.AtRisk), func(i int) string { return d.Operator.AtRisk[i].ID })...)
	errs = append(errs, uniqueIDs("bots.members", len(d.Bots.Members), func(i int) string { return d.Bots.Members[i].ID })...)
	errs = append(errs, uniqueIDs("bots.polls", len(d.Bots.Polls), func(i int) string { return d.Bots.Polls[i].ID })...)
	errs = append(errs, uniqueIDs("discourse.clusters", len(d.Discourse.Clusters), func(i int) string { return d.Discourse.Clusters[i].ID })...)
	for tab := range d.Layouts {
		if _, err := ParseTab(string(tab)); err != nil {
			errs = append(errs, fmt.Errorf("layouts: %w", err))
		}
	}
	if _, err := d.Assistant.Script(); err != nil {
		errs = append(errs, fmt.Errorf("assistant: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(errs...))
}

func uniqueIDs(field string, n int, id func(int) string) []error {
	var errs []error
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is missing id", field, i))
			continue
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s duplicates id %s", field, key))
		}
		seen[key] = struct{}{}
	}
	return errs
}

// Poll looks a poll up by id.
func (d *Dataset) Poll(id string) (PollResult, bool) {
	for _, p := range d.Bots.Polls {
		if p.ID == id {
			return p, true
		}
	}
	return PollResult{}, false
}

// PollPlatforms lists the platforms a new poll can target.
func (d *Dataset) PollPlatforms() []string {
	out := make([]string, 0, len(d.Bots.Platforms))
	for _, p := range d.Bots.Platforms {
		out = append(out, strcase.ToKebab(p.Name))
	}
	return out
}
