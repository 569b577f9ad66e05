/*
Package factory builds the GWP reference table from deployment config.

PURPOSE:
  The reference table is fixed for the life of a deployment, but which
  table a deployment uses is configuration: a site can pin GWP values from
  a different assessment report, or add refrigerants it handles. The
  factory turns that configuration into an emissions.ReferenceTable.

FORMAT (YAML or JSON, JSON being a subset of YAML):
  refrigerants:
    - refrigerant: R-134a
      gwp: 1430
    - refrigerant: R-32
      gwp: 675

DEFAULTS:
  An empty list selects emissions.DefaultReferenceTable(). A non-empty
  list replaces the defaults entirely; it is not merged.

USAGE:
  table, err := factory.LoadReferenceTable("gwp.yaml")
  ledger := emissions.NewLedger(store, table)

SEE ALSO:
  - emissions/reference.go: ReferenceTable
  - config/config.go: reference_table section
*/
package factory

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warp/recovery-ledger/emissions"
)

// FactorSpec is the config representation of one refrigerant.
type FactorSpec struct {
	Refrigerant string `yaml:"refrigerant" json:"refrigerant"`
	GWP         int64  `yaml:"gwp" json:"gwp"`
}

// ReferenceFile is the document layout of a standalone table file.
type ReferenceFile struct {
	Refrigerants []FactorSpec `yaml:"refrigerants" json:"refrigerants"`
}

// FromSpecs builds a table from config entries. Names are trimmed; an empty
// list yields the default table.
func FromSpecs(specs []FactorSpec) (*emissions.ReferenceTable, error) {
	if len(specs) == 0 {
		return emissions.DefaultReferenceTable(), nil
	}
	factors := make([]emissions.Factor, len(specs))
	for i, s := range specs {
		factors[i] = emissions.Factor{
			Refrigerant: emissions.Refrigerant(strings.TrimSpace(s.Refrigerant)),
			GWP:         s.GWP,
		}
	}
	table, err := emissions.NewReferenceTable(factors)
	if err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}
	return table, nil
}

// ToSpecs converts a table back to its config representation.
func ToSpecs(table *emissions.ReferenceTable) []FactorSpec {
	factors := table.Factors()
	out := make([]FactorSpec, len(factors))
	for i, f := range factors {
		out[i] = FactorSpec{Refrigerant: string(f.Refrigerant), GWP: f.GWP}
	}
	return out
}

// ParseReferenceTable parses a YAML or JSON table document.
func ParseReferenceTable(data []byte) (*emissions.ReferenceTable, error) {
	var doc ReferenceFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("factory: invalid reference table: %w", err)
	}
	if len(doc.Refrigerants) == 0 {
		return nil, fmt.Errorf("factory: reference table lists no refrigerants")
	}
	return FromSpecs(doc.Refrigerants)
}

// LoadReferenceTable reads and parses a table file.
func LoadReferenceTable(path string) (*emissions.ReferenceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("factory: read %s: %w", path, err)
	}
	return ParseReferenceTable(data)
}

// MarshalReferenceTable renders table in the reference file format.
func MarshalReferenceTable(table *emissions.ReferenceTable) ([]byte, error) {
	return yaml.Marshal(ReferenceFile{Refrigerants: ToSpecs(table)})
}
