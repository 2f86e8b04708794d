// Package seed reads catalogue files used by the seed command.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
)

type planFile struct {
	Plans []dto.PlanSeed `yaml:"plans"`
}

// LoadPlanFile reads a YAML document with a top-level plans list.
func LoadPlanFile(path string) ([]dto.PlanSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()

	return DecodePlans(f)
}

// DecodePlans rejects unknown keys so a typo in a limit section is not
// silently dropped.
func DecodePlans(r io.Reader) ([]dto.PlanSeed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file planFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan file is empty")
		}
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, errors.New("plan file has no plans")
	}
	return file.Plans, nil
}
