package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// SourceExtractor reads building definitions from decompiled game sources
// (the C# of Assembly-CSharp.dll). It implements production.CatalogExtractor.
type SourceExtractor struct {
	readFile func(path string) ([]byte, error)
}

// NewSourceExtractor creates an extractor reading from the local filesystem
func NewSourceExtractor() *SourceExtractor {
	return &SourceExtractor{readFile: os.ReadFile}
}

// FindConfigFiles returns every *Config.cs file under dir that defines a building, in walk order
func (e *SourceExtractor) FindConfigFiles(ctx context.Context, dir string) ([]string, error) {
	var configs []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, the root is not
			if path == dir {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), "Config.cs") {
			return nil
		}

		content, readErr := e.readFile(path)
		if readErr != nil {
			return nil
		}
		if isBuildingConfig(string(content)) {
			configs = append(configs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return configs, nil
}

// Extract parses every building config under sourceDir.
// A building id seen twice keeps the last definition.
func (e *SourceExtractor) Extract(ctx context.Context, sourceDir string) (*production.CatalogSnapshot, *production.ExtractStats, error) {
	logger := common.LoggerFromContext(ctx)

	files, err := e.FindConfigFiles(ctx, sourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", sourceDir, err)
	}
	logger.Log("INFO", fmt.Sprintf("[Extract] Found %d potential building config files", len(files)), map[string]interface{}{
		"source_dir": sourceDir,
	})

	stats := &production.ExtractStats{}
	specs := make([]production.FacilitySpec, 0, len(files))
	index := make(map[string]int, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		content, err := e.readFile(path)
		if err != nil {
			logger.Log("ERROR", fmt.Sprintf("[Extract] Error parsing %s: %v", path, err), nil)
			stats.Errors++
			continue
		}

		parsed := parseBuildingConfig(string(content))
		if parsed == nil {
			stats.Skipped++
			continue
		}

		spec := toFacilitySpec(parsed)
		if i, seen := index[spec.Facility.ID]; seen {
			stats.Inputs -= len(specs[i].Inputs)
			stats.Outputs -= len(specs[i].Outputs)
			specs[i] = spec
		} else {
			index[spec.Facility.ID] = len(specs)
			specs = append(specs, spec)
			stats.Buildings++
		}
		stats.Inputs += len(spec.Inputs)
		stats.Outputs += len(spec.Outputs)

		logger.Log("DEBUG", fmt.Sprintf("[Extract] Parsed: %s (power: %gW, inputs: %d, outputs: %d)",
			parsed.id, parsed.powerWatts, len(parsed.inputs), len(parsed.outputs)), map[string]interface{}{
			"file": path,
		})
	}

	return &production.CatalogSnapshot{Facilities: specs}, stats, nil
}

func toFacilitySpec(b *parsedBuilding) production.FacilitySpec {
	spec := production.FacilitySpec{
		Facility: production.Facility{
			ID:            b.id,
			Name:          b.id, // Display names live in string tables, not in the config classes
			PowerWatts:    b.powerWatts,
			HeatOutputDTU: b.heatDTU,
		},
	}
	for _, in := range b.inputs {
		spec.Inputs = append(spec.Inputs, production.FacilityInput{
			FacilityID:      b.id,
			ResourceID:      in.element,
			RateKgPerSecond: in.rate,
		})
	}
	for _, out := range b.outputs {
		spec.Outputs = append(spec.Outputs, production.FacilityOutput{
			FacilityID:      b.id,
			ResourceID:      out.element,
			RateKgPerSecond: out.rate,
		})
	}
	return spec
}
