package sitebook

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"
)

// pdfMerger abstracts PDF concatenation to enable testing without real files.
type pdfMerger interface {
	Combine(inputPaths []string, outputPath string) error
	PageCount(path string) (int, error)
}

// Merger concatenates PDF files page by page using pdfcpu.
type Merger struct {
	log zerolog.Logger
}

// NewMerger creates a Merger.
func NewMerger(log zerolog.Logger) *Merger {
	return &Merger{log: log.With().Str("component", "merge").Logger()}
}

// Combine appends every page of every input file, in input order and
// preserving intra-file page order, into a new PDF at outputPath. Any
// existing file at outputPath is overwritten. The merge is all-or-nothing:
// a missing or invalid input fails the whole operation and no partial
// output is left behind.
func (m *Merger) Combine(inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return ErrNoMergeInput
	}

	// pdfcpu's merge wants two or more inputs; a single file is a copy.
	if len(inputPaths) == 1 {
		return m.copyFile(inputPaths[0], outputPath)
	}

	if err := api.MergeCreateFile(inputPaths, outputPath, false, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}

	m.log.Debug().Int("inputs", len(inputPaths)).Str("path", outputPath).Msg("merged PDFs")
	return nil
}

// copyFile validates the single input and writes it to outputPath.
func (m *Merger) copyFile(inputPath, outputPath string) error {
	if err := api.ValidateFile(inputPath, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	data, err := os.ReadFile(inputPath) // #nosec G304 -- paths come from this run's own output tree
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil { // #nosec G306 -- rendered output is meant to be readable
		return fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	m.log.Debug().Str("path", outputPath).Msg("single input, copied as combined document")
	return nil
}

// PageCount reports the number of pages in the PDF at path.
func (m *Merger) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: counting pages in %s: %v", ErrPDFMerge, path, err)
	}
	return n, nil
}
