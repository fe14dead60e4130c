package compliance

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FileValidator validates a PDF file on disk with pdfcpu in strict mode. It
// satisfies Validator.
type FileValidator struct {
	// Path is the PDF file to validate.
	Path string
}

// Validate runs pdfcpu's strict structural validation over the file.
func (v FileValidator) Validate() error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationStrict

	if err := api.ValidateFile(v.Path, conf); err != nil {
		return fmt.Errorf("validate %s: %w", v.Path, err)
	}
	return nil
}
