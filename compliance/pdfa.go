package compliance

import (
	"github.com/rs/zerolog/log"
)

// Validator performs a strict structural validation of a document. A nil
// error means the document passed.
type Validator interface {
	Validate() error
}

// CheckPDFA reports whether the document passes strict structural
// validation, the screening proxy for archival conformance. A nil validator,
// a validation error or a panic inside the validator all report false;
// compliance checks never abort an analysis.
func CheckPDFA(v Validator) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("pdfa validation panicked")
			ok = false
		}
	}()

	if v == nil {
		return false
	}
	if err := v.Validate(); err != nil {
		log.Debug().Err(err).Msg("pdfa validation failed")
		return false
	}
	return true
}
