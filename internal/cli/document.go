package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/schema"
)

// readDocument reads the document at path. A missing or unreadable file is
// a command error.
func readDocument(f *OutputFormatter, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, f.fail(ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), nil)
	}
	if err != nil {
		return nil, f.fail(ErrCodeGeneric, "failed to read document", err)
	}
	return data, nil
}

// decodeDocument decodes data. When decoding fails the validation errors
// that stopped it are returned with a nil document.
func decodeDocument(data []byte) (*fixture.Document, []schema.ValidationError, error) {
	doc, err := fixture.Decode(data)
	var fe *fixture.Error
	if errors.As(err, &fe) {
		return nil, fe.Errors, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return doc, nil, nil
}

// loadDocument reads and decodes path. Any failure is reported through f
// and returned as an *ExitError: validation errors exit with ExitFailure,
// everything else with ExitCommandError.
func loadDocument(f *OutputFormatter, path string) (*fixture.Document, []byte, error) {
	data, err := readDocument(f, path)
	if err != nil {
		return nil, nil, err
	}
	doc, errs, err := decodeDocument(data)
	if err != nil {
		return nil, nil, f.fail(ErrCodeGeneric, "failed to decode document", err)
	}
	if len(errs) > 0 {
		return nil, nil, outputValidationErrors(f, errs)
	}
	doc.Path = path
	return doc, data, nil
}
