package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/qa-reports/stakeholder-report/pkg/core"
)

// ReadRun loads and decodes a run document.
// A missing file is ErrMissingInput; anything that does not decode into a run
// document with a suites array is ErrMalformedInput.
func ReadRun(path string) (*Run, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided report file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrMissingInput.WithPath(path).WithCause(err)
		}
		return nil, core.ErrGenerationFailure.WithPath(path).WithMessage("read report JSON").WithCause(err)
	}
	return DecodeRun(path, data)
}

// DecodeRun decodes a run document from raw JSON. path is only used for
// error context.
func DecodeRun(path string, data []byte) (*Run, error) {
	var run Run
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &run); err != nil {
		return nil, core.ErrMalformedInput.WithPath(path).WithCause(err)
	}
	if run.Suites == nil {
		return nil, core.ErrMalformedInput.WithPath(path).WithMessage("report JSON has no suites array")
	}
	return &run, nil
}
