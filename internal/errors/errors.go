package errors

import (
	"errors"
	"fmt"
)

var (
	ErrDirectoryNotWritable     = errors.New("download directory is not writable")
	ErrToolMissing              = errors.New("transcoding tool not found")
	ErrMetadataExtractionFailed = errors.New("failed to extract video info")
	ErrTransferFailed           = errors.New("download failed")
	ErrNoOutputProduced         = errors.New("no files found after download")
	ErrZeroByteOutput           = errors.New("downloaded file is empty")
	ErrPlacementFailed          = errors.New("failed to move file into download directory")

	ErrFileNotFound    = errors.New("file does not exist")
	ErrInvalidFileName = errors.New("invalid file name")
)

// Kind classifies a DownloadError.
type Kind string

const (
	KindDirectoryNotWritable     Kind = "directory_not_writable"
	KindToolMissing              Kind = "tool_missing"
	KindMetadataExtractionFailed Kind = "metadata_extraction_failed"
	KindTransferFailed           Kind = "transfer_failed"
	KindNoOutputProduced         Kind = "no_output_produced"
	KindZeroByteOutput           Kind = "zero_byte_output"
	KindPlacementFailed          Kind = "placement_failed"
)

var sentinels = map[Kind]error{
	KindDirectoryNotWritable:     ErrDirectoryNotWritable,
	KindToolMissing:              ErrToolMissing,
	KindMetadataExtractionFailed: ErrMetadataExtractionFailed,
	KindTransferFailed:           ErrTransferFailed,
	KindNoOutputProduced:         ErrNoOutputProduced,
	KindZeroByteOutput:           ErrZeroByteOutput,
	KindPlacementFailed:          ErrPlacementFailed,
}

// DownloadError is returned by every failing pipeline stage.
// errors.Is matches it against the sentinel of its Kind.
type DownloadError struct {
	Kind Kind
	Op   string
	Err  error
}

// NewDownloadError wraps err as a failure of kind during op.
func NewDownloadError(kind Kind, op string, err error) *DownloadError {
	return &DownloadError{Kind: kind, Op: op, Err: err}
}

func (e *DownloadError) Error() string {
	msg := e.Kind.String()
	if s, ok := sentinels[e.Kind]; ok {
		msg = s.Error()
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Op)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

func (e *DownloadError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

func (k Kind) String() string {
	return string(k)
}

// KindOf returns the kind of the first DownloadError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DownloadError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
