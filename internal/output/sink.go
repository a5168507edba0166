package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	errorCreateArtifactFormat = "creating output file %s: %w"
	errorWriteArtifactFormat  = "writing to %s: %w"
	errorCloseArtifactFormat  = "closing output file %s: %w"
)

var errSinkClosed = errors.New("output sink is closed")

// WriterSink writes lines to an io.Writer, terminating each with a newline.
type WriterSink struct {
	writer       io.Writer
	name         string
	bytesWritten int64
}

// NewWriterSink wraps writer. name identifies the destination in error messages.
func NewWriterSink(writer io.Writer, name string) *WriterSink {
	return &WriterSink{writer: writer, name: name}
}

// WriteLine appends line and a newline to the destination in a single write.
func (sink *WriterSink) WriteLine(line string) error {
	if sink.writer == nil {
		return fmt.Errorf(errorWriteArtifactFormat, sink.name, errSinkClosed)
	}
	written, writeError := io.WriteString(sink.writer, line+lineTerminator)
	sink.bytesWritten += int64(written)
	if writeError != nil {
		return fmt.Errorf(errorWriteArtifactFormat, sink.name, writeError)
	}
	return nil
}

// BytesWritten reports how many bytes reached the destination.
func (sink *WriterSink) BytesWritten() int64 {
	return sink.bytesWritten
}

// FileSink is the output artifact: one file handle held open for the whole render.
type FileSink struct {
	*WriterSink
	file *os.File
	path string
}

// CreateFileSink creates, or truncates, the artifact for a render started at moment inside
// directory. An empty directory means the current working directory.
func CreateFileSink(directory string, moment time.Time) (*FileSink, error) {
	artifactPath := filepath.Join(directory, TimestampedFileName(moment))
	return OpenFileSink(artifactPath)
}

// OpenFileSink creates, or truncates, the file at artifactPath and holds it open for writing.
//
// #nosec G304
func OpenFileSink(artifactPath string) (*FileSink, error) {
	file, openError := os.OpenFile(artifactPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, artifactFileMode)
	if openError != nil {
		return nil, fmt.Errorf(errorCreateArtifactFormat, artifactPath, openError)
	}
	return &FileSink{
		WriterSink: NewWriterSink(file, artifactPath),
		file:       file,
		path:       artifactPath,
	}, nil
}

// Path returns the artifact location.
func (sink *FileSink) Path() string {
	return sink.path
}

// Close releases the file handle. Further writes fail; repeated calls are no-ops.
func (sink *FileSink) Close() error {
	if sink.file == nil {
		return nil
	}
	closeError := sink.file.Close()
	sink.file = nil
	sink.WriterSink.writer = nil
	if closeError != nil {
		return fmt.Errorf(errorCloseArtifactFormat, sink.path, closeError)
	}
	return nil
}
