// Package clipboard places rendered trees on the system clipboard.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

const errorReadArtifactFormat = "reading %s for clipboard: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// CopyFile places the whole content of the file at path on the clipboard through copier.
//
// #nosec G304
func CopyFile(copier Copier, path string) error {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return fmt.Errorf(errorReadArtifactFormat, path, readError)
	}
	return copier.Copy(string(content))
}

var _ Copier = (*Service)(nil)
