package collector

import (
	"os"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
)

// readSource reads file's backing bytes from disk. id doubles as the
// filesystem path for both ordinary and archive-extracted FileNodes (the
// discovery walker assigns archive member ids under the extraction
// directory, which is itself a real path on disk).
func readSource(file *graphmodel.FileNode) ([]byte, error) {
	return os.ReadFile(file.ID())
}
