package output

import (
	"io"

	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

// TaggedWriter prints command output lines prefixed with the command's
// ordinal tag.
type TaggedWriter struct {
	w *SyncWriter
}

// NewTaggedWriter creates a TaggedWriter. Lines are written whole, one Write
// per line.
func NewTaggedWriter(w io.Writer) *TaggedWriter {
	return &TaggedWriter{w: NewSyncWriter(w)}
}

// WriteLine writes "<tag> <line>\n". The line is written verbatim.
func (t *TaggedWriter) WriteLine(ordinal int, line string) error {
	tag := styles.Tag(ordinal)
	buf := make([]byte, 0, len(tag)+len(line)+2)
	buf = append(buf, tag...)
	buf = append(buf, ' ')
	buf = append(buf, line...)
	buf = append(buf, '\n')
	_, err := t.w.Write(buf)
	return err
}
