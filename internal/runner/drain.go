package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
)

// Drain reads stream to completion and prints every line through out under
// the given ordinal. Lines that are not valid UTF-8 are skipped with a
// warning; a final line without a newline is still printed.
func Drain(ctx context.Context, stream io.Reader, ordinal int, out *output.TaggedWriter) {
	l := log.FromContext(ctx)
	br := bufio.NewReader(stream)

	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			emit(l, out, ordinal, line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				l.Warn("failed to read from stream: %v", err)
			}
			return
		}
	}
}

func emit(l *log.Logger, out *output.TaggedWriter, ordinal int, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if !utf8.Valid(line) {
		l.Warn("failed to read line from stream")
		return
	}
	if err := out.WriteLine(ordinal, string(line)); err != nil {
		l.Warn("failed to write output line: %v", err)
	}
}
