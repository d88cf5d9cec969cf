package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// gzipMagic starts every gzip member.
var gzipMagic = []byte{0x1f, 0x8b}

// Open returns a reader for path, "-" meaning stdin. Gzip input is
// recognized by its magic bytes (or a .gz name) on files and stdin alike.
func Open(path string) (io.ReadCloser, error) {
	src := io.NopCloser(os.Stdin)
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
	}

	br := bufio.NewReaderSize(src, 64*1024)
	head, _ := br.Peek(len(gzipMagic))
	if !isGzip(head) && !strings.HasSuffix(path, ".gz") {
		return readCloser{br, src.Close}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return readCloser{gr, func() error {
		gerr := gr.Close()
		if err := src.Close(); err != nil {
			return err
		}
		return gerr
	}}, nil
}

func isGzip(head []byte) bool {
	return len(head) == len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1]
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }
