// Package zwrap wraps a ReadCloser so that gzipped input is decompressed
// on the fly. Alignments often arrive gzipped, so the fasta reader sends
// its file pointer through here before parsing. Closing the wrapper
// closes the decompressor and then the backing file.

package zwrap

import (
	"compress/gzip"
	"errors"
	"io"
)

// Unzipper is the reader we hand back. If zrdr is nil, the input was
// not compressed and reads go straight to the backing stream.
type Unzipper struct {
	backing io.ReadCloser
	zrdr    *gzip.Reader
}

func (u *Unzipper) Read(p []byte) (int, error) {
	if u.zrdr != nil {
		return u.zrdr.Read(p)
	}
	return u.backing.Read(p)
}

// Close closes the decompressor, if there is one, and then the backing
// stream. Both errors are worth keeping.
func (u *Unzipper) Close() error {
	var zerr error
	if u.zrdr != nil {
		zerr = u.zrdr.Close()
	}
	return errors.Join(zerr, u.backing.Close())
}

// Wrap puts a gzip reader in front of fp. It is happy with a file or an
// http body. The error comes straight from gzip, so feeding it
// uncompressed data is an error here.
func Wrap(fp io.ReadCloser) (*Unzipper, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &Unzipper{backing: fp, zrdr: zrdr}, nil
}

// ReadSeekCloser is handed to WrapMaybe. We need the seek so we can
// rewind after sniffing.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe looks at the start of the stream and decides whether it has
// to decompress. You do lose something. If you pass in something which
// can seek, you get back a reader which cannot. That is the price of
// reading from a compressed stream.
func WrapMaybe(fpIn ReadSeekCloser) (*Unzipper, error) {
	var magic [2]byte
	n, err := io.ReadFull(fpIn, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := fpIn.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return Wrap(fpIn)
	}
	return &Unzipper{backing: fpIn}, nil
}
