package pseudo

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrNoChecksum is returned when a descriptor has no recorded md5.
var ErrNoChecksum = errors.New("descriptor has no md5")

// ChecksumError reports a file whose MD5 differs from the recorded one.
type ChecksumError struct {
	Path     string
	Recorded string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("md5 mismatch for %s: recorded %s, file has %s", e.Path, e.Recorded, e.Actual)
}

// ComputeMD5 returns the lowercase hex MD5 of the file at path.
func ComputeMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Path returns where the file of p is expected. With a non-empty dir the
// basename is looked up in dir, so that fixtures keep working after the
// pseudopotential directory moved. Otherwise the recorded filepath is used,
// falling back to the basename.
func (p *Pseudo) Path(dir string) string {
	if dir != "" {
		return filepath.Join(dir, p.Basename)
	}
	if p.Filepath != "" {
		return p.Filepath
	}
	return p.Basename
}

// Verify checks the file of p against its recorded md5 and returns the
// computed checksum. A missing file yields an error wrapping os.ErrNotExist.
func Verify(p *Pseudo, dir string) (string, error) {
	if p.MD5 == "" {
		return "", fmt.Errorf("%s: %w", p.Basename, ErrNoChecksum)
	}
	path := p.Path(dir)
	actual, err := ComputeMD5(path)
	if err != nil {
		return "", fmt.Errorf("verify %s: %w", p.Basename, err)
	}
	if !strings.EqualFold(actual, p.MD5) {
		return actual, &ChecksumError{Path: path, Recorded: p.MD5, Actual: actual}
	}
	return actual, nil
}

// Result is the outcome of verifying one descriptor.
type Result struct {
	Pseudo *Pseudo
	Path   string
	Actual string
	Err    error
}

// OK reports whether the file matched its checksum.
func (r Result) OK() bool { return r.Err == nil }

// VerifyOptions configures VerifyAll.
type VerifyOptions struct {
	// Dir overrides the directory holding the pseudopotential files.
	Dir string
	// Parallel bounds concurrent verifications; 0 means runtime.NumCPU().
	Parallel int
}

// VerifyAll verifies every descriptor concurrently. Results are returned in
// input order; per-file failures are reported in Result.Err. The returned
// error is non-nil only when ctx is cancelled.
func VerifyAll(ctx context.Context, pseudos []*Pseudo, opts VerifyOptions) ([]Result, error) {
	limit := opts.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(pseudos))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range pseudos {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			actual, err := Verify(p, opts.Dir)
			results[i] = Result{Pseudo: p, Path: p.Path(opts.Dir), Actual: actual, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AllOK reports whether every result passed.
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK() {
			return false
		}
	}
	return true
}
