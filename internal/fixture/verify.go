package fixture

import (
	"context"

	"github.com/nan-1212/abipy/internal/pseudo"
)

// VerifyPseudos checks every pseudopotential of doc against its recorded
// md5. A non-empty dir relocates the files (looked up by basename).
func VerifyPseudos(ctx context.Context, doc *Document, dir string) ([]pseudo.Result, error) {
	results, err := pseudo.VerifyAll(ctx, doc.Input.Pseudos, pseudo.VerifyOptions{Dir: dir})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.OK() {
			logger().Debug("pseudo verified", "basename", r.Pseudo.Basename, "md5", r.Actual)
			continue
		}
		logger().Warn("pseudo verification failed", "basename", r.Pseudo.Basename, "error", r.Err)
	}
	return results, nil
}
