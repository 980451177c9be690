package parser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/ccollicutt/fwf/pkg/record"
)

// OpenAll opens every path with the same variant on a pool of at most
// workers goroutines (GOMAXPROCS when workers <= 0). Files are returned in
// path order. The variant's hooks must be safe for concurrent use.
//
// The first failure cancels the remaining loads and is returned. A panic in
// a hook is reported as that file's error.
func OpenAll(ctx context.Context, paths []string, variant *record.Variant, workers int, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(paths))
	if variant == nil {
		variant = record.BaseVariant()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating loader pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files := make([]*File, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%s: hook panicked: %v", path, r)
				}
				if errs[i] != nil {
					cancel()
				}
				wg.Done()
			}()
			files[i], errs[i] = Open(ctx, path, variant, opts...)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("scheduling %s: %w", path, err)
			cancel()
			break
		}
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		return nil, err
	}
	return files, nil
}

// firstError prefers a real failure over the cancellations it caused.
func firstError(errs []error) error {
	var canceled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return err
		}
	}
	return canceled
}
