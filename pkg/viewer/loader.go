package viewer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/taigrr/vitrine/pkg/models"
)

// AssetLoader decodes the asset at path. *models.GLTFLoader implements it.
type AssetLoader interface {
	Load(ctx context.Context, path string) (*models.Model, error)
}

// LoadRequest identifies one LoadModel call.
type LoadRequest struct {
	ID       string
	Filename string
	Path     string
	// Generation increases with every request. Only the result of the
	// newest request is installed.
	Generation uint64
}

// LoadResult is delivered to the frame loop when a request finishes.
type LoadResult struct {
	Request LoadRequest
	Model   *models.Model
	Err     error
}

// assetLoader runs loads on their own goroutines and hands results back
// over a channel drained by the frame loop. Its fields other than results
// belong to the frame goroutine.
type assetLoader struct {
	loader AssetLoader
	dir    string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	results    chan LoadResult
	generation uint64
	pending    int
	last       string
}

func newAssetLoader(loader AssetLoader, dir string) *assetLoader {
	ctx, cancel := context.WithCancel(context.Background())
	return &assetLoader{
		loader:  loader,
		dir:     dir,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan LoadResult, 8),
	}
}

// assetPath joins the models directory and a filename the way every load
// path is built. The filename is not validated.
func assetPath(dir, filename string) string {
	return fmt.Sprintf("%s/%s", dir, filename)
}

// Load starts loading filename and returns immediately.
func (a *assetLoader) Load(filename string) LoadRequest {
	a.generation++
	a.pending++
	req := LoadRequest{
		ID:         uuid.NewString(),
		Filename:   filename,
		Path:       assetPath(a.dir, filename),
		Generation: a.generation,
	}

	a.last = filename

	a.wg.Go(func() {
		m, err := a.decode(req.Path)
		if err != nil {
			m, err = nil, &LoadError{RequestID: req.ID, Path: req.Path, Err: err}
		}
		select {
		case a.results <- LoadResult{Request: req, Model: m, Err: err}:
		case <-a.ctx.Done():
		}
	})
	return req
}

// decode runs the loader, turning a panic on a malformed asset into an
// error so it never takes down the process.
func (a *assetLoader) decode(path string) (m *models.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("decode panic: %v", r)
		}
	}()
	return a.loader.Load(a.ctx, path)
}

// Last returns the filename of the newest request, whether or not it
// succeeded.
func (a *assetLoader) Last() string {
	return a.last
}

// Poll returns a finished result without blocking.
func (a *assetLoader) Poll() (LoadResult, bool) {
	select {
	case res := <-a.results:
		a.pending--
		return res, true
	default:
		return LoadResult{}, false
	}
}

// Wait blocks until a result is available or ctx is done.
func (a *assetLoader) Wait(ctx context.Context) (LoadResult, error) {
	select {
	case res := <-a.results:
		a.pending--
		return res, nil
	case <-ctx.Done():
		return LoadResult{}, ctx.Err()
	}
}

// Pending returns the number of requests whose result has not been taken.
func (a *assetLoader) Pending() int {
	return a.pending
}

// Stale reports whether a newer request was issued after req.
func (a *assetLoader) Stale(req LoadRequest) bool {
	return req.Generation != a.generation
}

// Close cancels in-flight loads and waits for their goroutines.
func (a *assetLoader) Close() {
	a.cancel()
	a.wg.Wait()
}
