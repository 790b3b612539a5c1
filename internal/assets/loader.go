// =============================================================================
// Dossier Generator - Asset Loader
// =============================================================================
//
// The asset loader materialises merchandising photos into memory as data
// URLs before the report is rendered.
//
// CONCURRENCY:
//   Every slot is read in its own goroutine and the loader waits for all of
//   them to settle. Results are written to the slot's own index, so the output
//   stays aligned with the input regardless of completion order.
//
// FAILURES:
//   A missing file and a failed read both resolve to a nil slot. One bad
//   photo never aborts or shifts its siblings.
//
// =============================================================================

package assets

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// Loader reads photo files into PhotoAssets.
type Loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a Loader that reports per-slot failures to log.
func NewLoader(log logrus.FieldLogger) *Loader {
	return &Loader{log: log}
}

// LoadAll loads every slot concurrently. The result has the same length as
// files; absent or unreadable slots are nil.
func (l *Loader) LoadAll(files []types.File) []*types.PhotoAsset {
	out := make([]*types.PhotoAsset, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		if f == nil {
			continue
		}

		wg.Add(1)
		go func(i int, f types.File) {
			defer wg.Done()

			asset, err := LoadAsDataURL(f)
			if err != nil {
				l.log.WithFields(logrus.Fields{
					"slot": i + 1,
					"file": f.Name(),
				}).Warnf("photo could not be read, slot left empty: %v", err)
				return
			}
			out[i] = asset
		}(i, f)
	}
	wg.Wait()

	return out
}

// LoadAsDataURL reads a file and encodes it as a base64 data URL.
// A nil file yields a nil asset and no error.
func LoadAsDataURL(f types.File) (*types.PhotoAsset, error) {
	if f == nil {
		return nil, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}

	return &types.PhotoAsset{
		DataURL:   EncodeDataURL(f.MediaType(), data),
		MediaType: f.MediaType(),
	}, nil
}

// EncodeDataURL builds "data:<mediaType>;base64,<payload>".
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the binary payload of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("%w: missing data scheme", types.ErrInvalidDataURL)
	}

	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", types.ErrInvalidDataURL)
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", types.ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDataURL, err)
	}
	return data, nil
}

// Bytes decodes the binary content of a photo asset.
func Bytes(asset *types.PhotoAsset) ([]byte, error) {
	if asset == nil {
		return nil, fmt.Errorf("%w: absent asset", types.ErrInvalidDataURL)
	}
	return DecodeDataURL(asset.DataURL)
}
