package assets

import (
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dossier-generator/internal/logger"
	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// fakeFile is a test double for types.File.
type fakeFile struct {
	name      string
	mediaType string
	data      string
	err       error
	delay     time.Duration
	opened    *int32
}

func (f *fakeFile) Name() string      { return f.name }
func (f *fakeFile) MediaType() string { return f.mediaType }
func (f *fakeFile) Open() (io.ReadCloser, error) {
	if f.opened != nil {
		atomic.AddInt32(f.opened, 1)
	}
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.data)), nil
}

func TestLoadAsDataURL(t *testing.T) {
	asset, err := LoadAsDataURL(&fakeFile{name: "a.png", mediaType: "image/png", data: "hello"})
	require.NoError(t, err)
	require.NotNil(t, asset)

	assert.Equal(t, "image/png", asset.MediaType)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", asset.DataURL)

	data, err := Bytes(asset)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLoadAsDataURL_Nil(t *testing.T) {
	asset, err := LoadAsDataURL(nil)
	assert.NoError(t, err)
	assert.Nil(t, asset)
}

func TestLoadAll_PreservesAlignment(t *testing.T) {
	var opened int32
	files := []types.File{
		&fakeFile{name: "slow.jpg", mediaType: "image/jpeg", data: "slow", delay: 30 * time.Millisecond, opened: &opened},
		nil,
		&fakeFile{name: "broken.png", mediaType: "image/png", err: errors.New("disk on fire"), opened: &opened},
		&fakeFile{name: "fast.png", mediaType: "image/png", data: "fast", opened: &opened},
	}

	out := NewLoader(logger.Discard()).LoadAll(files)

	require.Len(t, out, len(files))
	assert.EqualValues(t, 3, atomic.LoadInt32(&opened))

	require.NotNil(t, out[0])
	slow, err := Bytes(out[0])
	require.NoError(t, err)
	assert.Equal(t, "slow", string(slow))

	assert.Nil(t, out[1], "absent slot")
	assert.Nil(t, out[2], "failed read becomes an absent slot")

	require.NotNil(t, out[3])
	assert.Equal(t, "image/png", out[3].MediaType)
}

func TestLoadAll_Empty(t *testing.T) {
	out := NewLoader(logger.Discard()).LoadAll(nil)
	assert.Empty(t, out)
}

func TestDecodeDataURL_Errors(t *testing.T) {
	tests := []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,%%%",
	}

	for _, in := range tests {
		_, err := DecodeDataURL(in)
		assert.ErrorIs(t, err, types.ErrInvalidDataURL, in)
	}
}
