package resource

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/clipchain"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Upload errors.
var (
	// ErrTextureCreate is returned when a mask texture cannot be created.
	ErrTextureCreate = errors.New("resource: failed to create texture")

	// ErrTextureWrite is returned when mask pixels cannot be written.
	ErrTextureWrite = errors.New("resource: failed to write texture")
)

// TextureDescriptor describes a single-channel texture holding a mask of
// the given size.
func TextureDescriptor(label string, size image.Point) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label: label,
		Size: gputypes.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

func halDescriptor(d *gputypes.TextureDescriptor) *hal.TextureDescriptor {
	return &hal.TextureDescriptor{
		Label: d.Label,
		Size: hal.Extent3D{
			Width:              d.Size.Width,
			Height:             d.Size.Height,
			DepthOrArrayLayers: d.Size.DepthOrArrayLayers,
		},
		MipLevelCount: d.MipLevelCount,
		SampleCount:   d.SampleCount,
		Dimension:     d.Dimension,
		Format:        d.Format,
		Usage:         d.Usage,
	}
}

// Device is the subset of hal.Device used to manage mask textures.
type Device interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
}

// Queue is the subset of hal.Queue used to upload mask pixels.
type Queue interface {
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error
}

// TextureUploader creates one texture per resident mask and keeps it in
// sync with a Cache.
type TextureUploader struct {
	device Device
	queue  Queue

	textures map[residentKey]hal.Texture
}

// NewTextureUploader creates an uploader with no textures.
func NewTextureUploader(device Device, queue Queue) *TextureUploader {
	return &TextureUploader{
		device:   device,
		queue:    queue,
		textures: make(map[residentKey]hal.Texture),
	}
}

// Flush destroys the textures of evicted masks and uploads every pending
// mask of c. Uploads that fail stay pending for the next Flush.
func (u *TextureUploader) Flush(c *Cache) error {
	uploads, evicted := c.takeUploads()
	for _, k := range evicted {
		u.release(k)
	}

	for i := range uploads {
		if err := u.upload(&uploads[i]); err != nil {
			c.requeue(uploads[i:])
			clipchain.Logger().Warn("resource: texture upload failed, retrying next frame",
				"request", uploads[i].key, "err", err)
			return err
		}
	}
	if len(uploads) > 0 || len(evicted) > 0 {
		clipchain.Logger().Debug("resource: flushed",
			"uploads", len(uploads),
			"released", len(evicted),
			"textures", len(u.textures))
	}
	return nil
}

func (u *TextureUploader) upload(up *Upload) error {
	u.release(up.key)

	tex, err := u.device.CreateTexture(halDescriptor(&up.Descriptor))
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrTextureCreate, up.Descriptor.Label, err)
	}

	size := up.Mask.Bounds().Size()
	err = u.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		up.Mask.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(up.Mask.Stride), RowsPerImage: uint32(size.Y)},
		&hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1},
	)
	if err != nil {
		u.device.DestroyTexture(tex)
		return fmt.Errorf("%w: %w", ErrTextureWrite, err)
	}
	u.textures[up.key] = tex
	return nil
}

func (u *TextureUploader) release(k residentKey) {
	if tex, ok := u.textures[k]; ok {
		u.device.DestroyTexture(tex)
		delete(u.textures, k)
	}
}

// Texture returns the texture holding the mask for req.
func (u *TextureUploader) Texture(req ImageRequest) (hal.Texture, bool) {
	tex, ok := u.textures[req.residentKey()]
	return tex, ok
}

// Len returns the number of live textures.
func (u *TextureUploader) Len() int {
	return len(u.textures)
}

// Destroy releases every texture.
func (u *TextureUploader) Destroy() {
	for k := range u.textures {
		u.release(k)
	}
}
