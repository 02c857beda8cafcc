package gpucache

import (
	"errors"
	"fmt"

	"github.com/gogpu/clipchain"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Upload errors.
var (
	// ErrBufferCreate is returned when the storage buffer cannot be created.
	ErrBufferCreate = errors.New("gpucache: failed to create buffer")

	// ErrBufferWrite is returned when the packed blocks cannot be written.
	ErrBufferWrite = errors.New("gpucache: failed to write buffer")
)

// minBufferBlocks is the smallest buffer the Uploader allocates: one row.
const minBufferBlocks = BlocksPerRow

// Device is the subset of hal.Device used to manage the cache buffer.
type Device interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buffer hal.Buffer)
}

// Queue is the subset of hal.Queue used to upload the cache buffer.
type Queue interface {
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error
}

// BufferDescriptor describes a storage buffer large enough for size bytes.
func BufferDescriptor(label string, size uint64) *hal.BufferDescriptor {
	return &hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	}
}

// Uploader mirrors a Cache into a GPU storage buffer. The buffer grows in
// powers of two and is rewritten only when the packed contents changed.
type Uploader struct {
	device Device
	queue  Queue

	buffer   hal.Buffer
	capacity uint64
	cache    *Cache
	version  uint64
	uploads  int
}

// NewUploader creates an Uploader. No buffer is allocated until the first
// Upload.
func NewUploader(device Device, queue Queue) *Uploader {
	return &Uploader{device: device, queue: queue}
}

// Upload writes the packed contents of c to the storage buffer and returns
// it. The returned buffer stays valid until the next Upload or Destroy.
// The write is skipped only when c is the cache uploaded last time and its
// contents have not changed since.
func (u *Uploader) Upload(c *Cache) (hal.Buffer, error) {
	if u.buffer != nil && u.cache == c && u.version == c.Version() {
		return u.buffer, nil
	}

	data := c.Bytes()
	if need := uint64(len(data)); u.buffer == nil || need > u.capacity {
		if err := u.grow(c.Label(), need); err != nil {
			return nil, err
		}
	}
	if len(data) > 0 {
		if err := u.queue.WriteBuffer(u.buffer, 0, data); err != nil {
			clipchain.Logger().Warn("gpucache: buffer write failed, retrying next frame", "err", err)
			return nil, fmt.Errorf("%w: %w", ErrBufferWrite, err)
		}
	}
	u.cache = c
	u.version = c.Version()
	u.uploads++
	clipchain.Logger().Debug("gpucache: uploaded", "bytes", len(data), "capacity", u.capacity)
	return u.buffer, nil
}

func (u *Uploader) grow(label string, need uint64) error {
	capacity := max(u.capacity, uint64(minBufferBlocks*BlockSize))
	for capacity < need {
		capacity *= 2
	}

	buf, err := u.device.CreateBuffer(BufferDescriptor(label, capacity))
	if err != nil {
		return fmt.Errorf("%w (%d bytes): %w", ErrBufferCreate, capacity, err)
	}
	if u.buffer != nil {
		u.device.DestroyBuffer(u.buffer)
	}
	u.buffer = buf
	u.capacity = capacity
	return nil
}

// Buffer returns the current storage buffer, or nil before the first
// Upload.
func (u *Uploader) Buffer() hal.Buffer {
	return u.buffer
}

// Capacity returns the size of the current buffer in bytes.
func (u *Uploader) Capacity() uint64 {
	return u.capacity
}

// Uploads returns how many times the buffer contents were written.
func (u *Uploader) Uploads() int {
	return u.uploads
}

// Destroy releases the storage buffer.
func (u *Uploader) Destroy() {
	if u.buffer != nil {
		u.device.DestroyBuffer(u.buffer)
		u.buffer = nil
		u.capacity = 0
	}
	u.cache = nil
}
