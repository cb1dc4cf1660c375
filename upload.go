package attrpool

import (
	"github.com/eapache/queue"
	"github.com/gogpu/gputypes"
)

// AttributeUpload locates one attribute inside an uploaded buffer.
type AttributeUpload struct {
	Name       string
	ByteOffset int
	Components int
	Format     gputypes.VertexFormat
}

// Upload is everything a renderer needs to synchronize one buffer.
//
// Data aliases the full buffer contents and Changed the bytes of the dirty
// range; both must be consumed before the pool is written again.
type Upload struct {
	Key        string
	Type       ElementType
	Usage      gputypes.BufferUsage
	Attributes []AttributeUpload
	Data       []byte
	Changed    []byte
	Dirty      Range
	// ByteOffset is the position of Changed within Data.
	ByteOffset int
	// Stride is the byte stride of one vertex.
	Stride  int
	Version uint64
}

// Describe returns the upload surface of the buffer without flushing it.
func (b *Buffer) Describe() Upload {
	u := Upload{
		Key:        b.layout.Key,
		Type:       b.layout.Type,
		Usage:      b.Usage(),
		Attributes: make([]AttributeUpload, 0, len(b.layout.Attributes)),
		Data:       b.data,
		Changed:    b.rows(b.dirty),
		Dirty:      b.dirty,
		ByteOffset: b.dirty.First * b.slotBytes,
		Stride:     b.layout.ByteStride,
		Version:    b.version,
	}
	offset := 0
	for _, a := range b.layout.attributes {
		u.Attributes = append(u.Attributes, AttributeUpload{
			Name:       a.Name,
			ByteOffset: offset,
			Components: a.Size,
			Format:     a.Type.VertexFormat(a.Size, a.Normalized),
		})
		offset += a.ByteSize()
	}
	return u
}

// flushUpload describes the buffer, then clears its dirty range.
func (b *Buffer) flushUpload() Upload {
	u := b.Describe()
	b.Flush()
	return u
}

// Uploads describes every buffer of the pool without flushing.
func (p *Pool) Uploads() []Upload {
	out := make([]Upload, len(p.buffers))
	for i, b := range p.buffers {
		out[i] = b.Describe()
	}
	return out
}

// UploadQueue collects dirty buffers of one or more pools in FIFO order
// for a renderer to drain once per frame.
type UploadQueue struct {
	q *queue.Queue
}

// NewUploadQueue returns an empty queue.
func NewUploadQueue() *UploadQueue {
	return &UploadQueue{q: queue.New()}
}

// Collect flushes every dirty buffer of p into the queue and returns how
// many uploads were added.
func (u *UploadQueue) Collect(p *Pool) int {
	ups := p.Flush()
	for _, up := range ups {
		u.q.Add(up)
	}
	return len(ups)
}

// Len returns the number of queued uploads.
func (u *UploadQueue) Len() int { return u.q.Length() }

// Next removes and returns the oldest upload.
func (u *UploadQueue) Next() (Upload, bool) {
	if u.q.Length() == 0 {
		return Upload{}, false
	}
	return u.q.Remove().(Upload), true
}

// Drain passes every queued upload to fn in order. It stops at the first
// error, leaving the failed upload and the rest queued.
func (u *UploadQueue) Drain(fn func(Upload) error) error {
	for u.q.Length() > 0 {
		if err := fn(u.q.Peek().(Upload)); err != nil {
			return err
		}
		u.q.Remove()
	}
	return nil
}
