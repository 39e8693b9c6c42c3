// Package strings provides zero-copy string utilities and pooled builders for Arbor
package strings

import (
	"fmt"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Clone creates an owned copy of a string. Use it before retaining a
// string produced by a Builder whose buffer will be reused.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, StringToBytes(s))
	return BytesToString(b)
}

// Builder accumulates bytes and produces strings without the extra copy
// strings.Builder performs on growth.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteBytes appends raw bytes to the builder.
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion.
// The result aliases the builder's buffer; Clone it before Reset.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Pool manages a fixed-size pool of builders.
type Pool struct {
	builders chan *Builder
	capacity int
}

// NewPool creates a pool of poolSize builders, each with builderCapacity bytes.
func NewPool(poolSize, builderCapacity int) *Pool {
	p := &Pool{
		builders: make(chan *Builder, poolSize),
		capacity: builderCapacity,
	}
	for i := 0; i < poolSize; i++ {
		p.builders <- NewBuilder(builderCapacity)
	}
	return p
}

// Get retrieves a builder from the pool, allocating if the pool is empty.
func (p *Pool) Get() *Builder {
	select {
	case builder := <-p.builders:
		return builder
	default:
		return NewBuilder(p.capacity)
	}
}

// Put resets and returns a builder to the pool. Full pools drop the builder.
func (p *Pool) Put(builder *Builder) {
	builder.Reset()
	select {
	case p.builders <- builder:
	default:
	}
}

// Sprintf formats into a pooled builder and returns an owned string.
func Sprintf(format string, args ...interface{}) string {
	b := sprintfPool.Get()
	defer sprintfPool.Put(b)
	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}

var sprintfPool = NewPool(16, 128)
