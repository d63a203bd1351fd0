// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scratch implements the per-frame transient constant allocator.
//
// An Allocator owns one pool per block-size class. Block sizes form the
// progression BlockStep, 2*BlockStep, ... MaxBlockSize. Each allocation is
// served from the smallest class that covers the requested size and always
// advances the pool cursor by the full class size, which keeps every offset
// aligned to BlockStep.
//
// Cursors are zeroed by Reset once per frame. Running out of pool space
// inside a frame is a programming error and panics with ErrOverflow.
package scratch

import (
	"errors"
	"fmt"
)

const (
	// BlockStep is the size difference between consecutive classes.
	// It is also the minimum uniform buffer offset alignment we rely on.
	BlockStep = 256

	// MaxBlockSize is the largest class.
	MaxBlockSize = 4096

	// PoolCount is the number of classes.
	PoolCount = MaxBlockSize / BlockStep

	// DefaultPoolSize is the byte size of every pool unless overridden.
	DefaultPoolSize = 64 * 1024
)

// ErrOverflow is the panic value (wrapped) raised when a frame allocates more
// constant data than a pool can hold.
var ErrOverflow = errors.New("scratch: constant buffer overflow")

// Allocation is one block handed out by Allocate.
type Allocation[B any] struct {
	// Pool is the class index.
	Pool int
	// Offset is the byte offset of the block inside the pool.
	Offset uint64
	// Size is the class block size; Data may be shorter.
	Size uint64
	// Descriptor is the descriptor-table slot paired with this block.
	Descriptor int
	// Backing is the GPU object behind the pool.
	Backing B
	// Data is the CPU shadow of the requested bytes.
	Data []byte
}

// Pool is a contiguous region carved into equal blocks.
type Pool[B any] struct {
	BlockSize int
	Capacity  int
	Backing   B

	shadow     []byte
	cursor     int
	descriptor int
}

// Cursor returns the current write offset.
func (p *Pool[B]) Cursor() int { return p.cursor }

// DescriptorCursor returns the number of descriptors handed out this frame.
func (p *Pool[B]) DescriptorCursor() int { return p.descriptor }

// Used returns the CPU bytes written this frame.
func (p *Pool[B]) Used() []byte { return p.shadow[:p.cursor] }

// Allocator is a set of block pools. It is not safe for concurrent use.
type Allocator[B any] struct {
	pools [PoolCount]Pool[B]
}

// New creates an allocator whose pools are poolSize bytes each. The backing
// callback creates the GPU object for pool i; it may be nil when the pools
// only live in CPU memory.
func New[B any](poolSize int, backing func(pool, blockSize, size int) (B, error)) (*Allocator[B], error) {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	a := &Allocator[B]{}
	for i := range a.pools {
		p := &a.pools[i]
		p.BlockSize = (i + 1) * BlockStep
		p.Capacity = poolSize
		p.shadow = make([]byte, poolSize)
		if backing != nil {
			b, err := backing(i, p.BlockSize, poolSize)
			if err != nil {
				return nil, fmt.Errorf("scratch: create pool %d: %w", i, err)
			}
			p.Backing = b
		}
	}
	return a, nil
}

// ClassFor returns the pool index serving size bytes.
func ClassFor(size int) int {
	if size <= 0 {
		return 0
	}
	return (size+BlockStep-1)/BlockStep - 1
}

// Allocate reserves a block of at least size bytes.
// It panics with ErrOverflow when size exceeds MaxBlockSize or the selected
// pool is full.
func (a *Allocator[B]) Allocate(size int) Allocation[B] {
	if size > MaxBlockSize {
		panic(fmt.Errorf("%w: %d bytes requested, largest block is %d", ErrOverflow, size, MaxBlockSize))
	}
	idx := ClassFor(size)
	p := &a.pools[idx]
	if p.cursor+p.BlockSize > p.Capacity {
		panic(fmt.Errorf("%w: pool %d (%d-byte blocks) exhausted after %d allocations",
			ErrOverflow, idx, p.BlockSize, p.descriptor))
	}

	off := p.cursor
	p.cursor += p.BlockSize
	desc := p.descriptor
	p.descriptor++

	data := p.shadow[off : off+max(size, 0)]
	clear(data)
	return Allocation[B]{
		Pool:       idx,
		Offset:     uint64(off),        //nolint:gosec // G115: offset is bounded by pool capacity
		Size:       uint64(p.BlockSize), //nolint:gosec // G115: block size is positive
		Descriptor: desc,
		Backing:    p.Backing,
		Data:       data,
	}
}

// Reset zeroes every write and descriptor cursor.
func (a *Allocator[B]) Reset() {
	for i := range a.pools {
		a.pools[i].cursor = 0
		a.pools[i].descriptor = 0
	}
}

// Pool returns the pool for class i.
func (a *Allocator[B]) Pool(i int) *Pool[B] { return &a.pools[i] }

// Flush hands the used range of every non-empty pool to write.
// The first error is returned after all pools have been visited.
func (a *Allocator[B]) Flush(write func(backing B, data []byte) error) error {
	var errs []error
	for i := range a.pools {
		p := &a.pools[i]
		if p.cursor == 0 {
			continue
		}
		if err := write(p.Backing, p.Used()); err != nil {
			errs = append(errs, fmt.Errorf("scratch: flush pool %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Each calls fn for every pool, used for teardown.
func (a *Allocator[B]) Each(fn func(*Pool[B])) {
	for i := range a.pools {
		fn(&a.pools[i])
	}
}
