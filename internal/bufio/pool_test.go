package bufio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPoolOverflow(t *testing.T) {
	p := NewPool(4)

	for i := 0; i < 4; i++ {
		slot := p.AcquireHead()
		require.NotNil(t, slot)
		slot.Filled = i + 1
		p.Publish()
	}

	assert.Nil(t, p.AcquireHead(), "pool should report full after 4 pushes into a capacity-4 pool")

	p.Release()
	slot := p.AcquireHead()
	assert.NotNil(t, slot, "a slot should free up after one release")
}

func TestPoolEmptyPeek(t *testing.T) {
	p := NewPool(4)
	assert.Nil(t, p.PeekTail())
}

func TestPoolFIFOOrder(t *testing.T) {
	p := NewPool(8)
	for i := 0; i < 5; i++ {
		slot := p.AcquireHead()
		require.NotNil(t, slot)
		slot.Filled = i
		p.Publish()
	}
	for i := 0; i < 5; i++ {
		slot := p.PeekTail()
		require.NotNil(t, slot)
		assert.Equal(t, i, slot.Filled)
		p.Release()
	}
}

// TestPoolInvariant exercises the ring's head/tail/size invariant across
// randomized acquire/publish/peek/release sequences: 0 <= size <= cap and
// head == (tail+size) mod cap always hold.
func TestPoolInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(t, "capacity")
		p := NewPool(capacity)

		ops := rapid.SliceOfN(rapid.SampledFrom([]string{"push", "pop"}), 1, 200).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case "push":
				if slot := p.AcquireHead(); slot != nil {
					p.Publish()
				}
			case "pop":
				if slot := p.PeekTail(); slot != nil {
					p.Release()
				}
			}
			size := p.Size()
			if size < 0 || size > p.Cap() {
				t.Fatalf("size %d out of range [0,%d]", size, p.Cap())
			}
			if !p.invariantHeadTail() {
				t.Fatalf("head/tail/size invariant violated: head=%d tail=%d size=%d cap=%d", p.head, p.tail, size, p.Cap())
			}
		}
	})
}
