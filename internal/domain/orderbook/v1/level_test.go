package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(id OrderID, side Side, price, qty, ts int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Remaining: qty,
		ArrivalTS: ts,
		live:      true,
	}
}

func TestPriceLevel_Enqueue(t *testing.T) {
	lvl := newPriceLevel(100)

	o1 := newTestOrder(1, Ask, 100, 10, 1)
	o2 := newTestOrder(2, Ask, 100, 20, 2)
	lvl.enqueue(o1)
	lvl.enqueue(o2)

	assert.Equal(t, int64(30), lvl.totalQty)
	assert.Equal(t, 2, lvl.liveCount)
	assert.Equal(t, o1, lvl.head)
	assert.Equal(t, o2, lvl.tail)
	assert.Equal(t, lvl, o1.level)
	assert.Equal(t, o2, o1.next)
	assert.Equal(t, o1, o2.prev)
}

func TestPriceLevel_PeekHeadLive(t *testing.T) {
	t.Run("returns head when live", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Ask, 100, 10, 1)
		lvl.enqueue(o1)

		assert.Equal(t, o1, lvl.peekHeadLive(nil))
	})

	t.Run("sweeps dead orders from the head", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Ask, 100, 10, 1)
		o2 := newTestOrder(2, Ask, 100, 20, 2)
		o3 := newTestOrder(3, Ask, 100, 30, 3)
		lvl.enqueue(o1)
		lvl.enqueue(o2)
		lvl.enqueue(o3)

		lvl.markDead(o1)
		lvl.markDead(o2)

		var swept []OrderID
		head := lvl.peekHeadLive(func(o *Order) { swept = append(swept, o.ID) })

		require.Equal(t, o3, head)
		assert.Equal(t, []OrderID{1, 2}, swept)
		assert.Equal(t, int64(30), lvl.totalQty)
		assert.Equal(t, o3, lvl.head)
		assert.Nil(t, o3.prev)
	})

	t.Run("empty after sweeping everything", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Ask, 100, 10, 1)
		lvl.enqueue(o1)
		lvl.markDead(o1)

		assert.Nil(t, lvl.peekHeadLive(nil))
		assert.True(t, lvl.emptyOfLive())
	})
}

func TestPriceLevel_FillHead(t *testing.T) {
	t.Run("partial fill keeps head in place", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Bid, 100, 10, 1)
		lvl.enqueue(o1)

		popped := lvl.fillHead(4)

		assert.Nil(t, popped)
		assert.Equal(t, int64(6), o1.Remaining)
		assert.Equal(t, int64(6), lvl.totalQty)
		assert.Equal(t, o1, lvl.head)
		assert.True(t, o1.Live())
	})

	t.Run("full fill pops the head", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Bid, 100, 10, 1)
		o2 := newTestOrder(2, Bid, 100, 5, 2)
		lvl.enqueue(o1)
		lvl.enqueue(o2)

		popped := lvl.fillHead(10)

		require.Equal(t, o1, popped)
		assert.False(t, o1.Live())
		assert.Equal(t, o2, lvl.head)
		assert.Equal(t, int64(5), lvl.totalQty)
		assert.Equal(t, 1, lvl.liveCount)
	})
}

func TestPriceLevel_MarkDead(t *testing.T) {
	lvl := newPriceLevel(100)
	o1 := newTestOrder(1, Bid, 100, 10, 1)
	o2 := newTestOrder(2, Bid, 100, 5, 2)
	lvl.enqueue(o1)
	lvl.enqueue(o2)

	lvl.markDead(o1)

	// tombstone stays linked, quantity is debited immediately
	assert.Equal(t, o1, lvl.head)
	assert.False(t, o1.Live())
	assert.Equal(t, int64(5), lvl.totalQty)
	assert.Equal(t, 1, lvl.liveCount)
	assert.False(t, lvl.emptyOfLive())
}

func TestPriceLevel_Remove(t *testing.T) {
	t.Run("removes from the middle preserving FIFO", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Ask, 100, 10, 1)
		o2 := newTestOrder(2, Ask, 100, 20, 2)
		o3 := newTestOrder(3, Ask, 100, 30, 3)
		lvl.enqueue(o1)
		lvl.enqueue(o2)
		lvl.enqueue(o3)

		lvl.remove(o2)

		assert.Equal(t, int64(40), lvl.totalQty)
		assert.Equal(t, o1, lvl.head)
		assert.Equal(t, o3, o1.next)
		assert.Equal(t, o1, o3.prev)
		assert.Equal(t, o3, lvl.tail)
	})

	t.Run("removing a tombstone does not debit twice", func(t *testing.T) {
		lvl := newPriceLevel(100)
		o1 := newTestOrder(1, Ask, 100, 10, 1)
		o2 := newTestOrder(2, Ask, 100, 20, 2)
		lvl.enqueue(o1)
		lvl.enqueue(o2)

		lvl.markDead(o1)
		lvl.remove(o1)

		assert.Equal(t, int64(20), lvl.totalQty)
		assert.Equal(t, 1, lvl.liveCount)
	})
}

func TestPriceLevel_Drain(t *testing.T) {
	lvl := newPriceLevel(100)
	o1 := newTestOrder(1, Ask, 100, 10, 1)
	o2 := newTestOrder(2, Ask, 100, 20, 2)
	lvl.enqueue(o1)
	lvl.enqueue(o2)
	lvl.markDead(o1)
	lvl.markDead(o2)

	var visited []OrderID
	lvl.drain(func(o *Order) { visited = append(visited, o.ID) })

	assert.Equal(t, []OrderID{1, 2}, visited)
	assert.Nil(t, lvl.head)
	assert.Nil(t, lvl.tail)
}
