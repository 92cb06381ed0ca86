package orderbookv1

// priceLevel holds the FIFO queue of orders resting at one price.
// The queue is an intrusive doubly-linked list; orders leave it only
// from the head under matching, or under eager cancellation, either by
// exact reference or all at once when the level is dropped. Dead orders
// may linger anywhere in the queue as tombstones until a head sweep
// reaches them or the level is drained.
type priceLevel struct {
	price      int64
	head, tail *Order

	// totalQty is the sum of Remaining over live orders only. Lazy
	// cancellation debits it at mark time, so depth queries never
	// count tombstoned quantity.
	totalQty  int64
	liveCount int
}

func newPriceLevel(price int64) *priceLevel {
	return &priceLevel{price: price}
}

// enqueue appends a live order at the tail.
func (l *priceLevel) enqueue(o *Order) {
	o.level = l
	if l.tail != nil {
		l.tail.next = o
		o.prev = l.tail
	} else {
		l.head = o
	}
	l.tail = o
	l.totalQty += o.Remaining
	l.liveCount++
}

// peekHeadLive returns the first live order, unlinking dead tombstones
// from the head as it scans. onSweep is invoked for every tombstone
// removed so the book can drop it from its index. Apart from drain,
// which empties a level that eager cancellation drops from the ladder,
// this is the only place tombstones are physically destroyed.
func (l *priceLevel) peekHeadLive(onSweep func(*Order)) *Order {
	for l.head != nil && !l.head.live {
		dead := l.head
		l.unlink(dead)
		if onSweep != nil {
			onSweep(dead)
		}
	}
	return l.head
}

// fillHead reduces the head order by qty. The head must be live and
// qty must not exceed its remaining quantity. When the fill empties
// the order it is popped and returned so the caller can unindex it;
// otherwise fillHead returns nil.
func (l *priceLevel) fillHead(qty int64) *Order {
	head := l.head
	head.Remaining -= qty
	l.totalQty -= qty
	if head.Remaining == 0 {
		head.live = false
		l.liveCount--
		l.unlink(head)
		return head
	}
	return nil
}

// markDead tombstones o in place. The live total is debited now, not
// at sweep time.
func (l *priceLevel) markDead(o *Order) {
	o.live = false
	l.totalQty -= o.Remaining
	l.liveCount--
}

// remove unlinks o from the queue regardless of its position,
// debiting the live total if o was still live.
func (l *priceLevel) remove(o *Order) {
	if o.live {
		l.markDead(o)
	}
	l.unlink(o)
}

// emptyOfLive reports whether no live order remains queued here.
func (l *priceLevel) emptyOfLive() bool {
	return l.liveCount == 0
}

// drain unlinks every remaining order, invoking visit for each.
// Called when a level leaves the ladder with tombstones still queued.
func (l *priceLevel) drain(visit func(*Order)) {
	for l.head != nil {
		o := l.head
		l.unlink(o)
		if visit != nil {
			visit(o)
		}
	}
}

func (l *priceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next, o.prev, o.level = nil, nil, nil
}
