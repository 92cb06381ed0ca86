package orderbookv1

import "github.com/google/btree"

// ladderDegree is the btree branching factor. Books rarely hold more
// than a few thousand distinct prices, so a modest degree keeps nodes
// cache-friendly.
const ladderDegree = 16

// ladder is the ordered price-to-level mapping for one side. The sort
// direction is the only bid/ask difference: best is the highest bid or
// the lowest ask. A flat map rides alongside the tree for O(1) exact
// price lookup.
type ladder struct {
	side    Side
	tree    *btree.BTreeG[*priceLevel]
	byPrice map[int64]*priceLevel
}

func newLadder(side Side) *ladder {
	return &ladder{
		side: side,
		tree: btree.NewG(ladderDegree, func(a, b *priceLevel) bool {
			return a.price < b.price
		}),
		byPrice: make(map[int64]*priceLevel),
	}
}

// insert enqueues o at its price, creating the level when absent.
func (ld *ladder) insert(o *Order) {
	lvl, ok := ld.byPrice[o.Price]
	if !ok {
		lvl = newPriceLevel(o.Price)
		ld.byPrice[o.Price] = lvl
		ld.tree.ReplaceOrInsert(lvl)
	}
	lvl.enqueue(o)
}

// best returns the level at the best price for the side.
func (ld *ladder) best() (*priceLevel, bool) {
	if ld.side == Bid {
		return ld.tree.Max()
	}
	return ld.tree.Min()
}

// bestPrice returns the best price key, false when the side is empty.
func (ld *ladder) bestPrice() (int64, bool) {
	lvl, ok := ld.best()
	if !ok {
		return 0, false
	}
	return lvl.price, true
}

// level returns the level resting at an exact price.
func (ld *ladder) level(price int64) (*priceLevel, bool) {
	lvl, ok := ld.byPrice[price]
	return lvl, ok
}

// deleteLevel drops the level at price from tree and map.
func (ld *ladder) deleteLevel(price int64) {
	lvl, ok := ld.byPrice[price]
	if !ok {
		return
	}
	delete(ld.byPrice, price)
	ld.tree.Delete(lvl)
}

// fromBest walks levels best-first, stopping when fn returns false.
// The ladder must not be mutated during the walk; matching advances
// by re-reading best() instead so it can delete drained levels.
func (ld *ladder) fromBest(fn func(*priceLevel) bool) {
	if ld.side == Bid {
		ld.tree.Descend(fn)
		return
	}
	ld.tree.Ascend(fn)
}

// liveLevelCount reports how many levels hold live quantity.
func (ld *ladder) liveLevelCount() int {
	n := 0
	ld.tree.Ascend(func(lvl *priceLevel) bool {
		if lvl.totalQty > 0 {
			n++
		}
		return true
	})
	return n
}
