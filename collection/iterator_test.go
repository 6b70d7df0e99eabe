package collection

import (
	"runtime"
	"testing"

	"github.com/fulldump/biff"
)

func TestIterator_GhostSlot(t *testing.T) {

	c := NewList[string]()
	c.Add("only")

	it := c.Iterator()
	biff.AssertTrue(it.HasNext())

	biff.AssertTrue(c.Remove("only"))

	item, err := it.Next()
	biff.AssertNil(err)
	biff.AssertEqual(item, "only")
	biff.AssertFalse(it.HasNext())
}

func TestIterator_GhostSurvivesRepeatedHasNext(t *testing.T) {

	c := NewList[string]()
	c.AddAll("a", "b")

	it := c.Iterator()
	biff.AssertTrue(it.HasNext())
	c.Clear()
	biff.AssertTrue(it.HasNext())

	item, err := it.Next()
	biff.AssertNil(err)
	biff.AssertEqual(item, "a")

	_, err = it.Next()
	biff.AssertEqual(err, ErrExhausted)
}

func TestIterator(t *testing.T) {

	biff.Alternative("Three elements, a consumed", func(a *biff.A) {

		c := NewList[string]()
		c.AddAll("a", "b", "c")

		it := c.Iterator()
		item, err := it.Next()
		biff.AssertNil(err)
		biff.AssertEqual(item, "a")

		a.Alternative("Remove b concurrently", func(a *biff.A) {
			c.Remove("b")

			item, err := it.Next()
			biff.AssertNil(err)
			biff.AssertEqual(item, "c")
			biff.AssertFalse(it.HasNext())
		})

		a.Alternative("Remove consumed a", func(a *biff.A) {
			c.Remove("a")

			item, _ := it.Next()
			biff.AssertEqual(item, "b")
		})

		a.Alternative("Confirm b, then remove it", func(a *biff.A) {
			biff.AssertTrue(it.HasNext())
			c.Remove("b")

			item, _ := it.Next()
			biff.AssertEqual(item, "b")
			item, _ = it.Next()
			biff.AssertEqual(item, "c")
		})

		a.Alternative("Insert before the cursor", func(a *biff.A) {
			c.InsertAt(0, "z")

			item, _ := it.Next()
			biff.AssertEqual(item, "b")
		})

		a.Alternative("Insert at the cursor", func(a *biff.A) {
			c.InsertAt(1, "ab")

			item, _ := it.Next()
			biff.AssertEqual(item, "ab")
		})

		a.Alternative("Insert at the cursor after HasNext", func(a *biff.A) {
			biff.AssertTrue(it.HasNext())
			c.InsertAt(1, "ab")

			item, _ := it.Next()
			biff.AssertEqual(item, "b")
		})

		a.Alternative("Remove through the iterator", func(a *biff.A) {
			biff.AssertNil(it.Remove())
			biff.AssertEqual(c.ToSlice(), []string{"b", "c"})

			a.Alternative("Twice", func(a *biff.A) {
				biff.AssertEqual(it.Remove(), ErrIllegalState)
			})

			a.Alternative("Continue", func(a *biff.A) {
				item, _ := it.Next()
				biff.AssertEqual(item, "b")
			})
		})

		a.Alternative("Remove after the element moved", func(a *biff.A) {
			c.InsertAt(0, "z")
			biff.AssertNil(it.Remove())
			biff.AssertEqual(c.ToSlice(), []string{"z", "b", "c"})
		})

		a.Alternative("Remove after the element vanished", func(a *biff.A) {
			c.Remove("a")
			biff.AssertNil(it.Remove())
			biff.AssertEqual(c.ToSlice(), []string{"b", "c"})
		})
	})
}

func TestIterator_FalseIsFinal(t *testing.T) {

	c := NewList[int]()

	it := c.Iterator()
	biff.AssertFalse(it.HasNext())

	c.Add(1)

	_, err := it.Next()
	biff.AssertEqual(err, ErrExhausted)

	// a fresh question sees the addition
	biff.AssertTrue(it.HasNext())
	item, err := it.Next()
	biff.AssertNil(err)
	biff.AssertEqual(item, 1)
}

func TestIterator_RemoveWithoutNext(t *testing.T) {

	c := NewList[int]()
	c.Add(1)

	it := c.Iterator()
	biff.AssertEqual(it.Remove(), ErrIllegalState)
}

func TestIterator_RemoveGhost(t *testing.T) {

	c := NewList[int]()
	c.AddAll(1, 2)

	it := c.Iterator()
	it.HasNext()
	c.Remove(1)

	item, _ := it.Next()
	biff.AssertEqual(item, 1)
	biff.AssertNil(it.Remove())
	biff.AssertEqual(c.ToSlice(), []int{2})
	biff.AssertEqual(it.Remove(), ErrIllegalState)
}

func TestIterator_ReadOnly(t *testing.T) {

	c := NewList[int]()
	c.Add(1)

	it := c.ReadOnlyIterator()
	it.Next()
	biff.AssertEqual(it.Remove(), ErrUnsupported)
	biff.AssertEqual(c.Size(), 1)
}

func TestIterator_Close(t *testing.T) {

	c := NewList[int]()
	c.Add(1)

	it := c.Iterator()
	biff.AssertEqual(c.liveIterators(), 1)

	it.Close()
	biff.AssertEqual(c.liveIterators(), 0)
	biff.AssertFalse(it.HasNext())

	_, err := it.Next()
	biff.AssertEqual(err, ErrExhausted)
}

func abandonIterator(c *List[int]) {
	it := c.Iterator()
	it.HasNext()
}

func TestIterator_UnreachableIsDropped(t *testing.T) {

	c := NewList[int]()
	c.Add(1)

	abandonIterator(c)

	for i := 0; i < 20 && c.liveIterators() > 0; i++ {
		runtime.GC()
	}

	biff.AssertEqual(c.liveIterators(), 0)

	// adjustment passes keep working with the entry gone
	c.Add(2)
	biff.AssertEqual(c.Size(), 2)
}
