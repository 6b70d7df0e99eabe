package collection

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// TestIteratorContract drives several forward iterators and random
// structural mutation from one goroutine and checks the HasNext/Next
// promise, that no iterator yields an element twice, and that elements
// present for an iterator's whole lifetime are all visited.
func TestIteratorContract(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {

		c := NewList[string]()
		serial := 0
		newItem := func() string {
			serial++
			return fmt.Sprintf("item-%d", serial)
		}

		initial := rapid.IntRange(0, 8).Draw(rt, "initial")
		for i := 0; i < initial; i++ {
			c.Add(newItem())
		}

		type tracked struct {
			it       *Iterator[string]
			answer   *bool // last HasNext answer not yet consumed by Next
			seen     map[string]bool
			startSet map[string]bool
		}

		removed := map[string]bool{}
		iterators := []*tracked{}
		for i := rapid.IntRange(1, 3).Draw(rt, "iterators"); i > 0; i-- {
			start := map[string]bool{}
			for _, item := range c.ToSlice() {
				start[item] = true
			}
			iterators = append(iterators, &tracked{
				it:       c.Iterator(),
				seen:     map[string]bool{},
				startSet: start,
			})
		}

		next := func(tr *tracked) {
			item, err := tr.it.Next()
			if tr.answer != nil {
				if *tr.answer && err != nil {
					rt.Fatalf("HasNext()==true but Next failed: %v", err)
				}
				if !*tr.answer && err != ErrExhausted {
					rt.Fatalf("HasNext()==false but Next returned %q, %v", item, err)
				}
			}
			tr.answer = nil
			if err != nil {
				return
			}
			if tr.seen[item] {
				rt.Fatalf("%q yielded twice", item)
			}
			tr.seen[item] = true
		}

		steps := rapid.IntRange(0, 60).Draw(rt, "steps")
		for s := 0; s < steps; s++ {
			tr := iterators[rapid.IntRange(0, len(iterators)-1).Draw(rt, "iterator")]
			switch rapid.SampledFrom([]string{"hasNext", "next", "insert", "remove"}).Draw(rt, "op") {
			case "hasNext":
				answer := tr.it.HasNext()
				tr.answer = &answer
			case "next":
				next(tr)
			case "insert":
				size := c.Size()
				i := rapid.IntRange(0, size).Draw(rt, "insertAt")
				if err := c.InsertAt(i, newItem()); err != nil {
					rt.Fatalf("insert: %v", err)
				}
			case "remove":
				size := c.Size()
				if size == 0 {
					continue
				}
				item, err := c.RemoveAt(rapid.IntRange(0, size-1).Draw(rt, "removeAt"))
				if err != nil {
					rt.Fatalf("remove: %v", err)
				}
				removed[item] = true
			}
		}

		// drain
		for _, tr := range iterators {
			for {
				answer := tr.it.HasNext()
				tr.answer = &answer
				if !answer {
					next(tr)
					break
				}
				next(tr)
			}
			for item := range tr.startSet {
				if !removed[item] && !tr.seen[item] {
					rt.Fatalf("%q was present the whole time but never visited", item)
				}
			}
		}
	})
}
