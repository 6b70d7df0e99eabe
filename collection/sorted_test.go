package collection

import (
	"cmp"
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func TestSortedList_Duplicates(t *testing.T) {

	l := NewSortedList[int](nil)
	for _, v := range []int{2, 2, 1, 3} {
		added, err := l.Add(v)
		biff.AssertNil(err)
		biff.AssertTrue(added)
	}

	biff.AssertEqual(l.ToSlice(), []int{1, 2, 2, 3})
}

func TestSortedSet_RejectsDuplicates(t *testing.T) {

	s := NewSortedSet[int](nil)

	results := []bool{}
	for _, v := range []int{2, 2, 1, 3} {
		added, err := s.Add(v)
		biff.AssertNil(err)
		results = append(results, added)
	}

	biff.AssertEqual(results, []bool{true, false, true, true})
	biff.AssertEqual(s.ToSlice(), []int{1, 2, 3})
}

type entry struct {
	key int
	tag string
}

func TestSortedList_StableOnTie(t *testing.T) {

	l := NewSortedList[entry](func(a, b entry) int {
		return cmp.Compare(a.key, b.key)
	})
	l.AddAll(entry{1, "first"}, entry{0, "zero"}, entry{1, "second"}, entry{1, "third"})

	biff.AssertEqual(l.ToSlice(), []entry{
		{0, "zero"}, {1, "first"}, {1, "second"}, {1, "third"},
	})
	biff.AssertNotNil(l.Comparator())
}

type version struct {
	major, minor int
}

func (v version) Compare(other version) int {
	if c := cmp.Compare(v.major, other.major); c != 0 {
		return c
	}
	return cmp.Compare(v.minor, other.minor)
}

type rank int

func TestSorted_NaturalOrdering(t *testing.T) {

	biff.Alternative("Natural ordering", func(a *biff.A) {

		a.Alternative("Comparer", func(a *biff.A) {
			s := NewSortedSet[version](nil)
			s.AddAll(version{1, 2}, version{0, 9}, version{1, 0})
			biff.AssertEqual(s.ToSlice(), []version{{0, 9}, {1, 0}, {1, 2}})
		})

		a.Alternative("Named ordered kind", func(a *biff.A) {
			s := NewSortedList[rank](nil)
			s.AddAll(3, 1, 2)
			biff.AssertEqual(s.ToSlice(), []rank{1, 2, 3})
		})

		a.Alternative("Strings", func(a *biff.A) {
			s := NewSortedSet[string](nil)
			s.AddAll("b", "a", "c", "a")
			biff.AssertEqual(s.ToSlice(), []string{"a", "b", "c"})
		})

		a.Alternative("No ordering available", func(a *biff.A) {
			l := NewSortedList[entry](nil)

			_, err := l.Add(entry{1, "x"})
			biff.AssertTrue(errors.Is(err, ErrTypeMismatch))
			biff.AssertEqual(l.Size(), 0)
		})
	})
}

func TestSorted_Unsupported(t *testing.T) {

	s := NewSortedSet[int](nil)
	s.AddAll(1, 2, 3)

	_, err := s.HeadSet(2)
	biff.AssertEqual(err, ErrUnsupported)
	_, err = s.TailSet(2)
	biff.AssertEqual(err, ErrUnsupported)
	_, err = s.SubSet(1, 3)
	biff.AssertEqual(err, ErrUnsupported)

	l := NewSortedList[int](nil)
	l.AddAll(1, 2, 3)

	_, err = l.Set(0, 9)
	biff.AssertEqual(err, ErrUnsupported)
	biff.AssertEqual(l.InsertAt(0, 9), ErrUnsupported)

	li := l.ListIterator()
	li.Next()
	biff.AssertEqual(li.Set(9), ErrUnsupported)
	biff.AssertEqual(li.Add(9), ErrUnsupported)
	biff.AssertNil(li.Remove())
	biff.AssertEqual(l.ToSlice(), []int{2, 3})
}

func TestSorted_FirstLast(t *testing.T) {

	s := NewSortedSet[int](nil)

	_, err := s.First()
	biff.AssertEqual(err, ErrNoSuchElement)
	_, err = s.Last()
	biff.AssertEqual(err, ErrNoSuchElement)

	s.AddAll(5, 1, 9)
	first, _ := s.First()
	last, _ := s.Last()
	biff.AssertEqual(first, 1)
	biff.AssertEqual(last, 9)
}

func TestSorted_IteratorSeesOrderedInsert(t *testing.T) {

	l := NewSortedList[int](nil)
	l.AddAll(10, 20, 30)

	it := l.Iterator()
	item, _ := it.Next()
	biff.AssertEqual(item, 10)

	l.Add(5)  // before the cursor, not replayed
	l.Add(15) // ahead of the cursor, visited

	got := []int{}
	for it.HasNext() {
		item, _ := it.Next()
		got = append(got, item)
	}
	biff.AssertEqual(got, []int{15, 20, 30})
}
