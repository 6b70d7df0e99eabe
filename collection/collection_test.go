package collection

import (
	"errors"
	"strings"
	"testing"

	. "github.com/fulldump/biff"
)

func TestCollection(t *testing.T) {

	Alternative("Empty list", func(a *A) {

		c := NewList[string]()
		AssertEqual(c.Size(), 0)
		AssertTrue(c.IsEmpty())

		a.Alternative("Add duplicates", func(a *A) {
			added, err := c.Add("x")
			AssertNil(err)
			AssertTrue(added)
			added, err = c.Add("x")
			AssertNil(err)
			AssertTrue(added)

			AssertEqual(c.Size(), 2)
			AssertEqual(c.ToSlice(), []string{"x", "x"})

			a.Alternative("Remove first match", func(a *A) {
				AssertTrue(c.Remove("x"))
				AssertEqual(c.Size(), 1)
				AssertTrue(c.Contains("x"))
			})
		})

		a.Alternative("AddAll and RemoveAll", func(a *A) {
			changed, err := c.AddAll("a", "b", "c", "d")
			AssertNil(err)
			AssertTrue(changed)

			AssertTrue(c.RemoveAll("b", "d", "nope"))
			AssertEqual(c.ToSlice(), []string{"a", "c"})
			AssertFalse(c.RemoveAll("nope"))
		})

		a.Alternative("Remove missing", func(a *A) {
			AssertFalse(c.Remove("ghost"))
		})

		a.Alternative("RemoveAt", func(a *A) {
			c.AddAll("a", "b", "c")

			item, err := c.RemoveAt(1)
			AssertNil(err)
			AssertEqual(item, "b")
			AssertEqual(c.ToSlice(), []string{"a", "c"})

			_, err = c.RemoveAt(2)
			AssertTrue(errors.Is(err, ErrIndexOutOfRange))
			_, err = c.RemoveAt(-1)
			AssertTrue(errors.Is(err, ErrIndexOutOfRange))
		})

		a.Alternative("First and Last", func(a *A) {
			_, err := c.First()
			AssertEqual(err, ErrNoSuchElement)
			_, err = c.Last()
			AssertEqual(err, ErrNoSuchElement)

			c.AddAll("a", "b")
			first, _ := c.First()
			last, _ := c.Last()
			AssertEqual(first, "a")
			AssertEqual(last, "b")
		})

		a.Alternative("Clear", func(a *A) {
			c.AddAll("a", "b", "c")
			c.Clear()
			AssertEqual(c.Size(), 0)
			AssertEqual(c.ToSlice(), []string{})
		})

		a.Alternative("ToSlice is a snapshot", func(a *A) {
			c.AddAll("a", "b")
			snapshot := c.ToSlice()
			c.Remove("a")
			AssertEqual(snapshot, []string{"a", "b"})
		})
	})
}

func TestSet(t *testing.T) {

	s := NewSet[string]()

	added, err := s.Add("x")
	AssertNil(err)
	AssertTrue(added)

	added, err = s.Add("x")
	AssertNil(err)
	AssertFalse(added)

	AssertEqual(s.Size(), 1)

	changed, err := s.AddAll("x", "y")
	AssertNil(err)
	AssertTrue(changed)
	AssertEqual(s.ToSlice(), []string{"x", "y"})
}

type caseless string

func (c caseless) Equal(other caseless) bool {
	return strings.EqualFold(string(c), string(other))
}

func TestSet_Equaler(t *testing.T) {

	s := NewSet[caseless]()
	s.Add("Hello")

	added, _ := s.Add("HELLO")
	AssertFalse(added)
	AssertTrue(s.Contains("hello"))
	AssertTrue(s.Remove("hELLo"))
	AssertEqual(s.Size(), 0)
}

func TestCollection_All(t *testing.T) {

	c := New[int]()
	c.AddAll(1, 2, 3, 4)

	got := []int{}
	for item := range c.All() {
		if item == 2 {
			c.Remove(3)
		}
		got = append(got, item)
	}

	AssertEqual(got, []int{1, 2, 4})
	AssertEqual(c.liveIterators(), 0)
}
