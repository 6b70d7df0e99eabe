package view

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fulldump/registryviews/collection"
	"github.com/fulldump/registryviews/registry"
)

// Kind is the shape of the collection backing a view.
type Kind string

const (
	KindList       Kind = "list"
	KindSet        Kind = "set"
	KindSortedList Kind = "sorted-list"
	KindSortedSet  Kind = "sorted-set"
)

var Kinds = []Kind{KindList, KindSet, KindSortedList, KindSortedSet}

func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindList, nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownKind, s)
}

func (k Kind) Sorted() bool {
	return k == KindSortedList || k == KindSortedSet
}

type settings struct {
	name     string
	filter   registry.Filter
	required bool
	logger   *zap.Logger
	kind     Kind

	// holds a collection.Comparator[T], checked against T in New
	comparator any
}

type Option func(s *settings)

func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

func WithFilter(filter registry.Filter) Option {
	return func(s *settings) {
		s.filter = filter
	}
}

// WithRequired makes every observation fail with ErrUnavailable while the
// view is empty.
func WithRequired(required bool) Option {
	return func(s *settings) {
		s.required = required
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithKind selects the backing shape. Sorted kinds use natural ordering
// unless a comparator is given with AsSortedList or AsSortedSet.
func WithKind(kind Kind) Option {
	return func(s *settings) {
		s.kind = kind
	}
}

func AsList() Option {
	return WithKind(KindList)
}

func AsSet() Option {
	return WithKind(KindSet)
}

// AsSortedList keeps items ordered by comparator, nil meaning natural
// ordering.
func AsSortedList[T any](comparator collection.Comparator[T]) Option {
	return func(s *settings) {
		s.kind = KindSortedList
		s.comparator = comparator
	}
}

func AsSortedSet[T any](comparator collection.Comparator[T]) Option {
	return func(s *settings) {
		s.kind = KindSortedSet
		s.comparator = comparator
	}
}
