package main

type Set[T comparable] struct {
	items map[T]struct{}
}

func NewSet[T comparable](items ...T) *Set[T] {
	set := &Set[T]{items: make(map[T]struct{})}
	for _, item := range items {
		set.Add(item)
	}
	return set
}

func (set *Set[T]) Add(item T) {
	set.items[item] = struct{}{}
}

func (set *Set[T]) Contains(item T) bool {
	_, ok := set.items[item]
	return ok
}

func (set *Set[T]) Len() int {
	return len(set.items)
}
