package service

import "strconv"

const PageSize = 10

// Page 一页数据
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int64
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

func (p Page[T]) offset() int { return (p.Number - 1) * PageSize }

// ParsePage 解析 ?page= 参数，非法值一律当作第一页
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// newPage 页码超出范围时落到最后一页
func newPage[T any](number int, total int64) Page[T] {
	numPages := int((total + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Page[T]{Number: number, NumPages: numPages, Total: total}
}
