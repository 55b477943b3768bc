package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, per, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 10, 10},
		{5, 0, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Pagination{Total: c.total, PerPage: c.per}.TotalPages(), "%+v", c)
	}
}

func TestOffsetStaysInsideTotal(t *testing.T) {
	for total := 1; total <= 60; total++ {
		for per := 1; per <= 25; per++ {
			p := Pagination{Total: total, PerPage: per}
			for page := 1; page <= p.TotalPages(); page++ {
				p.Page = page
				assert.Less(t, p.Offset(), total)
			}
		}
	}
}

func TestWindow(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Window(list, Pagination{Page: 2, PerPage: 2}))
	assert.Equal(t, []int{5}, Window(list, Pagination{Page: 3, PerPage: 2}))
	// past the end clamps to the last page
	assert.Equal(t, []int{5}, Window(list, Pagination{Page: 9, PerPage: 2}))
	assert.Equal(t, []int{}, Window([]int{}, Pagination{Page: 1, PerPage: 2}))
}

func TestHasPrevNext(t *testing.T) {
	p := Pagination{Page: 1, PerPage: 10, Total: 25}
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.Page = 3
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}
