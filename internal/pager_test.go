package internal

import (
	"errors"
	"testing"

	"github.com/iksnae/wxmsg/testutil"
)

func TestPager_Next(t *testing.T) {
	p := NewPager(newTestStorage(t), "", 2)

	var sizes []int
	var ranks []int64
	for !p.Done() {
		rows, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		sizes = append(sizes, len(rows))
		for _, r := range rows {
			ranks = append(ranks, r.RowIndex)
		}
	}

	if want := []int{2, 2, 1}; !equalInts(sizes, want) {
		t.Errorf("page sizes = %v, want %v", sizes, want)
	}
	for i, r := range ranks {
		if r != int64(i+1) {
			t.Errorf("rank %d = %d, want %d", i, r, i+1)
		}
	}
	if p.Offset() != 5 {
		t.Errorf("Offset() = %d, want 5", p.Offset())
	}

	rows, err := p.Next()
	if err != nil || len(rows) != 0 {
		t.Errorf("Next() after done = %v, %v; want no rows", rows, err)
	}
}

func TestPager_ExactMultiple(t *testing.T) {
	p := NewPager(newTestStorage(t), testutil.SampleRoom, 2)

	pages := 0
	err := p.Each(func(rows []MessageRow) error {
		pages++
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	// a full page is followed by an empty fetch that ends the walk
	if pages != 1 {
		t.Errorf("pages = %d, want 1", pages)
	}
	if !p.Done() {
		t.Error("Done() = false after Each")
	}
}

func TestPager_EachStopsOnError(t *testing.T) {
	p := NewPager(newTestStorage(t), "", 1)
	stop := errors.New("stop")

	calls := 0
	err := p.Each(func(rows []MessageRow) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Each() error = %v, want stop", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNewPager_DefaultPageSize(t *testing.T) {
	p := NewPager(nil, "", 0)
	if p.pageSize != DefaultPageSize {
		t.Errorf("pageSize = %d, want %d", p.pageSize, DefaultPageSize)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
