package lab

import (
	"errors"
	"testing"
	"time"
)

func TestDateOfTruncatesToDay(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	d := DateOf(time.Date(2024, time.March, 9, 23, 30, 0, 0, loc))
	if d.String() != "2024-03-09" {
		t.Fatalf("DateOf() = %s", d)
	}
	if d != NewDate(2024, time.March, 9) {
		t.Fatalf("DateOf() != NewDate()")
	}
}

func TestDateScan(t *testing.T) {
	want := NewDate(2023, time.November, 2)
	sources := []any{
		"2023-11-02",
		[]byte("2023-11-02"),
		"2023-11-02 00:00:00+00:00",
		time.Date(2023, time.November, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, src := range sources {
		var d Date
		if err := d.Scan(src); err != nil {
			t.Fatalf("Scan(%v) error = %v", src, err)
		}
		if !d.Equal(want) {
			t.Fatalf("Scan(%v) = %s, want %s", src, d, want)
		}
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Fatalf("Scan(int) expected error")
	}
	if err := d.Scan("11/02/2023"); err == nil {
		t.Fatalf("Scan(bad layout) expected error")
	}
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2022, time.January, 31).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "2022-01-31" {
		t.Fatalf("Value() = %v", v)
	}
}

func TestDateValueRejectsFiveDigitYear(t *testing.T) {
	d := NewDate(10000, time.January, 1)
	if d.Storable() {
		t.Fatalf("Storable() = true for year 10000")
	}
	if _, err := d.Value(); !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("Value() error = %v, want ErrDateOutOfRange", err)
	}
	if !NewDate(9999, time.December, 31).Storable() {
		t.Fatalf("Storable() = false for year 9999")
	}
}
