package daterange

import (
	"testing"
	"time"
)

func TestComputePeriod(t *testing.T) {
	tests := []struct {
		page int
		base string
		want string
	}{
		{page: -1, base: "week", want: "week"},
		{page: 0, base: "", want: "week"},
		{page: 1, base: "week", want: "week"},
		{page: 1, base: "month", want: "month"},
		{page: 2, base: "week", want: "month"},
		{page: 4, base: "year", want: "month"},
		{page: 5, base: "week", want: "year"},
		{page: 50, base: "week", want: "year"},
	}

	for _, tt := range tests {
		if got := ComputePeriod(tt.page, tt.base); got != tt.want {
			t.Errorf("ComputePeriod(%d, %q) = %q, want %q", tt.page, tt.base, got, tt.want)
		}
	}
}

func TestDates(t *testing.T) {
	today := time.Date(2024, time.January, 29, 15, 4, 5, 0, time.Local)

	first := Dates(1, today)
	if len(first) != 7 {
		t.Fatalf("Dates(1) returned %d dates, want 7", len(first))
	}
	wantKeys := []string{"2024-01-29", "2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02", "2024-02-03", "2024-02-04"}
	for i, key := range Keys(first) {
		if key != wantKeys[i] {
			t.Errorf("Dates(1)[%d] = %s, want %s", i, key, wantKeys[i])
		}
	}
	if first[0].Hour() != 0 || first[0].Minute() != 0 {
		t.Errorf("Dates(1)[0] = %v, want local midnight", first[0])
	}

	second := Dates(2, today)
	if got := second[0].Format("2006-01-02"); got != "2024-02-05" {
		t.Errorf("Dates(2)[0] = %s, want 2024-02-05", got)
	}
}

func TestHeaderRange(t *testing.T) {
	if got := HeaderRange(nil); got != Placeholder {
		t.Errorf("HeaderRange(nil) = %q, want %q", got, Placeholder)
	}

	dates := Dates(1, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local))
	if got, want := HeaderRange(dates), "1 Mar 2024 - 7 Mar 2024"; got != want {
		t.Errorf("HeaderRange() = %q, want %q", got, want)
	}
}
