package timegrid

import (
	"testing"
	"time"
)

func TestSlots(t *testing.T) {
	tests := []struct {
		name  string
		open  string
		close string
		count int
		first string
		last  string
	}{
		{
			name:  "standard clinic day",
			open:  "10:00",
			close: "19:30",
			count: 39, // 9.5 hours * 4 + closing boundary
			first: "10:00",
			last:  "19:30",
		},
		{
			name:  "weekend hours",
			open:  "10:00",
			close: "15:00",
			count: 21,
			first: "10:00",
			last:  "15:00",
		},
		{
			name:  "open equals close",
			open:  "09:00",
			close: "09:00",
			count: 1,
			first: "09:00",
			last:  "09:00",
		},
		{
			name:  "close not on slot boundary",
			open:  "09:00",
			close: "09:20",
			count: 2, // 09:00, 09:15; 09:30 would pass the boundary
			first: "09:00",
			last:  "09:15",
		},
		{
			name:  "close before open",
			open:  "18:00",
			close: "10:00",
			count: 0,
		},
		{
			name:  "malformed open",
			open:  "banana",
			close: "18:00",
			count: 0,
		},
		{
			name:  "malformed close",
			open:  "09:00",
			close: "25:99",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Slots(tt.open, tt.close)
			if len(slots) != tt.count {
				t.Fatalf("len(slots) = %d, want %d (%v)", len(slots), tt.count, slots)
			}
			if tt.count == 0 {
				return
			}
			if slots[0] != tt.first {
				t.Errorf("first slot = %q, want %q", slots[0], tt.first)
			}
			if slots[len(slots)-1] != tt.last {
				t.Errorf("last slot = %q, want %q", slots[len(slots)-1], tt.last)
			}
		})
	}
}

func TestSlotsStrictlyIncreasingAndEquallySpaced(t *testing.T) {
	slots := Slots("08:00", "20:00")
	for i := 1; i < len(slots); i++ {
		prev, err := ParseClock(slots[i-1])
		if err != nil {
			t.Fatalf("unparseable slot %q: %v", slots[i-1], err)
		}
		cur, err := ParseClock(slots[i])
		if err != nil {
			t.Fatalf("unparseable slot %q: %v", slots[i], err)
		}
		if cur-prev != SlotMinutes {
			t.Fatalf("gap between %q and %q is %d minutes, want %d", slots[i-1], slots[i], cur-prev, SlotMinutes)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "10:15", want: 615},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "10", wantErr: true},
		{in: "", wantErr: true},
		{in: "aa:bb", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampDuration(t *testing.T) {
	tests := []struct {
		name     string
		clock    string
		duration int
		close    string
		want     int
	}{
		{name: "fits comfortably", clock: "10:00", duration: 4, close: "19:30", want: 4},
		{name: "runs past midnight", clock: "23:30", duration: 4, close: "", want: 1},
		{name: "starts at last slot", clock: "23:45", duration: 2, close: "", want: 0},
		{name: "exactly reaches 23:45", clock: "22:45", duration: 4, close: "", want: 4},
		{name: "clamped to closing time", clock: "17:30", duration: 8, close: "18:00", want: 2},
		{name: "no closing bound keeps full duration", clock: "17:30", duration: 8, close: "", want: 8},
		{name: "starts at closing time", clock: "18:00", duration: 2, close: "18:00", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClampDuration(tt.clock, tt.duration, tt.close)
			if err != nil {
				t.Fatalf("ClampDuration(%q, %d): %v", tt.clock, tt.duration, err)
			}
			if got != tt.want {
				t.Errorf("ClampDuration(%q, %d) = %d, want %d", tt.clock, tt.duration, got, tt.want)
			}
		})
	}
}

func TestCurrentOffset(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 2, 24, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		now     time.Time
		mobile  bool
		want    float64
		visible bool
	}{
		{name: "opening minute desktop", now: at(10, 0), want: DesktopTimeOffset, visible: true},
		{name: "opening minute mobile", now: at(10, 0), mobile: true, want: 0, visible: true},
		{name: "mid-morning", now: at(11, 30), mobile: true, want: 6 * RowHeight, visible: true},
		{name: "before opening", now: at(9, 59), visible: false},
		{name: "at closing", now: at(19, 30), visible: false},
		{name: "after closing", now: at(22, 0), visible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentOffset(tt.now, "10:00", "19:30", tt.mobile)
			if ok != tt.visible {
				t.Fatalf("visible = %v, want %v", ok, tt.visible)
			}
			if ok && got != tt.want {
				t.Errorf("offset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddSlots(t *testing.T) {
	got, err := AddSlots("11:30", 2)
	if err != nil {
		t.Fatalf("AddSlots: %v", err)
	}
	if got != "12:00" {
		t.Errorf("AddSlots(11:30, 2) = %q, want 12:00", got)
	}
}
