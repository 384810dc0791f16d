package calendar

import (
	"testing"
	"time"

	"ekiden-club/internal/models"
)

func TestMonth_SundayStart(t *testing.T) {
	// 2024-09-01 is a Sunday; 30 days fill exactly 5 weeks
	g := Month(2024, time.September, time.Sunday, nil)
	if len(g.Weeks) != 5 {
		t.Fatalf("weeks = %d, want 5", len(g.Weeks))
	}
	if g.Weeks[0][0].Day != 1 {
		t.Errorf("first cell = %d, want 1", g.Weeks[0][0].Day)
	}
	last := g.Weeks[4]
	if last[1].Day != 30 || last[2].Day != 0 {
		t.Errorf("last week = %d,%d; want 30 then padding", last[1].Day, last[2].Day)
	}
}

func TestMonth_MondayStart(t *testing.T) {
	// 2024-09-01 is a Sunday, so with Monday weeks it sits in the last column
	g := Month(2024, time.September, time.Monday, nil)
	if g.Weeks[0][6].Day != 1 || g.Weeks[0][0].Day != 0 {
		t.Errorf("first week = %+v", g.Weeks[0])
	}
	if len(g.Weeks) != 6 {
		t.Errorf("weeks = %d, want 6", len(g.Weeks))
	}
}

func TestMonth_AttachesEvents(t *testing.T) {
	events := []models.Event{
		{Title: "記録会", Date: "2024/09/07"},
		{Title: "合宿", Date: "2024-9-7"},
		{Title: "other month", Date: "2024/10/07"},
	}
	g := Month(2024, time.September, time.Sunday, events)
	cell := g.Weeks[0][6]
	if cell.Date != "2024-09-07" || len(cell.Events) != 2 {
		t.Errorf("2024-09-07 cell = %+v", cell)
	}
}

func TestPrevNext(t *testing.T) {
	g := Month(2025, time.January, time.Sunday, nil)
	if y, m := g.Prev(); y != 2024 || m != time.December {
		t.Errorf("Prev = %d-%d", y, m)
	}
	if y, m := g.Next(); y != 2025 || m != time.February {
		t.Errorf("Next = %d-%d", y, m)
	}
}
