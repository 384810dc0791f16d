package legacy

import (
	"testing"

	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
)

func TestDecodeCell(t *testing.T) {
	rec, ok := DecodeCell("田中_1999_Tanaka_Yamagata_3_25:10")
	if !ok {
		t.Fatal("expected cell to decode")
	}
	if rec.Name != "田中" || rec.YearOfBirth != "1999" || rec.AlphabetName != "Tanaka" ||
		rec.Affiliation != "Yamagata" || rec.Rank != "3" || rec.Time != "25:10" {
		t.Errorf("unexpected decode: %+v", rec)
	}

	if _, ok := DecodeCell("incomplete_data"); ok {
		t.Error("expected short cell to be rejected")
	}
	if _, ok := DecodeCell(""); ok {
		t.Error("expected empty cell to be rejected")
	}

	rec, ok = DecodeCell("佐藤_2001_Sato_Sakata_1_24:58_extra_fields")
	if !ok || rec.Time != "24:58" {
		t.Errorf("extra fields should be ignored, got %+v, %v", rec, ok)
	}
}

func sampleSheet() ([]string, [][]string) {
	header := []string{"チーム", "回", "第１区遊佐～酒田", "第２区酒田～余目", "第3区余目～狩川"}
	rows := [][]string{
		{"酒田市", "60", "田中_1999_Tanaka_Sakata_3_25:10", "broken_cell", "鈴木_2000_Suzuki_Sakata_1_30:02"},
		{"鶴岡市", "60", "佐藤_2001_Sato_Tsuruoka_1_24:58", "", "高橋_1998_Takahashi_Tsuruoka__31:40"},
		{"short"},
		{"酒田市", "61", "伊藤_1997_Ito_Sakata_2_25:30"},
	}
	return header, rows
}

func TestDecodeSheet(t *testing.T) {
	header, rows := sampleSheet()
	recs, st := DecodeSheet(header, rows, nil)

	if st.Cells != 6 || st.Decoded != 5 || st.Skipped != 1 {
		t.Errorf("stats = %+v, want 6 cells / 5 decoded / 1 skipped", st)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 records, got %d", len(recs))
	}
	first := recs[0]
	if first.Team != "酒田市" || first.Edition != "60" || first.Section != "第１区遊佐～酒田" {
		t.Errorf("row/column context missing: %+v", first)
	}
	if recs[1].Section != "第3区余目～狩川" {
		t.Errorf("second record section = %q", recs[1].Section)
	}
}

func TestDecodeSheet_Filter(t *testing.T) {
	header, rows := sampleSheet()
	got := DecodeSheetToRecords(header, rows, All(ByTeam("酒田市"), ByEdition(60)))
	if len(got) != 2 {
		t.Fatalf("expected 2 records for 酒田市 #60, got %d", len(got))
	}

	got = DecodeSheetToRecords(header, rows, BySection(1))
	if len(got) != 3 {
		t.Errorf("expected 3 first-leg records, got %d", len(got))
	}
}

func TestSectionOrdinal(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"第１区遊佐～酒田", 1, true},
		{"第12区", 12, true},
		{"第１２区", 12, true},
		{"3区", 3, true},
		{"アンカー", 0, false},
	}
	for _, tt := range tests {
		got, ok := SectionOrdinal(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("SectionOrdinal(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEditionNumber(t *testing.T) {
	tests := map[string]int{
		"60":               60,
		"第６０回":             60,
		"2024 第61回県縦断駅伝":  61,
		"第62回 山形県縦断駅伝大会": 62,
	}
	for in, want := range tests {
		if got, ok := EditionNumber(in); !ok || got != want {
			t.Errorf("EditionNumber(%q) = %d, %v; want %d", in, got, ok, want)
		}
	}
	if _, ok := EditionNumber("県縦断駅伝"); ok {
		t.Error("expected no edition without digits")
	}
}

func TestBuildDistanceTable(t *testing.T) {
	recs := []models.Record{
		{RaceName: "第60回県縦断駅伝", Section: "第１区", Distance: "6000"},
		{RaceName: "第60回県縦断駅伝", Section: "第1区", Distance: "5.8km"},
		{RaceName: "第60回県縦断駅伝", Section: "第1区", Distance: "7km"},
		{RaceName: "第60回県縦断駅伝", Section: "第２区", Distance: "8.5"},
		{RaceName: "第60回県縦断駅伝", Event: "第3区", Distance: "abc"},
		{RaceName: "市民マラソン", Section: "第1区", Distance: "42.195km"},
	}
	dt := BuildDistanceTable(recs, []string{"縦断駅伝"})

	if km, ok := dt.Lookup(1, 60); !ok || km != 5.8 {
		t.Errorf("leg 1 = %v, %v; want explicit 5.8", km, ok)
	}
	if km, ok := dt.Lookup(2, 60); !ok || km != 8.5 {
		t.Errorf("leg 2 = %v, %v; want 8.5", km, ok)
	}
	if _, ok := dt.Lookup(3, 60); ok {
		t.Error("unparseable distance should not be stored")
	}
	if dt.Len() != 2 {
		t.Errorf("table size = %d, want 2", dt.Len())
	}
}

func TestJoin(t *testing.T) {
	header, rows := sampleSheet()
	recs := DecodeSheetToRecords(header, rows, nil)

	dist := BuildDistanceTable([]models.Record{
		{RaceName: "第60回県縦断駅伝", Section: "第1区", Distance: "5000m"},
	}, []string{"縦断駅伝"})
	temp := BuildTemperatureTable(
		[]string{"回", "第１区", "第２区", "第３区"},
		[][]string{{"60", "12.5", "", "13.0"}, {"x", "9"}},
	)

	joined := Join(recs, dist, temp)
	if len(joined) != len(recs) {
		t.Fatalf("join changed record count: %d vs %d", len(joined), len(recs))
	}

	first := joined[0] // 酒田市 #60 leg 1, 25:10
	if first.Ordinal != 1 || first.DistanceKm != "5km" || first.Temperature != "12.5" || first.Pace != "5:02" {
		t.Errorf("first joined = %+v", first)
	}
	third := joined[1] // 酒田市 #60 leg 3, no distance
	if third.DistanceKm != NotAvailable || third.Pace != NotAvailable || third.Temperature != "13.0" {
		t.Errorf("leg 3 joined = %+v", third)
	}
	last := joined[len(joined)-1] // edition 61, nothing known
	if last.DistanceKm != NotAvailable || last.Temperature != NotAvailable {
		t.Errorf("edition 61 should miss every table: %+v", last)
	}
}

func TestSortByRank(t *testing.T) {
	in := []models.LegacyCellRecord{
		{Name: "a", Rank: "2", Time: "10:00"},
		{Name: "b", Rank: "", Time: "9:00"},
		{Name: "c", Rank: "1", Time: "11:00"},
	}
	got := SortByRank(in, nil)
	if got[0].Name != "c" || got[1].Name != "a" || got[2].Name != "b" {
		t.Errorf("order = %s %s %s, want c a b", got[0].Name, got[1].Name, got[2].Name)
	}
	if in[0].Name != "a" {
		t.Error("SortByRank mutated its input")
	}

	ties := []models.LegacyCellRecord{{Name: "slow", Time: "9:00"}, {Name: "fast", Time: "10:00"}}
	if got := SortByRank(ties, records.DurationTime); got[0].Name != "slow" {
		t.Errorf("duration tie-break should put 9:00 first, got %s", got[0].Name)
	}
}

func TestSectionAverage(t *testing.T) {
	recs := []models.LegacyCellRecord{{Time: "3:09"}, {Time: "3:10"}, {Time: "bad"}}
	got, ok := SectionAverage(recs)
	if !ok || got != "3:09.5" {
		t.Errorf("SectionAverage = %q, %v; want 3:09.5", got, ok)
	}
	if _, ok := SectionAverage(nil); ok {
		t.Error("expected no average for empty input")
	}
}
