package legacy

import (
	"regexp"
	"strconv"
	"strings"

	"ekiden-club/internal/models"
)

// CellFields is the number of underscore separated fields in a packed cell.
const CellFields = 6

// Stats counts what DecodeSheet saw; malformed cells are skipped, not reported
// as errors.
type Stats struct {
	Cells   int
	Decoded int
	Skipped int
}

var fullWidthDigits = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
)

var (
	digitsRe  = regexp.MustCompile(`\d+`)
	editionRe = regexp.MustCompile(`(\d+)\s*回`)
)

// DecodeCell unpacks "name_yearOfBirth_alphabetName_affiliation_rank_time".
// Fields past the sixth are ignored.
func DecodeCell(cell string) (models.LegacyCellRecord, bool) {
	parts := strings.Split(strings.TrimSpace(cell), "_")
	if len(parts) < CellFields {
		return models.LegacyCellRecord{}, false
	}
	for i := range parts[:CellFields] {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return models.LegacyCellRecord{
		Name:         parts[0],
		YearOfBirth:  parts[1],
		AlphabetName: parts[2],
		Affiliation:  parts[3],
		Rank:         parts[4],
		Time:         parts[5],
	}, true
}

// DecodeSheet decodes a historical relay sheet. The header maps columns to
// section labels; each row starts with the team name and edition number.
// keep may be nil.
func DecodeSheet(header []string, rows [][]string, keep func(models.LegacyCellRecord) bool) ([]models.LegacyCellRecord, Stats) {
	var out []models.LegacyCellRecord
	var st Stats
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		team := strings.TrimSpace(row[0])
		edition := strings.TrimSpace(row[1])
		for j := 2; j < len(row); j++ {
			cell := strings.TrimSpace(row[j])
			if cell == "" {
				continue
			}
			st.Cells++
			rec, ok := DecodeCell(cell)
			if !ok {
				st.Skipped++
				continue
			}
			st.Decoded++
			rec.Team = team
			rec.Edition = edition
			if j < len(header) {
				rec.Section = strings.TrimSpace(header[j])
			}
			if keep != nil && !keep(rec) {
				continue
			}
			out = append(out, rec)
		}
	}
	return out, st
}

// DecodeSheetToRecords is DecodeSheet without the diagnostics.
func DecodeSheetToRecords(header []string, rows [][]string, keep func(models.LegacyCellRecord) bool) []models.LegacyCellRecord {
	out, _ := DecodeSheet(header, rows, keep)
	return out
}

// SectionOrdinal extracts the leg number from a label like "第１区遊佐～酒田".
func SectionOrdinal(label string) (int, bool) {
	m := digitsRe.FindString(fullWidthDigits.Replace(label))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EditionNumber reads "第６０回…", "60回" or a bare "60". A number followed by
// 回 wins over any earlier digits such as a year.
func EditionNumber(s string) (int, bool) {
	s = fullWidthDigits.Replace(s)
	if m := editionRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Filter helpers for DecodeSheet.

func ByTeam(team string) func(models.LegacyCellRecord) bool {
	return func(r models.LegacyCellRecord) bool { return r.Team == team }
}

func ByEdition(edition int) func(models.LegacyCellRecord) bool {
	return func(r models.LegacyCellRecord) bool {
		n, ok := EditionNumber(r.Edition)
		return ok && n == edition
	}
}

func BySection(ordinal int) func(models.LegacyCellRecord) bool {
	return func(r models.LegacyCellRecord) bool {
		n, ok := SectionOrdinal(r.Section)
		return ok && n == ordinal
	}
}

// All combines filters; nil filters are ignored.
func All(fs ...func(models.LegacyCellRecord) bool) func(models.LegacyCellRecord) bool {
	return func(r models.LegacyCellRecord) bool {
		for _, f := range fs {
			if f != nil && !f(r) {
				return false
			}
		}
		return true
	}
}
