package tgbot

import (
	"fmt"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
)

func helpText(admin bool) string {
	var b strings.Builder
	b.WriteString("🏃 駅伝部 記録ボット\n")
	b.WriteString("/players 選手一覧\n")
	b.WriteString("/pb <選手ID> 自己ベスト\n")
	b.WriteString("/races 大会一覧\n")
	b.WriteString("/section <大会名> | <区間> 区間結果\n")
	b.WriteString("/pace <タイム> <距離> ペース計算 (例: /pace 15:30 5km)\n")
	if admin {
		b.WriteString("\n🛠 管理者\n/flush キャッシュ削除\n/export CSVリンク\n")
	}
	return b.String()
}

func playersText(players []models.Player) string {
	if len(players) == 0 {
		return "選手が登録されていません。"
	}
	var b strings.Builder
	b.WriteString("👥 選手一覧\n")
	for _, p := range players {
		fmt.Fprintf(&b, "%s. %s", p.ID, p.Name)
		if p.Group != "" {
			fmt.Fprintf(&b, " (%s)", p.Group)
		}
		if p.Best5000m != "" {
			fmt.Fprintf(&b, " 5000m %s", p.Best5000m)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func bestsText(name string, bests []records.EventBest) string {
	if len(bests) == 0 {
		return name + " の記録はまだありません。"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏅 %s の自己ベスト\n", name)
	for _, pb := range bests {
		fmt.Fprintf(&b, "%s: %s", pb.Event, pb.Time)
		if pb.Date != "" {
			fmt.Fprintf(&b, " (%s)", pb.Date)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func racesText(races []records.RaceSummary) string {
	if len(races) == 0 {
		return "大会記録はまだありません。"
	}
	var b strings.Builder
	b.WriteString("🏁 大会一覧\n")
	for i, r := range races {
		fmt.Fprintf(&b, "%d. %s %s", i+1, r.Date, r.RaceName)
		if r.RaceType != "" {
			fmt.Fprintf(&b, " [%s]", r.RaceType)
		}
		fmt.Fprintf(&b, " %d名\n", len(r.Participants))
	}
	return b.String()
}

// raceText lists each section of a race with its fastest-ranked runner.
func raceText(race records.RaceSummary, cmp records.TimeCompare) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 %s (%s)\n", race.RaceName, race.Date)
	var sections []string
	seen := map[string]bool{}
	for _, r := range race.Records {
		if r.Section == "" || seen[r.Section] {
			continue
		}
		seen[r.Section] = true
		sections = append(sections, r.Section)
	}
	if len(sections) == 0 {
		fmt.Fprintf(&b, "参加者: %s\n", strings.Join(race.Participants, "、"))
		return b.String()
	}
	for _, s := range sections {
		res := records.SectionResultsWith(race.Records, race.RaceName, s, cmp)
		if len(res.Records) == 0 {
			continue
		}
		top := res.Records[0]
		fmt.Fprintf(&b, "%s: %s %s", s, top.PlayerName, top.Time)
		if top.Rank != "" {
			fmt.Fprintf(&b, " (%s位)", top.Rank)
		}
		if len(res.Records) > 1 {
			fmt.Fprintf(&b, " ほか%d名", len(res.Records)-1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sectionText(res records.SectionResult) string {
	if len(res.Records) == 0 {
		return fmt.Sprintf("%s %s の記録はありません。", res.RaceName, res.Section)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s %s\n", res.RaceName, res.Section)
	times := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		rank := "-"
		if r.Rank != "" {
			rank = r.Rank
		}
		fmt.Fprintf(&b, "%s位 %s %s", rank, r.PlayerName, r.Time)
		if p, ok := calc.CalcPace(r.Time, r.Distance); ok {
			fmt.Fprintf(&b, " (%s/km)", p)
		}
		b.WriteString("\n")
		times = append(times, r.Time)
	}
	if avg, ok := calc.AverageSeconds(times); ok {
		if s, ok := calc.CalcAvgTimeDisplay(avg); ok {
			fmt.Fprintf(&b, "平均 %s\n", s)
		}
	}
	return b.String()
}

func paceText(timeStr, distance string) string {
	p, ok := calc.CalcPace(timeStr, distance)
	if !ok {
		return "計算できません。例: /pace 15:30 5km"
	}
	km, _ := calc.ParseDistanceKm(distance)
	return fmt.Sprintf("⏱ %s / %gkm → %s/km", timeStr, km, p)
}

// parseSectionArgs splits "<race> | <section>".
func parseSectionArgs(args string) (race, section string, ok bool) {
	race, section, found := strings.Cut(args, "|")
	if !found {
		return "", "", false
	}
	race, section = strings.TrimSpace(race), strings.TrimSpace(section)
	return race, section, race != "" && section != ""
}

// fillNames sets PlayerName from names where the record lacks one.
func fillNames(recs []models.Record, names map[string]string) []models.Record {
	out := make([]models.Record, len(recs))
	for i, r := range recs {
		if r.PlayerName == "" {
			r.PlayerName = names[r.PlayerID]
		}
		out[i] = r
	}
	return out
}
