package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// View derivation. Everything here is a pure function of (snapshot,
// transient UI state): re-runnable at any time, byte-identical output for
// identical input.

type StatsView struct {
	StudentCount int
	LessonCount  int
	TotalRevenue float64
	PendingCount int
	RevenueLabel string
}

// Stats derives the dashboard stat cards. A student is pending iff no
// lesson references their code.
func (s Snapshot) Stats() StatsView {
	var revenue float64
	for _, p := range s.Payments {
		revenue += p.Amount
	}

	withLessons := s.codesWithLessons()
	var pending int
	for _, st := range s.Students {
		if !withLessons[st.Code] {
			pending++
		}
	}

	return StatsView{
		StudentCount: len(s.Students),
		LessonCount:  len(s.Lessons),
		TotalRevenue: revenue,
		PendingCount: pending,
		RevenueLabel: FormatNaira(revenue),
	}
}

type StudentRow struct {
	Student
	Pending   bool
	DateLabel string
}

// ListQuery is the transient UI state the student list depends on.
type ListQuery struct {
	School string // SchoolAll or an exact school value
	Search string // matched case-insensitively against Name or Code
}

// StudentList filters by school, then by search, then sorts by CreatedAt
// descending (newest first). Missing or unparseable dates sort as earliest;
// equal timestamps keep their original relative order.
func (s Snapshot) StudentList(q ListQuery) []StudentRow {
	withLessons := s.codesWithLessons()
	query := strings.ToLower(strings.TrimSpace(q.Search))

	rows := make([]StudentRow, 0, len(s.Students))
	for _, st := range s.Students {
		if q.School != "" && q.School != SchoolAll && st.School != q.School {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(st.Name), query) &&
			!strings.Contains(strings.ToLower(st.Code), query) {
			continue
		}
		rows = append(rows, StudentRow{
			Student:   st,
			Pending:   !withLessons[st.Code],
			DateLabel: FormatShortDate(st.CreatedAt),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ti, _ := parseWhen(rows[i].CreatedAt)
		tj, _ := parseWhen(rows[j].CreatedAt)
		return ti.After(tj)
	})
	return rows
}

type ReferrerRow struct {
	CodeName    string
	FullName    string
	Referred    int
	Earned      float64
	PaidOut     float64
	Outstanding float64
	OwedLabel   string // "₦500 owed", or "—" when nothing is owed
}

// ReferrerLeaderboard counts referred students per referrer (exact match on
// the stored Referrer field), derives earnings at RewardPerReferral apiece
// and sorts by referred count descending, ties in original order.
// Outstanding may be negative; the label then shows "—", never a negative
// amount.
func (s Snapshot) ReferrerLeaderboard() []ReferrerRow {
	rows := make([]ReferrerRow, 0, len(s.Referrers))
	for _, r := range s.Referrers {
		var count int
		for _, st := range s.Students {
			if st.Referrer == r.CodeName {
				count++
			}
		}
		earned := float64(count * RewardPerReferral)
		outstanding := earned - r.TotalPaidOut

		owed := "—"
		if outstanding > 0 {
			owed = FormatNaira(outstanding) + " owed"
		}
		rows = append(rows, ReferrerRow{
			CodeName:    r.CodeName,
			FullName:    r.FullName,
			Referred:    count,
			Earned:      earned,
			PaidOut:     r.TotalPaidOut,
			Outstanding: outstanding,
			OwedLabel:   owed,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Referred > rows[j].Referred })
	return rows
}

type StudentDetail struct {
	Student
	Lessons      []Lesson
	Payments     []Payment
	TotalPaid    float64
	WhatsAppLink string // empty when the student has no phone
}

// Detail joins one student to their lessons and payments. ok=false when the
// code matches no student in the snapshot.
func (s Snapshot) Detail(code string) (StudentDetail, bool) {
	st, found := s.FindStudent(code)
	if !found {
		return StudentDetail{}, false
	}

	d := StudentDetail{Student: st, WhatsAppLink: WhatsAppLink(st.Phone)}
	for _, l := range s.Lessons {
		if l.StudentCode == code {
			d.Lessons = append(d.Lessons, l)
		}
	}
	for _, p := range s.Payments {
		if p.StudentCode == code {
			d.Payments = append(d.Payments, p)
			d.TotalPaid += p.Amount
		}
	}
	return d, true
}

// WhatsAppLink derives a wa.me link from a local-format phone number: a
// leading "0" becomes the "234" country prefix, then non-digits are
// stripped. Empty phone means no link.
func WhatsAppLink(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, "0") {
		phone = "234" + phone[1:]
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String()
}

// FormatNaira renders an amount as "₦1,200" with en-NG thousands grouping.
func FormatNaira(amount float64) string {
	return "₦" + FormatNumber(amount)
}

func FormatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatShortDate renders a sheet timestamp as "Jan 2"; unparseable values
// come back verbatim.
func FormatShortDate(when string) string {
	if when == "" {
		return ""
	}
	t, ok := parseWhen(when)
	if !ok {
		return when
	}
	return t.Format("Jan 2")
}
