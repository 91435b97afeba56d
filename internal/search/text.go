package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/franz/tapevault/internal/store"
)

// ShowText synthesizes the text indexed for one show: the ISO date, short
// date renderings with the punctuation users actually type, year and
// decade, venue and location (state in both forms), members and songs.
// Computed once at import; the index never re-derives it.
func ShowText(sh *store.Show) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(sh.Date)
	for _, v := range dateVariants(sh.Date) {
		add(v)
	}
	if sh.Year > 0 {
		add(fmt.Sprintf("%d", sh.Year))
		add(fmt.Sprintf("%ds", sh.Year/10*10))
	}

	add(cleanField(sh.Venue))
	if sh.VenueFull != "" && !strings.EqualFold(sh.VenueFull, sh.Venue) {
		add(cleanField(sh.VenueFull))
	}
	add(cleanField(sh.City))
	add(sh.State)
	if long, ok := stateNames[strings.ToUpper(sh.State)]; ok {
		add(long)
	}
	add(cleanField(sh.Country))

	add(cleanField(sh.MemberNames))
	add(cleanField(sh.SongNames))

	return strings.Join(parts, " ")
}

// dateVariants renders an ISO date the ways people type it in a search
// box: "5-8-77", "5/8/77", "5.8.77". Month and day lose their leading
// zeros, the year keeps its last two digits.
func dateVariants(isoDate string) []string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return nil
	}

	m, d, yy := int(t.Month()), t.Day(), t.Year()%100
	return []string{
		fmt.Sprintf("%d-%d-%02d", m, d, yy),
		fmt.Sprintf("%d/%d/%02d", m, d, yy),
		fmt.Sprintf("%d.%d.%02d", m, d, yy),
	}
}

// cleanField strips the punctuation the whitespace tokenizer would
// otherwise glue onto tokens. Hyphens, dots and slashes stay; they are
// token-internal on purpose (date renderings, "Cornell U.").
func cleanField(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ',', ';', ':', '(', ')', '[', ']', '"', '\'', '!', '?', '&', '\n':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
