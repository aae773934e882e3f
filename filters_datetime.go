package clipweave

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateInputLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
}

func parseDateValue(s string) (time.Time, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	for _, layout := range dateInputLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// dateTokenRe matches the longest known token first so "MMM" isn't split
// into "MM"+"M".
var dateTokenRe = regexp.MustCompile(`YYYY|MMM|MM|DD|HH|mm|ss|D`)

func formatDateToken(t time.Time, tok string) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "MMM":
		return t.Month().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	default:
		return tok
	}
}

// fDate formats or reformats a date using the day-based token set (§4.E
// "date"). On unparsable input it returns the input unchanged.
func fDate(carry filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s := carry.asString()
	t, ok := parseDateValue(s)
	if !ok {
		return carry
	}
	format := argString(pos, 0, "YYYY-MM-DD")
	out := dateTokenRe.ReplaceAllStringFunc(format, func(tok string) string {
		return formatDateToken(t, tok)
	})
	return stringCarry(out)
}

var dateModifyRe = regexp.MustCompile(`^([+-])\s*(\d+)\s*(year|month|week|day|hour|minute|second)s?$`)

// fDateModify adds a signed interval ("+N unit" | "-N unit") to a date.
func fDateModify(carry filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s := carry.asString()
	t, ok := parseDateValue(s)
	if !ok {
		return carry
	}
	spec := strings.TrimSpace(argString(pos, 0, ""))
	m := dateModifyRe.FindStringSubmatch(spec)
	if m == nil {
		return carry
	}
	n, _ := strconv.Atoi(m[2])
	if m[1] == "-" {
		n = -n
	}
	var out time.Time
	switch m[3] {
	case "year":
		out = t.AddDate(n, 0, 0)
	case "month":
		out = t.AddDate(0, n, 0)
	case "week":
		out = t.AddDate(0, 0, n*7)
	case "day":
		out = t.AddDate(0, 0, n)
	case "hour":
		out = t.Add(time.Duration(n) * time.Hour)
	case "minute":
		out = t.Add(time.Duration(n) * time.Minute)
	case "second":
		out = t.Add(time.Duration(n) * time.Second)
	default:
		return carry
	}
	return stringCarry(out.Format(time.RFC3339))
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// fDuration accepts an ISO 8601 duration or a number of seconds and
// produces H:mm:ss output.
func fDuration(carry filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s := strings.TrimSpace(carry.asString())
	var totalSeconds int
	if m := isoDurationRe.FindStringSubmatch(s); m != nil && s != "" {
		days, _ := strconv.Atoi(valueOrZero(m[1]))
		hours, _ := strconv.Atoi(valueOrZero(m[2]))
		minutes, _ := strconv.Atoi(valueOrZero(m[3]))
		secs, _ := strconv.ParseFloat(valueOrZero(m[4]), 64)
		totalSeconds = days*86400 + hours*3600 + minutes*60 + int(secs)
	} else if f, err := strconv.ParseFloat(s, 64); err == nil {
		totalSeconds = int(f)
	} else {
		return carry
	}
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	sec := totalSeconds % 60
	return stringCarry(fmt.Sprintf("%d:%02d:%02d", h, m, sec))
}

func valueOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
