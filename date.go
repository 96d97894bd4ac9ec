// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for ISO 8601 date strings. A time of day is required.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00", // also matches fractional seconds
	"2006-01-02T15:04:05",
}

// parseDate reports whether s has the form of a date, and if so returns the
// time it denotes converted according to h. Two forms are recognized: ISO
// 8601 timestamps, and the "/Date(ms[+-HHMM])/" form carrying milliseconds
// since the Unix epoch and an optional zone offset.
func parseDate(s string, h DateParseHandling) (time.Time, bool) {
	var t time.Time
	if rest, ok := strings.CutPrefix(s, "/Date("); ok {
		body, ok := strings.CutSuffix(rest, ")/")
		if !ok {
			return t, false
		}
		t, ok = parseMSDate(body)
		if !ok {
			return t, false
		}
	} else {
		if len(s) < 19 || s[4] != '-' || s[7] != '-' || s[10] != 'T' {
			return t, false
		}
		var err error
		for _, layout := range isoLayouts {
			t, err = time.Parse(layout, s)
			if err == nil {
				break
			}
		}
		if err != nil {
			return t, false
		}
	}
	if h == DateParseDateTime {
		t = t.UTC()
	}
	return t, true
}

// parseMSDate parses the body of a "/Date(...)/" string.
func parseMSDate(s string) (time.Time, bool) {
	ms, zone := s, ""
	if i := strings.LastIndexAny(s, "+-"); i > 0 {
		ms, zone = s[:i], s[i:]
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	t := time.UnixMilli(n).UTC()
	if zone == "" {
		return t, true
	}
	if len(zone) != 5 {
		return time.Time{}, false
	}
	hh, err1 := strconv.Atoi(zone[1:3])
	mm, err2 := strconv.Atoi(zone[3:5])
	if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
		return time.Time{}, false
	}
	off := hh*3600 + mm*60
	if zone[0] == '-' {
		off = -off
	}
	return t.In(time.FixedZone("", off)), true
}

// formatMSDate renders t in the "\/Date(ms[+-HHMM])\/" form, omitting the
// zone offset for UTC times.
func formatMSDate(buf []byte, t time.Time) []byte {
	buf = append(buf, `\/Date(`...)
	buf = strconv.AppendInt(buf, t.UnixMilli(), 10)
	if _, off := t.Zone(); off != 0 || t.Location() != time.UTC {
		sign := byte('+')
		if off < 0 {
			sign, off = '-', -off
		}
		buf = append(buf, sign)
		buf = appendPad2(buf, off/3600)
		buf = appendPad2(buf, (off%3600)/60)
	}
	return append(buf, `)\/`...)
}

func appendPad2(buf []byte, n int) []byte {
	return append(buf, byte('0'+n/10), byte('0'+n%10))
}
