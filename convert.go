package id3

import (
	"fmt"
	"strconv"
	"strings"
)

// v22IDs maps every three character v2.2 frame ID to its four
// character v2.3/v2.4 equivalent. IDs absent here stay Unknown and are
// only written when the output version matches their origin.
var v22IDs = map[string]string{
	"BUF": "RBUF",
	"CNT": "PCNT",
	"COM": "COMM",
	"CRA": "AENC",
	"EQU": "EQUA",
	"ETC": "ETCO",
	"GEO": "GEOB",
	"IPL": "IPLS",
	"LNK": "LINK",
	"MCI": "MCDI",
	"MLL": "MLLT",
	"PIC": "APIC",
	"POP": "POPM",
	"REV": "RVRB",
	"RVA": "RVAD",
	"SLT": "SYLT",
	"STC": "SYTC",
	"TAL": "TALB",
	"TBP": "TBPM",
	"TCM": "TCOM",
	"TCO": "TCON",
	"TCP": "TCMP",
	"TCR": "TCOP",
	"TDA": "TDAT",
	"TDY": "TDLY",
	"TEN": "TENC",
	"TFT": "TFLT",
	"TIM": "TIME",
	"TKE": "TKEY",
	"TLA": "TLAN",
	"TLE": "TLEN",
	"TMT": "TMED",
	"TOA": "TOPE",
	"TOF": "TOFN",
	"TOL": "TOLY",
	"TOR": "TORY",
	"TOT": "TOAL",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TP3": "TPE3",
	"TP4": "TPE4",
	"TPA": "TPOS",
	"TPB": "TPUB",
	"TRC": "TSRC",
	"TRD": "TRDA",
	"TRK": "TRCK",
	"TSI": "TSIZ",
	"TSS": "TSSE",
	"TT1": "TIT1",
	"TT2": "TIT2",
	"TT3": "TIT3",
	"TXT": "TEXT",
	"TXX": "TXXX",
	"TYE": "TYER",
	"UFI": "UFID",
	"ULT": "USLT",
	"WAF": "WOAF",
	"WAR": "WOAR",
	"WAS": "WOAS",
	"WCM": "WCOM",
	"WCP": "WCOP",
	"WPB": "WPUB",
	"WXX": "WXXX",
}

var v23IDs = make(map[string]string, len(v22IDs))

func init() {
	for short, long := range v22IDs {
		v23IDs[long] = short
	}
}

// upgradeID converts a v2.2 frame ID to its canonical four character
// form.
func upgradeID(id string) (string, bool) {
	long, ok := v22IDs[id]
	return long, ok
}

// downgradeID converts a canonical frame ID to its v2.2 form.
func downgradeID(id string) (string, bool) {
	short, ok := v23IDs[id]
	return short, ok
}

// timestamp is the ISO-8601 subset carried by the v2.4 date frames:
// yyyy[-MM[-dd[THH[:mm[:ss]]]]].
type timestamp struct {
	year, month, day, hour, minute int
	hasDate, hasTime               bool
}

func parseTimestamp(s string) (timestamp, bool) {
	var ts timestamp

	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return ts, false
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return ts, false
	}

	ts.year = year

	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		month, merr := strconv.Atoi(s[5:7])
		day, derr := strconv.Atoi(s[8:10])

		if merr == nil && derr == nil {
			ts.month, ts.day, ts.hasDate = month, day, true
		}
	}

	if ts.hasDate && len(s) >= 16 && s[10] == 'T' && s[13] == ':' {
		hour, herr := strconv.Atoi(s[11:13])
		minute, merr := strconv.Atoi(s[14:16])

		if herr == nil && merr == nil {
			ts.hour, ts.minute, ts.hasTime = hour, minute, true
		}
	}

	return ts, true
}

// splitRecordingTime lowers a v2.4 TDRC value to the v2.3 calendar
// frames. TDAT and TIME come back empty when the timestamp does not
// carry them.
func splitRecordingTime(tdrc string) (tyer, tdat, time string) {
	ts, ok := parseTimestamp(tdrc)
	if !ok {
		return tdrc, "", ""
	}

	tyer = fmt.Sprintf("%04d", ts.year)

	if ts.hasDate {
		tdat = fmt.Sprintf("%02d%02d", ts.day, ts.month)
	}

	if ts.hasTime {
		time = fmt.Sprintf("%02d%02d", ts.hour, ts.minute)
	}

	return tyer, tdat, time
}

// joinRecordingTime raises the v2.3 calendar frames to a v2.4 TDRC
// value.
func joinRecordingTime(tyer, tdat, time string) string {
	tyer = strings.TrimSpace(tyer)
	if tyer == "" {
		return ""
	}

	out := tyer

	if len(tdat) == 4 {
		day, derr := strconv.Atoi(tdat[:2])
		month, merr := strconv.Atoi(tdat[2:])

		if derr == nil && merr == nil {
			out += fmt.Sprintf("-%02d-%02d", month, day)

			if len(time) == 4 {
				hour, herr := strconv.Atoi(time[:2])
				minute, mmerr := strconv.Atoi(time[2:])

				if herr == nil && mmerr == nil {
					out += fmt.Sprintf("T%02d:%02d", hour, minute)
				}
			}
		}
	}

	return out
}

// slashJoinedIDs are the text frames whose multiple values are joined
// by "/" on the wire before v2.4 and split on read.
var slashJoinedIDs = map[string]bool{
	"TPE1": true,
	"TOPE": true,
	"TCOM": true,
	"TEXT": true,
	"TOLY": true,
	"TLAN": true,
}
