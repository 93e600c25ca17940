package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIDTable(t *testing.T) {
	tests := []struct {
		short, long string
	}{
		{"TT2", "TIT2"},
		{"PIC", "APIC"},
		{"ULT", "USLT"},
		{"COM", "COMM"},
		{"TXX", "TXXX"},
		{"WXX", "WXXX"},
		{"SLT", "SYLT"},
		{"GEO", "GEOB"},
		{"POP", "POPM"},
		{"MLL", "MLLT"},
		{"TYE", "TYER"},
		{"TP1", "TPE1"},
	}

	for _, tt := range tests {
		long, ok := upgradeID(tt.short)
		require.True(t, ok, tt.short)
		assert.Equal(t, tt.long, long)

		short, ok := downgradeID(tt.long)
		require.True(t, ok, tt.long)
		assert.Equal(t, tt.short, short)
	}

	_, ok := upgradeID("ZZZ")
	assert.False(t, ok)

	_, ok = downgradeID("CHAP")
	assert.False(t, ok)
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := parseTimestamp("1994")
	require.True(t, ok)
	assert.Equal(t, 1994, ts.year)
	assert.False(t, ts.hasDate)

	ts, ok = parseTimestamp("2004-06-03")
	require.True(t, ok)
	assert.True(t, ts.hasDate)
	assert.Equal(t, 6, ts.month)
	assert.Equal(t, 3, ts.day)
	assert.False(t, ts.hasTime)

	ts, ok = parseTimestamp("2004-06-03T14:05")
	require.True(t, ok)
	assert.True(t, ts.hasTime)
	assert.Equal(t, 14, ts.hour)
	assert.Equal(t, 5, ts.minute)

	_, ok = parseTimestamp("xyz")
	assert.False(t, ok)
}

func TestSplitRecordingTime(t *testing.T) {
	tyer, tdat, tim := splitRecordingTime("2004-06-03T14:05")
	assert.Equal(t, "2004", tyer)
	assert.Equal(t, "0306", tdat)
	assert.Equal(t, "1405", tim)

	tyer, tdat, tim = splitRecordingTime("2004")
	assert.Equal(t, "2004", tyer)
	assert.Empty(t, tdat)
	assert.Empty(t, tim)
}

func TestJoinRecordingTime(t *testing.T) {
	assert.Equal(t, "2004-06-03T14:05", joinRecordingTime("2004", "0306", "1405"))
	assert.Equal(t, "2004-06-03", joinRecordingTime("2004", "0306", ""))
	assert.Equal(t, "2004", joinRecordingTime("2004", "", ""))
	assert.Empty(t, joinRecordingTime("", "0306", "1405"))
}

func TestConvertFramesLowersRecordingTime(t *testing.T) {
	tag := NewTag()
	tag.SetTextFrame("TDRC", "2004-06-03T14:05")
	tag.SetTitle("x")

	out := convertFrames(tag.Frames(), Version23, zap.NewNop())

	byID := map[string]string{}
	for _, f := range out {
		if text, ok := f.Content.(Text); ok {
			byID[f.ID] = text.Text
		}
	}

	assert.NotContains(t, byID, "TDRC")
	assert.Equal(t, "2004", byID["TYER"])
	assert.Equal(t, "0306", byID["TDAT"])
	assert.Equal(t, "1405", byID["TIME"])
	assert.Equal(t, "x", byID["TIT2"])
}

func TestConvertFramesRaisesRecordingTime(t *testing.T) {
	tag := NewTag()
	tag.SetTextFrame("TYER", "2004")
	tag.SetTextFrame("TDAT", "0306")
	tag.SetTextFrame("TIME", "1405")

	out := convertFrames(tag.Frames(), Version24, zap.NewNop())

	require.Len(t, out, 1)
	assert.Equal(t, "TDRC", out[0].ID)
	assert.Equal(t, Text{Text: "2004-06-03T14:05"}, out[0].Content)
}

func TestConvertFramesKeepsExistingRecordingTime(t *testing.T) {
	tag := NewTag()
	tag.SetTextFrame("TDRC", "1999")
	tag.SetTextFrame("TYER", "2004")

	out := convertFrames(tag.Frames(), Version24, zap.NewNop())

	require.Len(t, out, 1)
	assert.Equal(t, "TDRC", out[0].ID)
	assert.Equal(t, Text{Text: "1999"}, out[0].Content)
}

// Round trip through v2.3 and back keeps the timestamp.
func TestRecordingTimeRoundTrip(t *testing.T) {
	tag := NewTag()
	tag.SetTextFrame("TDRC", "2004-06-03")

	block, err := encodeTag(tag, Version23, Options{})
	require.NoError(t, err)

	v23Tag, err := decodeTag(block, Options{})
	require.NoError(t, err)
	assert.Equal(t, "2004", v23Tag.TextFrame("TYER"))
	assert.Equal(t, "0306", v23Tag.TextFrame("TDAT"))

	block, err = encodeTag(v23Tag, Version24, Options{})
	require.NoError(t, err)

	v24Tag, err := decodeTag(block, Options{})
	require.NoError(t, err)
	assert.Equal(t, "2004-06-03", v24Tag.TextFrame("TDRC"))
}
