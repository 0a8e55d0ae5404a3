package metadata

import "strings"

var strftimeVerbs = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'Z': "MST",
	'z': "-0700",
	'F': "2006-01-02",
	'T': "15:04:05",
	'R': "15:04",
	'%': "%",
}

// goLayout converts a strftime-style format into a time.Format layout.
// Unknown verbs are copied through literally.
func goLayout(format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		if layout, ok := strftimeVerbs[format[i]]; ok {
			b.WriteString(layout)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(format[i])
	}
	return b.String()
}
