package system

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenNHP/opennhp/nhp/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// Windows console codepages that the IANA index does not know by number.
var codepages = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	20866: charmap.KOI8R,
	54936: simplifiedchinese.GB18030,
}

// LookupEncoding resolves a codepage name such as "gbk", "cp936", "936" or
// "windows-1252". A nil encoding with a nil error means the bytes are
// already UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf-8", "utf8":
		return nil, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc-kr":
		return korean.EUCKR, nil
	case "big5":
		return traditionalchinese.Big5, nil
	}

	number := strings.TrimPrefix(strings.TrimPrefix(n, "cp"), "windows-")
	if cp, err := strconv.Atoi(number); err == nil {
		if cp == 65001 {
			return nil, nil
		}
		if enc, ok := codepages[cp]; ok {
			return enc, nil
		}
		for _, alias := range []string{"cp" + number, "windows-" + number, "ibm" + number} {
			if enc, err := ianaindex.IANA.Encoding(alias); err == nil && enc != nil {
				return enc, nil
			}
		}
		return nil, fmt.Errorf("unsupported codepage %d", cp)
	}

	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := ianaindex.MIME.Encoding(n)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %s", name)
	}
	return enc, nil
}

// Decode converts command output to UTF-8. Unknown codepages and undecodable
// input are returned unchanged.
func Decode(data []byte, name string) string {
	enc, err := LookupEncoding(name)
	if err != nil {
		log.Warning("unknown output encoding %s, keeping raw bytes: %v", name, err)
		return string(data)
	}
	if enc == nil {
		return string(data)
	}
	utf8Str, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		log.Warning("decode output as %s fail, keeping raw bytes: %v", name, err)
		return string(data)
	}
	return string(utf8Str)
}
