package reader

import (
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeText(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("你好，世界")
	if err != nil {
		t.Fatalf("encode GBK: %v", err)
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("hi")
	if err != nil {
		t.Fatalf("encode UTF-16: %v", err)
	}

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("plain ascii"), "plain ascii"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "bom"...), "bom"},
		{"utf8 multibyte", []byte("café"), "café"},
		{"gbk", []byte(gbk), "你好，世界"},
		{"utf16 le bom", []byte(utf16), "hi"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeText(tt.in); got != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}
