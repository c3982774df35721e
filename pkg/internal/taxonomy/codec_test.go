package taxonomy_test

import (
	"testing"

	"github.com/yeisme/docvault/pkg/internal/taxonomy"
)

// TestEncodeDecodeRoundTrip 验证不含分隔符的分类/品牌往返无损（分类裁剪空白）.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		category string
		brand    string
		wantCat  string
	}{
		{"simple", "HVAC", "Daikin", "HVAC"},
		{"trailing space drift", "HVAC ", "Carrier", "HVAC"},
		{"accented", "Esquemas Elétricos", "LG", "Esquemas Elétricos"},
		{"empty brand", "Guias Rápido", "", "Guias Rápido"},
		{"brand with spaces", "Linha Branca", "Midea Carrier", "Linha Branca"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := taxonomy.Encode(tc.category, tc.brand, "")

			entry, ok := taxonomy.Decode(encoded)
			if !ok {
				t.Fatalf("Decode(%q) failed", encoded)
			}

			if entry.Category != tc.wantCat {
				t.Errorf("category = %q, want %q", entry.Category, tc.wantCat)
			}

			if entry.Brand != tc.brand {
				t.Errorf("brand = %q, want %q", entry.Brand, tc.brand)
			}
		})
	}
}

// TestEncodeWithNotes 验证备注段的编码与解码.
func TestEncodeWithNotes(t *testing.T) {
	encoded := taxonomy.Encode("HVAC", "Daikin", "manual de instalação")

	if encoded != "Cat:HVAC|Daikin - manual de instalação" {
		t.Fatalf("unexpected encoding: %q", encoded)
	}

	entry, ok := taxonomy.Decode(encoded)
	if !ok {
		t.Fatal("Decode failed")
	}

	if entry.Brand != "Daikin" {
		t.Errorf("brand = %q, want Daikin", entry.Brand)
	}

	if entry.Notes != "manual de instalação" {
		t.Errorf("notes = %q", entry.Notes)
	}
}

// TestDecodeFallback 不携带编码前缀的描述应返回 false，调用方回退遗留列.
func TestDecodeFallback(t *testing.T) {
	for _, s := range []string{
		"",
		"manual antigo sem estrutura",
		"Cat:|Daikin",  // 空分类
		"Category:HVAC", // 错误前缀
	} {
		if _, ok := taxonomy.Decode(s); ok {
			t.Errorf("Decode(%q) = ok, want fallback", s)
		}
	}
}

// TestDecodeDriftedCategory 历史数据的尾部空格形态必须解码为同一分类.
func TestDecodeDriftedCategory(t *testing.T) {
	a, _ := taxonomy.Decode("Cat:HVAC|Daikin")
	b, _ := taxonomy.Decode("Cat:HVAC |Carrier")

	if a.Category != b.Category {
		t.Errorf("drifted category mismatch: %q vs %q", a.Category, b.Category)
	}
}

// TestLikePatterns 验证 LIKE 模式覆盖两种形态且转义通配符.
func TestLikePatterns(t *testing.T) {
	exact, drifted := taxonomy.LikePatterns("HVAC")

	if exact != "Cat:HVAC|%" {
		t.Errorf("exact = %q", exact)
	}

	if drifted != "Cat:HVAC |%" {
		t.Errorf("drifted = %q", drifted)
	}

	exact, _ = taxonomy.LikePatterns("100%_cotton")
	if exact != `Cat:100\%\_cotton|%` {
		t.Errorf("escaped = %q", exact)
	}
}
