package unit

import "testing"

func TestLexKinds(t *testing.T) {
	tests := []struct {
		input string
		want  []tokenKind
	}{
		{"m", []tokenKind{tokIdent, tokEOF}},
		{"m/s", []tokenKind{tokIdent, tokSlash, tokIdent, tokEOF}},
		{"kg*m/s**2", []tokenKind{tokIdent, tokStar, tokIdent, tokSlash, tokIdent, tokDStar, tokNumber, tokEOF}},
		{"(kg m)/(s^2)", []tokenKind{
			tokLParen, tokIdent, tokStar, tokIdent, tokRParen,
			tokSlash, tokLParen, tokIdent, tokCaret, tokNumber, tokRParen, tokEOF,
		}},
		{"1.0e-26 W", []tokenKind{tokNumber, tokStar, tokIdent, tokEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := lex(tt.input)
			if err != nil {
				t.Fatalf("lex(%q) error: %v", tt.input, err)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("lex(%q) got %d tokens, want %d: %+v", tt.input, len(toks), len(tt.want), toks)
			}
			for i, tok := range toks {
				if tok.kind != tt.want[i] {
					t.Errorf("lex(%q) token[%d] = %v, want %v", tt.input, i, tok.kind, tt.want[i])
				}
			}
		})
	}
}

func TestCollapseImplicitMultDropsEdgeWhitespace(t *testing.T) {
	toks, err := lex(" m / s ")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	want := []tokenKind{tokIdent, tokSlash, tokIdent, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
}

func TestCleanExpTrimsOnly(t *testing.T) {
	if got := cleanExp("  km/h  "); got != "km/h" {
		t.Errorf("cleanExp = %q, want %q", got, "km/h")
	}
}
