package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/diag"
	"github.com/dhamidi/docscript/directive"
	"github.com/dhamidi/docscript/lexer"
)

func listing(p *codegen.Program) []string {
	out := make([]string, len(p.Instructions))
	for i, in := range p.Instructions {
		out[i] = in.String()
	}
	return out
}

func endsWithFileEnvelope(p *codegen.Program) bool {
	n := len(p.Instructions)
	if n < 4 || p.Instructions[0].Op != codegen.OpPushReturnSlot || p.Instructions[1].Op != codegen.OpEnterFrame {
		return false
	}
	last, invoke := p.Instructions[n-1], p.Instructions[n-2]
	return last.Op == codegen.OpExitFrame && invoke.Op == codegen.OpInvoke && invoke.Name == codegen.FuncFile
}

func TestUnterminatedQuote(t *testing.T) {
	res := Bytes("quote.ds", []byte("'abc"))

	if !endsWithFileEnvelope(res.Program) {
		t.Errorf("program does not end in the file envelope:\n%s", codegen.Disassemble(res.Program))
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Severity != diag.Warning {
		t.Fatalf("Diagnostics = %v, want one warning", res.Diagnostics)
	}
	if d := res.Diagnostics[0]; d.File != "quote.ds" || d.Line != 1 {
		t.Errorf("diagnostic = %+v, want quote.ds line 1", d)
	}
	if res.HasErrors() {
		t.Error("HasErrors() = true for a warning")
	}
}

func TestHeadingProgram(t *testing.T) {
	res := Bytes("h.ds", []byte(".h1(Title)\n\nSome 12 words."))
	want := []string{
		"PUSH_RETURN_SLOT", "ENTER_FRAME",
		"PUSH_RETURN_SLOT", "ENTER_FRAME",
		"PUSH_RETURN_SLOT", "ENTER_FRAME", `PUSH_STRING "Title"`, "INVOKE convert.alpha 1", "EXIT_FRAME",
		"INVOKE h1 1", "EXIT_FRAME",
		"PUSH_RETURN_SLOT", "ENTER_FRAME",
		"PUSH_RETURN_SLOT", "ENTER_FRAME", `PUSH_STRING "Some"`, "INVOKE convert.alpha 1", "EXIT_FRAME",
		"PUSH_UINT 12",
		"PUSH_RETURN_SLOT", "ENTER_FRAME", `PUSH_STRING "words."`, "INVOKE convert.alpha 1", "EXIT_FRAME",
		"INVOKE paragraph 1", "EXIT_FRAME",
		"INVOKE generate.file 1", "EXIT_FRAME",
	}
	if got := listing(res.Program); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("program =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", res.Diagnostics)
	}
	if res.Program.Source != "h.ds" {
		t.Errorf("Program.Source = %q, want h.ds", res.Program.Source)
	}
}

func TestVectorOrderEndToEnd(t *testing.T) {
	res := Bytes("v.ds", []byte("x .list([1, 2, 3])"))
	got := strings.Join(listing(res.Program), "\n")
	want := "PUSH_UINT 1\nPUSH_UINT 2\nPUSH_UINT 3\nASSEMBLE_VECTOR 3"
	if !strings.Contains(got, want) {
		t.Errorf("program =\n%s\nwant it to contain\n%s", got, want)
	}
}

func TestDottedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		not   string
	}{
		{
			name:  "version",
			input: "release 12.3.4 is out",
			want:  "PUSH_RETURN_SLOT\nENTER_FRAME\nPUSH_STRING \"12.3.4\"\nINVOKE convert.numeric 1\nEXIT_FRAME",
			not:   "PUSH_FLOAT",
		},
		{
			name:  "sentence end",
			input: "see 1.2.3.",
			want:  "PUSH_STRING \"1.2.3\"\nINVOKE convert.numeric 1\nEXIT_FRAME\nPUSH_RETURN_SLOT\nENTER_FRAME\nPUSH_STRING \".\"\nINVOKE convert.alpha 1",
			not:   "PUSH_FLOAT",
		},
		{
			name:  "date at sentence end",
			input: "on @2024-01-01.",
			want:  "PUSH_TIMESTAMP 2024-01-01T00:00:00Z",
			not:   "@2024",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Bytes("n.ds", []byte(tt.input))
			got := strings.Join(listing(res.Program), "\n")
			if !strings.Contains(got, tt.want) {
				t.Errorf("program =\n%s\nwant it to contain\n%s", got, tt.want)
			}
			if strings.Contains(got, tt.not) {
				t.Errorf("program =\n%s\nwant no %q", got, tt.not)
			}
			if len(res.Diagnostics) != 0 {
				t.Errorf("Diagnostics = %v, want none", res.Diagnostics)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	res := Bytes("f.ds", []byte("x"), WithFlags(codegen.Flags{Meta: true}))
	got := strings.Join(listing(res.Program), "\n")
	if !strings.Contains(got, "INVOKE generate.meta 1") {
		t.Errorf("program =\n%s\nwant a generate.meta call", got)
	}
	if strings.Contains(got, "generate.index") {
		t.Errorf("program =\n%s\nwant no generate.index call", got)
	}
}

func TestCustomDirectives(t *testing.T) {
	tbl := directive.Default()
	tbl.Set("note", true, 2)
	res := Bytes("n.ds", []byte(".note(hi)"), WithDirectives(tbl))

	if len(res.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none for a standalone directive", res.Diagnostics)
	}
	got := strings.Join(listing(res.Program), "\n")
	if !strings.Contains(got, "INVOKE note 2") {
		t.Errorf("program =\n%s\nwant INVOKE note 2", got)
	}
}

func TestNestingTooDeep(t *testing.T) {
	input := "x " + strings.Repeat(".b(", 10) + "y" + strings.Repeat(")", 10)
	res := Bytes("deep.ds", []byte(input), WithMaxDepth(4))

	if !res.HasErrors() {
		t.Errorf("HasErrors() = false, want the nesting error: %v", res.Diagnostics)
	}
	if !endsWithFileEnvelope(res.Program) {
		t.Errorf("program does not end in the file envelope:\n%s", codegen.Disassemble(res.Program))
	}
}

func TestSymbolsEndWithEOF(t *testing.T) {
	res := Bytes("e.ds", []byte("a\n\n\n\nb"))
	n := len(res.Symbols)
	if n == 0 || res.Symbols[n-1].Kind != lexer.SymbolEOF {
		t.Fatalf("Symbols = %v, want trailing END_OF_INPUT", res.Symbols)
	}
	for i := 1; i < n; i++ {
		if res.Symbols[i].Kind == lexer.SymbolParagraphBreak && res.Symbols[i-1].Kind == lexer.SymbolParagraphBreak {
			t.Errorf("consecutive paragraph breaks at %d", i)
		}
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestSourceReadError(t *testing.T) {
	if _, err := Source("x.ds", brokenReader{}); err == nil || !strings.Contains(err.Error(), "x.ds") {
		t.Errorf("Source() error = %v, want it to name the file", err)
	}
}
