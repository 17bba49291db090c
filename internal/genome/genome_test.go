package genome

import (
	"path"
	"testing"
)

func TestLoad(t *testing.T) {
	type args struct {
		path string
	}
	tests := []struct {
		name     string
		args     args
		wantID   string
		wantLen  int
		wantErr  bool
		features int
	}{
		{
			"load genbank",
			args{path.Join("testdata", "recoded_demo.gb")},
			"recoded_demo",
			240,
			false,
			4,
		},
		{
			"load fasta",
			args{path.Join("testdata", "recoded_demo.fa")},
			"recoded_demo",
			240,
			false,
			0,
		},
		{
			"missing file",
			args{path.Join("testdata", "nope.gb")},
			"",
			0,
			true,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("Load().ID = %v, want %v", got.ID, tt.wantID)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("Load().Len() = %v, want %v", got.Len(), tt.wantLen)
			}
			if len(got.Features) != tt.features {
				t.Errorf("Load() features = %v, want %v", len(got.Features), tt.features)
			}
		})
	}
}

func TestLoad_formatsAgree(t *testing.T) {
	gb, err := Load(path.Join("testdata", "recoded_demo.gb"))
	if err != nil {
		t.Fatal(err)
	}
	fa, err := Load(path.Join("testdata", "recoded_demo.fa"))
	if err != nil {
		t.Fatal(err)
	}

	if gb.Seq != fa.Seq {
		t.Errorf("genbank and fasta sequences differ:\n%s\n%s", gb.Seq, fa.Seq)
	}
}

func Test_readFasta(t *testing.T) {
	type args struct {
		path     string
		contents string
	}
	tests := []struct {
		name    string
		args    args
		wantID  string
		wantSeq string
		wantErr bool
	}{
		{
			"single record",
			args{"mock.fa", ">seg1 a demo record\natgc\nATGC\n"},
			"seg1",
			"ATGCATGC",
			false,
		},
		{
			"first record only",
			args{"mock.fa", ">seg1\naaaa\n>seg2\ntttt\n"},
			"seg1",
			"AAAA",
			false,
		},
		{
			"no header",
			args{"mock.fa", "aaaa\n"},
			"",
			"",
			true,
		},
		{
			"empty record",
			args{"mock.fa", ">seg1\n"},
			"",
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readFasta(tt.args.path, tt.args.contents)
			if (err != nil) != tt.wantErr {
				t.Errorf("readFasta() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("readFasta().ID = %v, want %v", got.ID, tt.wantID)
			}
			if got.Seq != tt.wantSeq {
				t.Errorf("readFasta().Seq = %v, want %v", got.Seq, tt.wantSeq)
			}
		})
	}
}

func Test_cleanSeq(t *testing.T) {
	type args struct {
		seq string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"uppercases",
			args{"atgc"},
			"ATGC",
		},
		{
			"strips digits and whitespace",
			args{"       61 ggggcccc\n      121 aatt"},
			"GGGGCCCCAATT",
		},
		{
			"keeps ambiguity codes",
			args{"atgcnryswkm"},
			"ATGCNRYSWKM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanSeq(tt.args.seq); got != tt.want {
				t.Errorf("cleanSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRevComp(t *testing.T) {
	type args struct {
		seq string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"simple",
			args{"ATGC"},
			"GCAT",
		},
		{
			"palindrome",
			args{"GAATTC"},
			"GAATTC",
		},
		{
			"unknown bases",
			args{"AT-C"},
			"GNAT",
		},
		{
			"empty",
			args{""},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RevComp(tt.args.seq); got != tt.want {
				t.Errorf("RevComp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRevComp_involution(t *testing.T) {
	seq := "ATGCATTACAGGCCAATT"
	if got := RevComp(RevComp(seq)); got != seq {
		t.Errorf("RevComp(RevComp()) = %v, want %v", got, seq)
	}
}

func TestStrand_String(t *testing.T) {
	tests := []struct {
		name string
		s    Strand
		want string
	}{
		{"fwd", Fwd, "+"},
		{"rev", Rev, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Strand.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
